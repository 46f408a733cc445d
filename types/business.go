/*
# Module: types/business.go
Business directory data structures and the directory API response envelopes.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, business, api-contract

## Exports
Business, Address, BestMatch, DirectoryResult, BResponse, BusinessInfo, MatchedBusiness, LegacyBestMatch, DirectoryResponse

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/business.go" ;
    code:description "Business directory data structures and the directory API response envelopes" ;
    code:exports :Business, :Address, :BestMatch, :DirectoryResult, :BResponse, :DirectoryResponse ;
    code:tags "data-types", "business", "api-contract" .
<!-- End LinkedDoc RDF -->
*/
package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Business is one record returned by the directory service
type Business struct {
	Name         string  `json:"name"`
	Address      Address `json:"address"`
	Phone        string  `json:"phone"`
	Website      string  `json:"website,omitempty"`
	Description  string  `json:"description,omitempty"`
	MatchReasons string  `json:"match_reasons,omitempty"`
	CardLink     string  `json:"card_link,omitempty"`
}

// Address accepts both the flat string form and the structured
// {street, city, state} form served by newer backends.
type Address struct {
	Line   string `json:"-"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
}

// NewAddress builds a flat address from a single line
func NewAddress(line string) Address {
	return Address{Line: line}
}

// IsStructured reports whether any structured field is set
func (a Address) IsStructured() bool {
	return a.Street != "" || a.City != "" || a.State != ""
}

// String returns the address as a single display line
func (a Address) String() string {
	if !a.IsStructured() {
		return a.Line
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON decodes either a JSON string or an address object
func (a *Address) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Address{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var line string
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		*a = Address{Line: line}
		return nil
	}

	type structured Address
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = Address(s)
	return nil
}

// MarshalJSON writes the structured form when present, otherwise the line
func (a Address) MarshalJSON() ([]byte, error) {
	if !a.IsStructured() {
		return json.Marshal(a.Line)
	}
	type structured Address
	return json.Marshal(structured(a))
}

// BestMatch is the directory service's pick of the top result.
// Older backends identify it by links and name, newer ones by index.
type BestMatch struct {
	BusinessIndex *int   `json:"business_index,omitempty"`
	MatchReasons  string `json:"match_reasons,omitempty"`
	BusinessLink  string `json:"business_link,omitempty"`
	CardLink      string `json:"card_link,omitempty"`
	BusinessName  string `json:"business_name,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// DirectoryResult is the canonical decoded payload, independent of schema version
type DirectoryResult struct {
	Businesses []Business `json:"businesses"`
	BestMatch  *BestMatch `json:"best_match,omitempty"`
}

// BestIndex returns the position of the best match in Businesses, or -1
func (r *DirectoryResult) BestIndex() int {
	if r == nil || r.BestMatch == nil {
		return -1
	}

	if idx := r.BestMatch.BusinessIndex; idx != nil {
		if *idx >= 0 && *idx < len(r.Businesses) {
			return *idx
		}
		return -1
	}

	if name := r.BestMatch.BusinessName; name != "" {
		for i, b := range r.Businesses {
			if b.Name == name {
				return i
			}
		}
	}
	return -1
}

// Best returns the best-match business if the service identified one
func (r *DirectoryResult) Best() (Business, bool) {
	idx := r.BestIndex()
	if idx < 0 {
		return Business{}, false
	}
	return r.Businesses[idx], true
}

// BusinessInfo is the nested business record of the match_count envelope
type BusinessInfo struct {
	Address         string `json:"address"`
	AnyOtherDetails string `json:"any_other_details"`
	BusinessName    string `json:"business_name"`
	Email           string `json:"email"`
	OwnerName       string `json:"owner_name"`
	PhoneNumber     string `json:"phone_number"`
}

// MatchedBusiness wraps BusinessInfo with its links
type MatchedBusiness struct {
	BusinessInfo BusinessInfo `json:"business_info"`
	CardLink     string       `json:"card_link"`
	HomepageLink string       `json:"homepage_link"`
}

// LegacyBestMatch is the link-based best match of the match_count envelope
type LegacyBestMatch struct {
	BusinessLink string `json:"business_link"`
	CardLink     string `json:"card_link"`
	BusinessName string `json:"business_name"`
	Reason       string `json:"reason"`
}

// BResponse is the match_count envelope; BestMatch is only sent by later revisions
type BResponse struct {
	MatchCount        int               `json:"match_count"`
	MatchedBusinesses []MatchedBusiness `json:"matched_businesses"`
	BestMatch         *LegacyBestMatch  `json:"best_match,omitempty"`
}

// ToResult converts the envelope into the canonical result
func (r BResponse) ToResult() *DirectoryResult {
	businesses := make([]Business, 0, len(r.MatchedBusinesses))
	for _, m := range r.MatchedBusinesses {
		businesses = append(businesses, Business{
			Name:        m.BusinessInfo.BusinessName,
			Address:     NewAddress(m.BusinessInfo.Address),
			Phone:       m.BusinessInfo.PhoneNumber,
			Website:     m.HomepageLink,
			Description: m.BusinessInfo.AnyOtherDetails,
			CardLink:    m.CardLink,
		})
	}

	result := &DirectoryResult{Businesses: businesses}
	if r.BestMatch != nil {
		result.BestMatch = &BestMatch{
			BusinessLink: r.BestMatch.BusinessLink,
			CardLink:     r.BestMatch.CardLink,
			BusinessName: r.BestMatch.BusinessName,
			Reason:       r.BestMatch.Reason,
		}
	}
	return result
}

// DirectoryResponse is the businesses envelope with an index-based best match
type DirectoryResponse struct {
	BestMatch  *BestMatch `json:"best_match,omitempty"`
	Businesses []Business `json:"businesses"`
}

// ToResult converts the envelope into the canonical result
func (r DirectoryResponse) ToResult() *DirectoryResult {
	businesses := r.Businesses
	if businesses == nil {
		businesses = []Business{}
	}
	return &DirectoryResult{Businesses: businesses, BestMatch: r.BestMatch}
}
