package types

import (
	"fmt"
	"strings"
)

// Schema names a revision of the directory response contract.
//
//	array: bare JSON array of businesses
//	a:     {match_count, matched_businesses}
//	b:     a plus a link-based best_match
//	c:     {best_match{business_index, match_reasons}, businesses}
//	d:     c with structured address and free-text description
type Schema string

const (
	SchemaArray Schema = "array"
	SchemaA     Schema = "a"
	SchemaB     Schema = "b"
	SchemaC     Schema = "c"
	SchemaD     Schema = "d"

	// SchemaLatest is used when no revision is configured
	SchemaLatest = SchemaD
)

// ParseSchema accepts a schema name case-insensitively; empty means latest
func ParseSchema(name string) (Schema, error) {
	s := Schema(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case "":
		return SchemaLatest, nil
	case SchemaArray, SchemaA, SchemaB, SchemaC, SchemaD:
		return s, nil
	}
	return "", fmt.Errorf("unknown directory schema %q (want array, a, b, c or d)", name)
}

// IsEnvelope reports whether the payload is a JSON object rather than an array
func (s Schema) IsEnvelope() bool {
	return s != SchemaArray
}
