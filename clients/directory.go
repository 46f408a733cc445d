/*
# Module: clients/directory.go
Directory service client that fetches the business list from the configured endpoint.

## Linked Modules
- [types/business](../types/business.go) - Business data structures and response envelopes
- [types/schema](../types/schema.go) - Response contract revisions
- [clients/errors](./errors.go) - FetchError failure kind

## Tags
api-client, business, directory

## Exports
DirectoryClient, NewDirectoryClient, ClientOption, WithHTTPClient, WithSchema, WithTokenSource, WithUserAgent, FetchBusinesses, Fetch, Search

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/directory.go" ;
    code:description "Directory service client that fetches the business list from the configured endpoint" ;
    code:linksTo [
        code:name "types/business" ;
        code:path "../types/business.go" ;
        code:relationship "Business data structures and response envelopes"
    ], [
        code:name "clients/errors" ;
        code:path "./errors.go" ;
        code:relationship "FetchError failure kind"
    ] ;
    code:exports :DirectoryClient, :NewDirectoryClient, :FetchBusinesses, :Fetch, :Search ;
    code:tags "api-client", "business", "directory" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/FallThunder/hack-at-davidson25/types"
)

// maxBodyBytes caps how much of a directory response is read
const maxBodyBytes = 4 << 20

// PromptHeader carries a free-text search prompt to the directory service
const PromptHeader = "X-Prompt"

// DirectoryClient handles directory service requests
type DirectoryClient struct {
	endpoint    string
	schema      types.Schema
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	userAgent   string
}

// ClientOption is a functional option for configuring the DirectoryClient.
type ClientOption func(*DirectoryClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *DirectoryClient) {
		c.httpClient = client
	}
}

// WithSchema selects the response contract served by the endpoint.
func WithSchema(schema types.Schema) ClientOption {
	return func(c *DirectoryClient) {
		c.schema = schema
	}
}

// WithTokenSource adds a bearer token to every request.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *DirectoryClient) {
		c.tokenSource = ts
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *DirectoryClient) {
		c.userAgent = ua
	}
}

// NewDirectoryClient creates a client for the given endpoint.
//
// The endpoint must be an absolute http(s) URL; the placeholder left in an
// unconfigured deployment is rejected here rather than on the first click.
func NewDirectoryClient(endpoint string, opts ...ClientOption) (*DirectoryClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid directory endpoint %q", endpoint)
	}

	client := &DirectoryClient{
		endpoint:   endpoint,
		schema:     types.SchemaLatest,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  "business-directory/1.0",
	}

	for _, opt := range opts {
		opt(client)
	}

	schema, err := types.ParseSchema(string(client.schema))
	if err != nil {
		return nil, err
	}
	client.schema = schema

	return client, nil
}

// Schema returns the response contract the client decodes
func (c *DirectoryClient) Schema() types.Schema {
	return c.schema
}

// FetchBusinesses returns the businesses in the order the service sent them
func (c *DirectoryClient) FetchBusinesses(ctx context.Context) ([]types.Business, error) {
	result, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return result.Businesses, nil
}

// Fetch returns the full directory result including any best match
func (c *DirectoryClient) Fetch(ctx context.Context) (*types.DirectoryResult, error) {
	return c.do(ctx, "")
}

// Search sends a free-text prompt along with the request. A blank prompt is a plain Fetch.
func (c *DirectoryClient) Search(ctx context.Context, prompt string) (*types.DirectoryResult, error) {
	return c.do(ctx, headerSafePrompt(prompt))
}

// headerSafePrompt turns control characters into spaces and collapses runs
// of whitespace, since a header value may not carry line breaks or NULs
func headerSafePrompt(prompt string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, prompt)
	return strings.Join(strings.Fields(cleaned), " ")
}

func (c *DirectoryClient) do(ctx context.Context, prompt string) (*types.DirectoryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if prompt != "" {
		req.Header.Set(PromptHeader, prompt)
	}

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return nil, &FetchError{Stage: StageRequest, Err: fmt.Errorf("failed to get access token: %w", err)}
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Stage:      StageStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("directory service error: %s", strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Stage: StageRequest, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	result, err := decodeDirectory(c.schema, body)
	if err != nil {
		return nil, &FetchError{Stage: StageDecode, Err: err}
	}

	log.Debug().
		Int("count", len(result.Businesses)).
		Str("schema", string(c.schema)).
		Bool("prompt", prompt != "").
		Msg("🏪 Directory fetch decoded")
	return result, nil
}

// decodeDirectory maps a payload of the given schema onto the canonical result
func decodeDirectory(schema types.Schema, body []byte) (*types.DirectoryResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}

	if !schema.IsEnvelope() {
		if trimmed[0] != '[' {
			return nil, errors.New("expected a JSON array of businesses")
		}
		var businesses []types.Business
		if err := json.Unmarshal(trimmed, &businesses); err != nil {
			return nil, fmt.Errorf("failed to parse businesses: %w", err)
		}
		if businesses == nil {
			businesses = []types.Business{}
		}
		return &types.DirectoryResult{Businesses: businesses}, nil
	}

	if trimmed[0] != '{' {
		return nil, fmt.Errorf("expected a JSON object for schema %q", schema)
	}

	switch schema {
	case types.SchemaA, types.SchemaB:
		var resp types.BResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse directory response: %w", err)
		}
		return resp.ToResult(), nil
	default:
		var resp types.DirectoryResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse directory response: %w", err)
		}
		return resp.ToResult(), nil
	}
}
