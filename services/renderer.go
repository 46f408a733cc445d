/*
# Module: services/renderer.go
Renders business records into the results container and standalone snapshot pages.

## Linked Modules
- [services/container](./container.go) - Results container
- [types/business](../types/business.go) - Business data structures

## Tags
rendering, html, business

## Exports
Renderer, NewRenderer, Render, RenderResult, ErrorHTML, Snapshot

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/renderer.go" ;
    code:description "Renders business records into the results container and standalone snapshot pages" ;
    code:linksTo [
        code:name "services/container" ;
        code:path "./container.go" ;
        code:relationship "Results container"
    ], [
        code:name "types/business" ;
        code:path "../types/business.go" ;
        code:relationship "Business data structures"
    ] ;
    code:exports :Renderer, :NewRenderer, :Render, :RenderResult, :ErrorHTML, :Snapshot ;
    code:tags "rendering", "html", "business" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/FallThunder/hack-at-davidson25/types"
)

const blockHTML = `<div class="business-item{{if .Best}} best-match{{end}}">
    <h2>{{.Name}}</h2>
    <p>{{.Address}}</p>
    <p>{{.Phone}}</p>
{{- if .Website}}
    <p><a href="{{.Website}}" target="_blank" rel="noopener">{{.Website}}</a></p>
{{- end}}
{{- if .Description}}
    <p class="description">{{.Description}}</p>
{{- end}}
{{- if .Reason}}
    <p class="match-reason">{{.Reason}}</p>
{{- end}}
</div>
`

const errorHTML = `<div class="business-error">{{.}}</div>
`

const snapshotHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Business Directory snapshot</title>
</head>
<body>
    <p class="snapshot-time">{{.Time}}</p>
    <div id="{{.ID}}">
{{.Blocks}}    </div>
</body>
</html>
`

// blockView is the template input for one business
type blockView struct {
	Name        string
	Address     string
	Phone       string
	Website     string
	Description string
	Reason      string
	Best        bool
}

// Renderer turns business records into container blocks
type Renderer struct {
	block     *template.Template
	errBlock  *template.Template
	snapshot  *template.Template
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a Renderer with the built-in templates
func NewRenderer() *Renderer {
	return &Renderer{
		block:     template.Must(template.New("block").Parse(blockHTML)),
		errBlock:  template.Must(template.New("error").Parse(errorHTML)),
		snapshot:  template.Must(template.New("snapshot").Parse(snapshotHTML)),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Render clears the container and appends one block per record, in order.
// An empty slice leaves the container empty.
func (r *Renderer) Render(c *Container, records []types.Business) error {
	return r.RenderResult(c, &types.DirectoryResult{Businesses: records})
}

// RenderResult is Render with the best match highlighted
func (r *Renderer) RenderResult(c *Container, result *types.DirectoryResult) error {
	var records []types.Business
	if result != nil {
		records = result.Businesses
	}

	bestIdx := result.BestIndex()
	blocks := make([]Block, 0, len(records))
	for i, b := range records {
		view := blockView{
			Name:        b.Name,
			Address:     b.Address.String(),
			Phone:       b.Phone,
			Website:     b.Website,
			Description: r.plainText(b.Description),
			Best:        i == bestIdx,
		}
		if view.Best {
			view.Reason = bestReason(result.BestMatch)
		}

		var buf bytes.Buffer
		if err := r.block.Execute(&buf, view); err != nil {
			return fmt.Errorf("failed to render business %d: %w", i, err)
		}
		blocks = append(blocks, Block{Business: b, Best: view.Best, HTML: template.HTML(buf.String())})
	}

	c.replace(blocks)
	return nil
}

// ErrorHTML renders a user-facing error block without touching any container
func (r *Renderer) ErrorHTML(message string) template.HTML {
	var buf bytes.Buffer
	if err := r.errBlock.Execute(&buf, message); err != nil {
		return template.HTML(`<div class="business-error"></div>`)
	}
	return template.HTML(buf.String())
}

// Snapshot renders the container as a standalone HTML document
func (r *Renderer) Snapshot(c *Container, at time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := r.snapshot.Execute(&buf, struct {
		ID     string
		Time   string
		Blocks template.HTML
	}{
		ID:     c.ID(),
		Time:   at.UTC().Format(time.RFC3339),
		Blocks: c.HTML(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// plainText strips markup from free text; the template escapes the rest
func (r *Renderer) plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.sanitizer.Sanitize(s)))
}

func bestReason(m *types.BestMatch) string {
	if m == nil {
		return ""
	}
	if m.MatchReasons != "" {
		return m.MatchReasons
	}
	return m.Reason
}
