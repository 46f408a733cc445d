/*
# Module: services/container.go
Server-side results container the renderer writes into.

## Linked Modules
- [services/renderer](./renderer.go) - Sole writer of the container
- [types/business](../types/business.go) - Business records

## Tags
business-logic, rendering, state

## Exports
Block, Container, NewContainer

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/container.go" ;
    code:description "Server-side results container the renderer writes into" ;
    code:linksTo [
        code:name "services/renderer" ;
        code:path "./renderer.go" ;
        code:relationship "Sole writer of the container"
    ], [
        code:name "types/business" ;
        code:path "../types/business.go" ;
        code:relationship "Business records"
    ] ;
    code:exports :Block, :Container, :NewContainer ;
    code:tags "business-logic", "rendering", "state" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"html/template"
	"strings"
	"sync"

	"github.com/FallThunder/hack-at-davidson25/types"
)

// Block is one rendered business entry
type Block struct {
	Business types.Business `json:"business"`
	Best     bool           `json:"best,omitempty"`
	HTML     template.HTML  `json:"html"`
}

// Container is the results list the renderer writes into. Only the
// renderer mutates it; readers get copies.
type Container struct {
	id     string
	mu     sync.RWMutex
	blocks []Block
}

// NewContainer creates an empty container with the given element id
func NewContainer(id string) *Container {
	return &Container{id: id, blocks: []Block{}}
}

// ID is the element id the container is mounted at on the page
func (c *Container) ID() string {
	return c.id
}

// Blocks returns a copy of the current blocks
func (c *Container) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Len returns the number of blocks
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// HTML returns the concatenated block markup
func (c *Container) HTML() template.HTML {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sb strings.Builder
	for _, b := range c.blocks {
		sb.WriteString(string(b.HTML))
	}
	return template.HTML(sb.String())
}

// replace clears the container and appends blocks in order
func (c *Container) replace(blocks []Block) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks = append(make([]Block, 0, len(blocks)), blocks...)
}
