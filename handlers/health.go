/*
# Module: handlers/health.go
Health check endpoint handler.

## Linked Modules
- [services/container](../services/container.go) - Results container

## Tags
http, health, api

## Exports
HandleHealth

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/health.go" ;
    code:description "Health check endpoint handler" ;
    code:exports :HandleHealth ;
    code:tags "http", "health", "api" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"net/http"

	"github.com/FallThunder/hack-at-davidson25/services"
)

// HandleHealth handles GET /api/health
// Reports liveness and how many businesses the container currently shows
func HandleHealth(container *services.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"businesses": container.Len(),
		})
	}
}
