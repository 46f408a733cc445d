/*
# Module: handlers/businesses.go
HTTP handlers for triggering a directory load and reading results.

## Linked Modules
- [services/loader](../services/loader.go) - Fetch-and-render units
- [services/renderer](../services/renderer.go) - Error blocks
- [storage/repository](../storage/repository.go) - Fetch history

## Tags
http, api, directory

## Exports
BusinessHandler, NewBusinessHandler, HandleTrigger, HandleContainer, HandleHistory

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/businesses.go" ;
    code:description "HTTP handlers for triggering a directory load and reading results" ;
    code:linksTo [
        code:name "services/loader" ;
        code:path "../services/loader.go" ;
        code:relationship "Fetch-and-render units"
    ], [
        code:name "services/renderer" ;
        code:path "../services/renderer.go" ;
        code:relationship "Error blocks"
    ], [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Fetch history"
    ] ;
    code:exports :BusinessHandler, :NewBusinessHandler, :HandleTrigger, :HandleContainer, :HandleHistory ;
    code:tags "http", "api", "directory" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/FallThunder/hack-at-davidson25/services"
	"github.com/FallThunder/hack-at-davidson25/storage"
	"github.com/FallThunder/hack-at-davidson25/types"
)

// BusinessHandler serves the trigger endpoint and read-only result views
type BusinessHandler struct {
	loader        *services.Loader
	renderer      *services.Renderer
	history       storage.FetchLogRepository
	historyLimit  int
	surfaceErrors bool
}

// NewBusinessHandler creates a handler. When surfaceErrors is false a failed
// fetch is invisible to the page, which keeps whatever it was showing.
func NewBusinessHandler(loader *services.Loader, renderer *services.Renderer, history storage.FetchLogRepository, historyLimit int, surfaceErrors bool) *BusinessHandler {
	return &BusinessHandler{
		loader:        loader,
		renderer:      renderer,
		history:       history,
		historyLimit:  historyLimit,
		surfaceErrors: surfaceErrors,
	}
}

// HandleTrigger handles GET /api/businesses
// Runs one load and returns the rendered container fragment
func (h *BusinessHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	prompt := strings.TrimSpace(r.URL.Query().Get("q"))
	outcome := h.loader.LoadQuery(r.Context(), prompt)

	w.Header().Set("X-Fetch-ID", outcome.ID)
	w.Header().Set("X-Fetch-Status", string(outcome.Status))

	switch outcome.Status {
	case types.FetchRendered:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(h.loader.Container().HTML()))

	case types.FetchFailed:
		if !h.surfaceErrors {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(h.renderer.ErrorHTML("Could not load businesses. Please try again.")))

	default:
		// a newer request owns the container
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleContainer handles GET /api/businesses.json
func (h *BusinessHandler) HandleContainer(w http.ResponseWriter, r *http.Request) {
	container := h.loader.Container()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"container_id": container.ID(),
		"count":        container.Len(),
		"blocks":       container.Blocks(),
	})
}

// HandleHistory handles GET /api/history
func (h *BusinessHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, []types.FetchLog{})
		return
	}

	entries, err := h.history.GetRecent(r.Context(), h.historyLimit)
	if err != nil {
		log.Error().Err(err).Msg("❌ Error retrieving fetch history")
		http.Error(w, "Failed to retrieve fetch history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("⚠️  Failed to encode response")
	}
}
