/*
# Module: services/loader.go
Runs one cancellable fetch-and-render unit per trigger; a newer trigger supersedes older ones.

## Linked Modules
- [clients/directory](../clients/directory.go) - Directory service client
- [services/renderer](./renderer.go) - Container rendering
- [storage/repository](../storage/repository.go) - Fetch history persistence

## Tags
business-logic, concurrency, directory

## Exports
Loader, NewLoader, LoaderOptions, Outcome, DirectoryFetcher, SnapshotPublisher, Load, LoadQuery, Wait

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/loader.go" ;
    code:description "Runs one cancellable fetch-and-render unit per trigger" ;
    code:linksTo [
        code:name "clients/directory" ;
        code:path "../clients/directory.go" ;
        code:relationship "Directory service client"
    ], [
        code:name "services/renderer" ;
        code:path "./renderer.go" ;
        code:relationship "Container rendering"
    ], [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Fetch history persistence"
    ] ;
    code:exports :Loader, :NewLoader, :Outcome, :Load, :LoadQuery ;
    code:tags "business-logic", "concurrency", "directory" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FallThunder/hack-at-davidson25/metrics"
	"github.com/FallThunder/hack-at-davidson25/storage"
	"github.com/FallThunder/hack-at-davidson25/types"
)

// DirectoryFetcher is the part of the directory client the loader needs
type DirectoryFetcher interface {
	Fetch(ctx context.Context) (*types.DirectoryResult, error)
	Search(ctx context.Context, prompt string) (*types.DirectoryResult, error)
}

// SnapshotPublisher stores a rendered page and returns where it lives
type SnapshotPublisher interface {
	Publish(ctx context.Context, page []byte) (string, error)
}

// LoaderOptions configures the optional parts of a Loader
type LoaderOptions struct {
	// Timeout bounds one fetch; zero means no bound beyond the caller's context
	Timeout time.Duration
	// History records every attempt when set
	History storage.FetchLogRepository
	// Publisher uploads the rendered page after each successful render when set
	Publisher SnapshotPublisher
}

// Outcome is the typed result of one Load
type Outcome struct {
	ID        string
	Status    types.FetchStatus
	Count     int
	BestMatch *types.BestMatch
	Err       error
}

// Loader serializes fetch-and-render units against one container.
// Starting a unit cancels the previous one, and only the newest unit may render.
type Loader struct {
	fetcher   DirectoryFetcher
	renderer  *Renderer
	container *Container
	opts      LoaderOptions

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc

	background sync.WaitGroup
}

// NewLoader wires a fetcher, renderer and container together
func NewLoader(fetcher DirectoryFetcher, renderer *Renderer, container *Container, opts LoaderOptions) *Loader {
	return &Loader{
		fetcher:   fetcher,
		renderer:  renderer,
		container: container,
		opts:      opts,
	}
}

// Container returns the container the loader renders into
func (l *Loader) Container() *Container {
	return l.container
}

// Load fetches the directory and renders it
func (l *Loader) Load(ctx context.Context) Outcome {
	return l.LoadQuery(ctx, "")
}

// LoadQuery is Load with a free-text prompt; a blank prompt is a plain fetch
func (l *Loader) LoadQuery(ctx context.Context, prompt string) Outcome {
	start := time.Now()
	outcome := Outcome{ID: uuid.New().String()}

	runCtx, gen, cancel := l.begin(ctx)
	defer cancel()

	var (
		result *types.DirectoryResult
		page   []byte
		err    error
	)
	if prompt == "" {
		result, err = l.fetcher.Fetch(runCtx)
	} else {
		result, err = l.fetcher.Search(runCtx, prompt)
	}

	switch {
	case !l.isCurrent(gen):
		outcome.Status = types.FetchSuperseded
		log.Debug().Str("id", outcome.ID).Msg("⏭️  Fetch superseded by a newer request")
	case err != nil:
		outcome.Status = types.FetchFailed
		outcome.Err = err
		log.Error().Err(err).Str("id", outcome.ID).Msg("❌ Error fetching businesses")
	default:
		outcome, page = l.render(gen, outcome, result, start)
	}

	l.finish(outcome, prompt, start, page)
	return outcome
}

// render draws the result if gen is still the newest unit. The snapshot is
// taken before the lock is released so it shows exactly this unit's blocks.
func (l *Loader) render(gen uint64, outcome Outcome, result *types.DirectoryResult, at time.Time) (Outcome, []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		outcome.Status = types.FetchSuperseded
		return outcome, nil
	}

	if err := l.renderer.RenderResult(l.container, result); err != nil {
		outcome.Status = types.FetchFailed
		outcome.Err = err
		log.Error().Err(err).Str("id", outcome.ID).Msg("❌ Error rendering businesses")
		return outcome, nil
	}

	outcome.Status = types.FetchRendered
	outcome.Count = len(result.Businesses)
	outcome.BestMatch = result.BestMatch
	metrics.SetRenderedBlocks(outcome.Count)
	log.Info().Str("id", outcome.ID).Int("count", outcome.Count).Msg("🏪 Rendered businesses")

	if l.opts.Publisher == nil {
		return outcome, nil
	}
	page, err := l.renderer.Snapshot(l.container, at)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  Failed to render snapshot")
		return outcome, nil
	}
	return outcome, page
}

// begin cancels the in-flight unit and starts a new generation
func (l *Loader) begin(parent context.Context) (context.Context, uint64, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if l.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, l.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	l.cancel = cancel
	return ctx, l.generation, cancel
}

func (l *Loader) isCurrent(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.generation
}

// finish records metrics and hands history and publishing to the background
func (l *Loader) finish(outcome Outcome, prompt string, start time.Time, page []byte) {
	elapsed := time.Since(start)
	metrics.RecordFetch(string(outcome.Status), elapsed.Seconds())

	if l.opts.History == nil && page == nil {
		return
	}

	entry := types.FetchLog{
		ID:        outcome.ID,
		Status:    outcome.Status,
		Query:     prompt,
		Count:     outcome.Count,
		Duration:  elapsed.String(),
		Timestamp: start,
	}
	if outcome.Err != nil {
		entry.Error = outcome.Err.Error()
	}

	l.background.Add(1)
	go func() {
		defer l.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if page != nil {
			url, err := l.opts.Publisher.Publish(ctx, page)
			if err != nil {
				metrics.RecordError("publish_snapshot")
				log.Warn().Err(err).Str("id", entry.ID).Msg("⚠️  Failed to publish snapshot")
			} else {
				entry.SnapshotURL = url
				log.Info().Str("url", url).Msg("📤 Snapshot published")
			}
		}

		if l.opts.History != nil {
			if err := l.opts.History.Save(ctx, entry); err != nil {
				metrics.RecordError("save_fetch_log")
				log.Warn().Err(err).Str("id", entry.ID).Msg("⚠️  Failed to save fetch log")
			}
		}
	}()
}

// Wait blocks until background history and publishing work has finished
func (l *Loader) Wait() {
	l.background.Wait()
}
