/*
# Module: storage/memory.go
In-memory fetch history repository.

## Linked Modules
- [storage/repository](./repository.go) - Repository interfaces
- [types/fetch_log](../types/fetch_log.go) - Fetch attempt records

## Tags
storage, memory, repository

## Exports
FetchLogMemoryRepository, NewFetchLogMemoryRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/memory.go" ;
    code:description "In-memory fetch history repository" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interfaces"
    ], [
        code:name "types/fetch_log" ;
        code:path "../types/fetch_log.go" ;
        code:relationship "Fetch attempt records"
    ] ;
    code:exports :FetchLogMemoryRepository, :NewFetchLogMemoryRepository ;
    code:tags "storage", "memory", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"sync"

	"github.com/FallThunder/hack-at-davidson25/types"
)

// FetchLogMemoryRepository keeps the last N fetch attempts in memory
type FetchLogMemoryRepository struct {
	entries []types.FetchLog
	max     int
	mutex   sync.RWMutex
}

// NewFetchLogMemoryRepository creates a ring of at most max entries
func NewFetchLogMemoryRepository(max int) *FetchLogMemoryRepository {
	if max <= 0 {
		max = 50
	}
	return &FetchLogMemoryRepository{
		entries: make([]types.FetchLog, 0, max),
		max:     max,
	}
}

// Save appends an entry, dropping the oldest past the cap
func (r *FetchLogMemoryRepository) Save(ctx context.Context, entry types.FetchLog) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.entries = append(r.entries, entry)
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
	return nil
}

// GetRecent returns up to limit entries, newest first
func (r *FetchLogMemoryRepository) GetRecent(ctx context.Context, limit int) ([]types.FetchLog, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}

	out := make([]types.FetchLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
