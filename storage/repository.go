/*
# Module: storage/repository.go
Repository interfaces for the fetch history persistence layer.

## Linked Modules
- [types/fetch_log](../types/fetch_log.go) - Fetch attempt records

## Tags
storage, repository, interface, persistence

## Exports
FetchLogRepository

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/repository.go" ;
    code:description "Repository interfaces for the fetch history persistence layer" ;
    code:linksTo [
        code:name "types/fetch_log" ;
        code:path "../types/fetch_log.go" ;
        code:relationship "Fetch attempt records"
    ] ;
    code:exports :FetchLogRepository ;
    code:tags "storage", "repository", "interface", "persistence" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"

	"github.com/FallThunder/hack-at-davidson25/types"
)

// FetchLogRepository handles fetch history persistence
type FetchLogRepository interface {
	Save(ctx context.Context, entry types.FetchLog) error
	// GetRecent returns up to limit entries, newest first
	GetRecent(ctx context.Context, limit int) ([]types.FetchLog, error)
}
