/*
# Module: types/fetch_log.go
Fetch attempt records kept as operator-facing history.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, history

## Exports
FetchLog, FetchStatus

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/fetch_log.go" ;
    code:description "Fetch attempt records kept as operator-facing history" ;
    code:exports :FetchLog, :FetchStatus ;
    code:tags "data-types", "history" .
<!-- End LinkedDoc RDF -->
*/
package types

import "time"

// FetchStatus is the terminal state of one fetch-and-render attempt
type FetchStatus string

const (
	FetchRendered   FetchStatus = "rendered"
	FetchFailed     FetchStatus = "failed"
	FetchSuperseded FetchStatus = "superseded"
)

// FetchLog records one attempt. Business records themselves are not stored.
type FetchLog struct {
	ID          string      `json:"id" dynamodbav:"id"`
	Status      FetchStatus `json:"status" dynamodbav:"status"`
	Query       string      `json:"query,omitempty" dynamodbav:"query,omitempty"`
	Count       int         `json:"count" dynamodbav:"count"`
	Error       string      `json:"error,omitempty" dynamodbav:"error,omitempty"`
	SnapshotURL string      `json:"snapshot_url,omitempty" dynamodbav:"snapshot_url,omitempty"`
	Duration    string      `json:"duration" dynamodbav:"duration"`
	Timestamp   time.Time   `json:"timestamp" dynamodbav:"timestamp"`
}
