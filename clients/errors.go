/*
# Module: clients/errors.go
Typed failure of a directory fetch.

## Linked Modules
- [clients/directory](./directory.go) - Directory service client

## Tags
errors, client

## Exports
Stage, FetchError, IsFetchError

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/errors.go" ;
    code:description "Typed failure of a directory fetch" ;
    code:linksTo [
        code:name "clients/directory" ;
        code:path "./directory.go" ;
        code:relationship "Directory service client"
    ] ;
    code:exports :Stage, :FetchError, :IsFetchError ;
    code:tags "errors", "client" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"errors"
	"fmt"
)

// Stage identifies where a directory call failed. It is diagnostic only;
// every stage is the same failure kind to callers.
type Stage string

const (
	StageRequest Stage = "request"
	StageStatus  Stage = "status"
	StageDecode  Stage = "decode"
)

// FetchError is the single failure kind of the directory client: the
// network call, the HTTP status or the JSON payload was unusable.
type FetchError struct {
	Stage      Stage
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Stage == StageStatus {
		return fmt.Sprintf("directory fetch failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("directory fetch failed at %s: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is, or wraps, a FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
