/*
# Module: clients/google_auth.go
Google service account token source for a private Cloud Function.

## Linked Modules
- [clients/directory](./directory.go) - Bearer token consumer

## Tags
auth, google, oauth2

## Exports
NewGoogleTokenSource

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/google_auth.go" ;
    code:description "Google service account token source for a private Cloud Function" ;
    code:linksTo [
        code:name "clients/directory" ;
        code:path "./directory.go" ;
        code:relationship "Bearer token consumer"
    ] ;
    code:exports :NewGoogleTokenSource ;
    code:tags "auth", "google", "oauth2" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NewGoogleTokenSource builds a cached token source from service account JSON
// for calling a Cloud Function that does not allow unauthenticated access.
func NewGoogleTokenSource(ctx context.Context, credsJSON string) (oauth2.TokenSource, error) {
	if credsJSON == "" {
		return nil, fmt.Errorf("google credentials JSON is empty")
	}

	creds, err := google.CredentialsFromJSON(ctx, []byte(credsJSON), cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials: %w", err)
	}

	return oauth2.ReuseTokenSource(nil, creds.TokenSource), nil
}
