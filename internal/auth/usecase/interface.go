// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
)

// Authenticator resolves a presented credential to an authenticated principal.
type Authenticator interface {
	// Authenticate resolves the raw credential string from the Authorization
	// header to a principal.
	//
	// Resolution order:
	//  1. Exact match against a registered static key (no expiry check).
	//  2. Signature verification as a signed token, including expiry.
	//
	// An empty credential yields ErrNoCredential; any other failure yields an
	// unauthenticated error. Resolution is pure computation with no I/O and is
	// never retried.
	Authenticate(credential string) (*authDomain.Principal, error)
}
