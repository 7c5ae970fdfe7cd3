// Package service provides technical services for authentication operations.
//
// This package implements the credential store for registered static API keys
// and the signing service for issued tokens. Both are constructed once at
// startup from configuration and are read-only afterwards, so concurrent use
// without synchronization is safe.
package service

import (
	"time"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
)

// CredentialStore resolves presented static credentials against the set of
// registered keys loaded at process start.
type CredentialStore interface {
	// Resolve looks up a presented credential among the registered static keys.
	// Returns the matching key record and true on an exact match. Lookups use
	// SHA-256 digests so comparison time does not depend on key content.
	Resolve(credential string) (*authDomain.StaticKey, bool)

	// Keys returns the registered keys without their key values, for
	// administrative listings.
	Keys() []authDomain.StaticKey
}

// TokenService issues and verifies signed, time-bounded tokens asserting an
// identity and its capability set.
type TokenService interface {
	// Issue creates a signed token for the subject with the given capabilities.
	// Returns the serialized token and its expiry instant.
	Issue(subject string, capabilities []authDomain.Capability) (token string, expiresAt time.Time, err error)

	// Verify checks the token signature and expiry and decodes the subject and
	// capability set. Signature failure and expiry both yield an
	// unauthenticated error; the two are not distinguished to callers.
	Verify(token string) (*authDomain.Principal, error)
}
