package domain

import (
	"github.com/queryware/sqlgate/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials indicates the presented credential did not resolve
	// to a registered static key or a valid signed token.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthenticated, "invalid credentials")

	// ErrTokenExpired indicates the presented token's expiry instant has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthenticated, "token expired")
)
