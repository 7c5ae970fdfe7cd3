// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCredential indicates the request presented no credential at all.
	ErrNoCredential = errors.New("no credential")

	// ErrUnauthenticated indicates the presented credential is invalid or expired.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the authenticated principal lacks the required capability.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates the caller exhausted its request quota for the
	// current window.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsafeQuery indicates the query validator rejected the submitted SQL.
	ErrUnsafeQuery = errors.New("unsafe query")

	// ErrExecutionFailed indicates the downstream storage engine failed to
	// execute an accepted query. Details are logged, never surfaced.
	ErrExecutionFailed = errors.New("execution failed")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
