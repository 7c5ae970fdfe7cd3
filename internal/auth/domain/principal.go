package domain

import (
	"slices"
	"time"
)

// Principal represents the authenticated caller for a single request.
// It is created by the authenticator from the presented credential, never
// persisted, and immutable for the lifetime of the request.
type Principal struct {
	Identity     string         // Stable identity string of the caller
	Capabilities []Capability   // Granted capability set
	Kind         CredentialKind // How the caller authenticated
	ExpiresAt    *time.Time     // Token expiry instant (nil for static keys)
}

// HasCapability checks if the principal holds the given capability.
// Membership is exact-match: there is no hierarchy or inheritance between
// capabilities.
func (p *Principal) HasCapability(capability Capability) bool {
	if capability == "" {
		return false
	}
	return slices.Contains(p.Capabilities, capability)
}

// StaticKey is a registered static credential and its configured grants.
// Static keys are loaded once at process start and are read-only thereafter.
type StaticKey struct {
	Key          string       `json:"key"`          // The key value as presented by callers
	Identity     string       `json:"identity"`     // Identity resolved for this key
	Capabilities []Capability `json:"capabilities"` // Granted capability set
	Description  string       `json:"description"`  // Optional display description
}
