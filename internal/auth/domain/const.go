// Package domain defines authentication and authorization domain models.
// Implements capability-based access control with principals resolved from
// static API keys or signed tokens.
package domain

import "fmt"

// Capability defines the types of operations that can be performed on the gateway.
// Capabilities form a closed set; membership checks are exact-match with no
// hierarchy between them (holding "query" does not imply "admin").
type Capability string

const (
	// ReadCapability allows reading dataset metadata (table names, schemas).
	ReadCapability Capability = "read"

	// QueryCapability allows submitting SQL queries and using query templates.
	QueryCapability Capability = "query"

	// AdminCapability allows administrative operations (rate-limit inspection,
	// gateway statistics).
	AdminCapability Capability = "admin"
)

// ParseCapability converts a capability name into a Capability, rejecting
// unrecognized names. Configuration loading uses this so that typos in key or
// token capability sets fail at startup instead of at request time.
func ParseCapability(name string) (Capability, error) {
	switch Capability(name) {
	case ReadCapability, QueryCapability, AdminCapability:
		return Capability(name), nil
	default:
		return "", fmt.Errorf("unknown capability %q", name)
	}
}

// ParseCapabilities converts a list of capability names, failing on the first
// unrecognized name.
func ParseCapabilities(names []string) ([]Capability, error) {
	capabilities := make([]Capability, 0, len(names))
	for _, name := range names {
		capability, err := ParseCapability(name)
		if err != nil {
			return nil, err
		}
		capabilities = append(capabilities, capability)
	}
	return capabilities, nil
}

// CredentialKind identifies how a principal authenticated.
type CredentialKind string

const (
	// StaticKeyCredential indicates authentication via a registered static API key.
	StaticKeyCredential CredentialKind = "static-key"

	// TokenCredential indicates authentication via a signed, time-bounded token.
	TokenCredential CredentialKind = "token"
)
