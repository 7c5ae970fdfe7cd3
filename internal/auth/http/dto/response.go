// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
)

// IssueTokenResponse contains the result of issuing a token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WhoamiResponse describes the principal resolved for the presented credential.
type WhoamiResponse struct {
	Identity       string     `json:"identity"`
	Capabilities   []string   `json:"capabilities"`
	CredentialKind string     `json:"credential_kind"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// MapPrincipalToWhoamiResponse converts a domain principal to an API response.
func MapPrincipalToWhoamiResponse(principal *authDomain.Principal) WhoamiResponse {
	capabilities := make([]string, 0, len(principal.Capabilities))
	for _, capability := range principal.Capabilities {
		capabilities = append(capabilities, string(capability))
	}
	return WhoamiResponse{
		Identity:       principal.Identity,
		Capabilities:   capabilities,
		CredentialKind: string(principal.Kind),
		ExpiresAt:      principal.ExpiresAt,
	}
}

// KeyResponse represents a registered static key in administrative listings.
// Key values are never included.
type KeyResponse struct {
	Identity     string   `json:"identity"`
	Capabilities []string `json:"capabilities"`
	Description  string   `json:"description,omitempty"`
}

// MapKeysToListResponse converts registered keys to a list API response.
func MapKeysToListResponse(keys []authDomain.StaticKey) []KeyResponse {
	out := make([]KeyResponse, 0, len(keys))
	for _, key := range keys {
		capabilities := make([]string, 0, len(key.Capabilities))
		for _, capability := range key.Capabilities {
			capabilities = append(capabilities, string(capability))
		}
		out = append(out, KeyResponse{
			Identity:     key.Identity,
			Capabilities: capabilities,
			Description:  key.Description,
		})
	}
	return out
}
