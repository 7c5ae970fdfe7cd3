package usecase

import (
	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authService "github.com/queryware/sqlgate/internal/auth/service"
	apperrors "github.com/queryware/sqlgate/internal/errors"
)

// authenticator implements Authenticator over the credential store and token service.
type authenticator struct {
	credentialStore authService.CredentialStore
	tokenService    authService.TokenService
}

// NewAuthenticator creates an Authenticator with the given credential store
// and token service. Both dependencies are read-only after construction, so a
// single authenticator serves all requests concurrently.
func NewAuthenticator(
	credentialStore authService.CredentialStore,
	tokenService authService.TokenService,
) Authenticator {
	return &authenticator{
		credentialStore: credentialStore,
		tokenService:    tokenService,
	}
}

// Authenticate resolves the credential to a principal, trying static keys
// before token verification.
func (a *authenticator) Authenticate(credential string) (*authDomain.Principal, error) {
	if credential == "" {
		return nil, apperrors.ErrNoCredential
	}

	// Static keys match exactly and carry no expiry.
	if key, ok := a.credentialStore.Resolve(credential); ok {
		return &authDomain.Principal{
			Identity:     key.Identity,
			Capabilities: key.Capabilities,
			Kind:         authDomain.StaticKeyCredential,
			ExpiresAt:    nil,
		}, nil
	}

	// Otherwise the credential must verify as a signed token.
	principal, err := a.tokenService.Verify(credential)
	if err != nil {
		return nil, err
	}

	return principal, nil
}
