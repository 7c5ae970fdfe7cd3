package app

import (
	"fmt"

	authHTTP "github.com/queryware/sqlgate/internal/auth/http"
	authService "github.com/queryware/sqlgate/internal/auth/service"
	authUseCase "github.com/queryware/sqlgate/internal/auth/usecase"
	"github.com/queryware/sqlgate/internal/ratelimit"
)

// CredentialStore returns the static key credential store.
func (c *Container) CredentialStore() (authService.CredentialStore, error) {
	var err error
	c.credentialStoreInit.Do(func() {
		c.credentialStore, err = authService.NewCredentialStore(c.config.StaticKeys)
		if err != nil {
			c.initErrors["credentialStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialStore"]; exists {
		return nil, storedErr
	}
	return c.credentialStore, nil
}

// TokenService returns the token issuing and verification service.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		if c.config.SigningSecret == "" {
			err = fmt.Errorf("SIGNING_SECRET must be configured")
			c.initErrors["tokenService"] = err
			return
		}
		c.tokenService = authService.NewTokenService(
			c.config.SigningSecret,
			c.config.TokenExpiration,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// Authenticator returns the credential authenticator.
func (c *Container) Authenticator() (authUseCase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// Governor returns the per-identity rate governor. The governor is always
// constructed so admin inspection works even when enforcement is disabled.
func (c *Container) Governor() *ratelimit.Governor {
	c.governorInit.Do(func() {
		c.governor = ratelimit.NewGovernor(
			c.config.RateLimitRequests,
			c.config.RateLimitWindow,
		)
	})
	return c.governor
}

// TokenRateLimiter returns the per-IP limiter guarding the token endpoint.
func (c *Container) TokenRateLimiter() *authHTTP.TokenRateLimiter {
	c.tokenRateLimiterInit.Do(func() {
		c.tokenRateLimiter = authHTTP.NewTokenRateLimiter(
			c.config.RateLimitTokenRequestsPerSec,
			c.config.RateLimitTokenBurst,
		)
	})
	return c.tokenRateLimiter
}

// TokenHandler returns the token issuance HTTP handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for token handler: %w", err)
	}
	return authHTTP.NewTokenHandler(tokenService, c.Logger()), nil
}

// AdminHandler returns the admin HTTP handler.
func (c *Container) AdminHandler() (*authHTTP.AdminHandler, error) {
	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for admin handler: %w", err)
	}
	return authHTTP.NewAdminHandler(c.Governor(), store, c.Logger()), nil
}

// initAuthenticator creates the authenticator with its dependencies.
func (c *Container) initAuthenticator() (authUseCase.Authenticator, error) {
	store, err := c.CredentialStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential store for authenticator: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for authenticator: %w", err)
	}

	return authUseCase.NewAuthenticator(store, tokenService), nil
}
