package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	authService "github.com/queryware/sqlgate/internal/auth/service"
	apperrors "github.com/queryware/sqlgate/internal/errors"
)

func newTestAuthenticator(t *testing.T) (Authenticator, authService.TokenService) {
	t.Helper()

	store, err := authService.NewCredentialStore(`[
		{"key":"demo-key-123","identity":"demo_user","capabilities":["read","query"]},
		{"key":"admin-key-456","identity":"admin_user","capabilities":["read","query","admin"]}
	]`)
	require.NoError(t, err)

	tokenService := authService.NewTokenService("test-signing-secret", time.Hour)

	return NewAuthenticator(store, tokenService), tokenService
}

func TestAuthenticatorStaticKey(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)

	principal, err := authenticator.Authenticate("demo-key-123")
	require.NoError(t, err)

	assert.Equal(t, "demo_user", principal.Identity)
	assert.Equal(t, authDomain.StaticKeyCredential, principal.Kind)
	assert.Nil(t, principal.ExpiresAt)
	assert.True(t, principal.HasCapability(authDomain.QueryCapability))
	assert.False(t, principal.HasCapability(authDomain.AdminCapability))
}

func TestAuthenticatorToken(t *testing.T) {
	authenticator, tokenService := newTestAuthenticator(t)

	token, _, err := tokenService.Issue("svc_reporting", []authDomain.Capability{
		authDomain.QueryCapability,
	})
	require.NoError(t, err)

	principal, err := authenticator.Authenticate(token)
	require.NoError(t, err)

	assert.Equal(t, "svc_reporting", principal.Identity)
	assert.Equal(t, authDomain.TokenCredential, principal.Kind)
	require.NotNil(t, principal.ExpiresAt)
	assert.True(t, principal.ExpiresAt.After(time.Now()))
}

func TestAuthenticatorFailures(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)

	t.Run("missing credential is a distinct condition", func(t *testing.T) {
		_, err := authenticator.Authenticate("")
		assert.ErrorIs(t, err, apperrors.ErrNoCredential)
		assert.False(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("unregistered static key", func(t *testing.T) {
		_, err := authenticator.Authenticate("not-a-registered-key")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := authService.NewTokenService("wrong-secret", time.Hour)
		token, _, err := other.Issue("demo_user", []authDomain.Capability{authDomain.QueryCapability})
		require.NoError(t, err)

		_, err = authenticator.Authenticate(token)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := authService.NewTokenService("test-signing-secret", -time.Minute)
		token, _, err := expired.Issue("demo_user", []authDomain.Capability{authDomain.QueryCapability})
		require.NoError(t, err)

		_, err = authenticator.Authenticate(token)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})
}

func TestAuthenticatorIsDeterministic(t *testing.T) {
	authenticator, _ := newTestAuthenticator(t)

	first, err := authenticator.Authenticate("demo-key-123")
	require.NoError(t, err)
	second, err := authenticator.Authenticate("demo-key-123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
