package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	apperrors "github.com/queryware/sqlgate/internal/errors"
)

func TestTokenServiceIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-signing-secret", time.Hour)

	capabilities := []authDomain.Capability{
		authDomain.ReadCapability,
		authDomain.QueryCapability,
	}

	token, expiresAt, err := svc.Issue("demo_user", capabilities)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, time.Minute)

	principal, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "demo_user", principal.Identity)
	assert.Equal(t, capabilities, principal.Capabilities)
	assert.Equal(t, authDomain.TokenCredential, principal.Kind)
	require.NotNil(t, principal.ExpiresAt)
	assert.WithinDuration(t, expiresAt, *principal.ExpiresAt, time.Second)
}

func TestTokenServiceVerifyFailures(t *testing.T) {
	svc := NewTokenService("test-signing-secret", time.Hour)

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := NewTokenService("another-secret", time.Hour)
		token, _, err := other.Issue("demo_user", []authDomain.Capability{authDomain.QueryCapability})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService("test-signing-secret", -time.Minute)
		token, _, err := expired.Issue("demo_user", []authDomain.Capability{authDomain.QueryCapability})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.Verify("")
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
	})
}

func TestTokenServiceRejectsUnknownCapabilities(t *testing.T) {
	// A token carrying capability names outside the closed set must not
	// authenticate, even with a valid signature.
	svc := NewTokenService("test-signing-secret", time.Hour).(*tokenService)

	token, _, err := svc.Issue("demo_user", []authDomain.Capability{"superuser"})
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthenticated))
}
