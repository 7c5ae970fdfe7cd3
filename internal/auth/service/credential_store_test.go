package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
)

func TestNewCredentialStore(t *testing.T) {
	t.Run("loads valid configuration", func(t *testing.T) {
		raw := `[
			{"key":"demo-key-123","identity":"demo_user","capabilities":["read","query"],"description":"Demo API key"},
			{"key":"admin-key-456","identity":"admin_user","capabilities":["read","query","admin"]}
		]`

		store, err := NewCredentialStore(raw)
		require.NoError(t, err)

		key, ok := store.Resolve("demo-key-123")
		require.True(t, ok)
		assert.Equal(t, "demo_user", key.Identity)
		assert.Equal(
			t,
			[]authDomain.Capability{authDomain.ReadCapability, authDomain.QueryCapability},
			key.Capabilities,
		)
	})

	t.Run("empty configuration", func(t *testing.T) {
		store, err := NewCredentialStore("[]")
		require.NoError(t, err)

		_, ok := store.Resolve("anything")
		assert.False(t, ok)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := NewCredentialStore("{not json")
		assert.Error(t, err)
	})

	t.Run("rejects unknown capability at load time", func(t *testing.T) {
		raw := `[{"key":"k","identity":"u","capabilities":["superuser"]}]`
		_, err := NewCredentialStore(raw)
		assert.ErrorContains(t, err, `unknown capability "superuser"`)
	})

	t.Run("rejects blank key value", func(t *testing.T) {
		raw := `[{"key":"  ","identity":"u","capabilities":["read"]}]`
		_, err := NewCredentialStore(raw)
		assert.ErrorContains(t, err, "key value must not be blank")
	})

	t.Run("rejects blank identity", func(t *testing.T) {
		raw := `[{"key":"k","identity":"","capabilities":["read"]}]`
		_, err := NewCredentialStore(raw)
		assert.ErrorContains(t, err, "identity must not be blank")
	})

	t.Run("rejects duplicate key values", func(t *testing.T) {
		raw := `[
			{"key":"same","identity":"a","capabilities":["read"]},
			{"key":"same","identity":"b","capabilities":["query"]}
		]`
		_, err := NewCredentialStore(raw)
		assert.ErrorContains(t, err, "duplicate key value")
	})
}

func TestCredentialStoreResolve(t *testing.T) {
	store, err := NewCredentialStore(
		`[{"key":"demo-key-123","identity":"demo_user","capabilities":["read","query"]}]`,
	)
	require.NoError(t, err)

	t.Run("unregistered key does not resolve", func(t *testing.T) {
		_, ok := store.Resolve("unknown-key")
		assert.False(t, ok)
	})

	t.Run("empty credential does not resolve", func(t *testing.T) {
		_, ok := store.Resolve("")
		assert.False(t, ok)
	})

	t.Run("lookup is exact match", func(t *testing.T) {
		_, ok := store.Resolve("demo-key-12")
		assert.False(t, ok)
		_, ok = store.Resolve("demo-key-123 ")
		assert.False(t, ok)
	})
}

func TestCredentialStoreKeys(t *testing.T) {
	store, err := NewCredentialStore(
		`[{"key":"demo-key-123","identity":"demo_user","capabilities":["read"],"description":"Demo"}]`,
	)
	require.NoError(t, err)

	keys := store.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "demo_user", keys[0].Identity)
	assert.Equal(t, "Demo", keys[0].Description)

	// Key values never leave the store through listings.
	assert.Empty(t, keys[0].Key)
}
