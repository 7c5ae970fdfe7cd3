package service

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	authDomain "github.com/queryware/sqlgate/internal/auth/domain"
	apperrors "github.com/queryware/sqlgate/internal/errors"
)

// credentialStore implements CredentialStore over a digest-indexed key map.
type credentialStore struct {
	byDigest map[[sha256.Size]byte]*authDomain.StaticKey
	keys     []authDomain.StaticKey
}

// staticKeyConfig mirrors the JSON shape of the STATIC_KEYS environment variable.
type staticKeyConfig struct {
	Key          string   `json:"key"`
	Identity     string   `json:"identity"`
	Capabilities []string `json:"capabilities"`
	Description  string   `json:"description"`
}

// NewCredentialStore parses the static key configuration and builds the
// read-only credential store. Unknown capability names, blank keys or
// identities, and duplicate key values all fail here, at load time.
func NewCredentialStore(rawJSON string) (CredentialStore, error) {
	var configs []staticKeyConfig
	if err := json.Unmarshal([]byte(rawJSON), &configs); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse static keys configuration")
	}

	store := &credentialStore{
		byDigest: make(map[[sha256.Size]byte]*authDomain.StaticKey, len(configs)),
		keys:     make([]authDomain.StaticKey, 0, len(configs)),
	}

	for i, cfg := range configs {
		if strings.TrimSpace(cfg.Key) == "" {
			return nil, fmt.Errorf("static key %d: key value must not be blank", i)
		}
		if strings.TrimSpace(cfg.Identity) == "" {
			return nil, fmt.Errorf("static key %d: identity must not be blank", i)
		}

		capabilities, err := authDomain.ParseCapabilities(cfg.Capabilities)
		if err != nil {
			return nil, fmt.Errorf("static key %q: %w", cfg.Identity, err)
		}

		digest := sha256.Sum256([]byte(cfg.Key))
		if _, exists := store.byDigest[digest]; exists {
			return nil, fmt.Errorf("static key %d: duplicate key value", i)
		}

		key := authDomain.StaticKey{
			Key:          cfg.Key,
			Identity:     cfg.Identity,
			Capabilities: capabilities,
			Description:  cfg.Description,
		}
		store.byDigest[digest] = &key
		store.keys = append(store.keys, key)
	}

	return store, nil
}

// Resolve looks up a presented credential by its SHA-256 digest.
func (s *credentialStore) Resolve(credential string) (*authDomain.StaticKey, bool) {
	if credential == "" {
		return nil, false
	}
	digest := sha256.Sum256([]byte(credential))
	key, ok := s.byDigest[digest]
	return key, ok
}

// Keys returns the registered key records with the key values blanked out.
func (s *credentialStore) Keys() []authDomain.StaticKey {
	keys := make([]authDomain.StaticKey, len(s.keys))
	for i, key := range s.keys {
		key.Key = ""
		keys[i] = key
	}
	return keys
}
