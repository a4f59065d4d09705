package store

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// ErrTokenNotCached is returned by TokenCache.Get when no token has
// been cached for a target.
var ErrTokenNotCached = errors.New("store: no cached auth token for this target")

// keyringService namespaces every entry this package writes to the OS
// keychain, so Genesis never collides with another application's use
// of the same backend.
const keyringService = "genesis-store-auth"

// TokenCache persists a store auth token (e.g. a `safe`/Vault session
// token) in the local OS keychain, so an interactive operator isn't
// re-prompted for every invocation against the same target. This is a
// desktop/dev convenience, never a requirement: every Client still
// works against a token supplied directly via its own auth flow.
type TokenCache interface {
	Get(target string) (string, error)
	Set(target, token string) error
	Delete(target string) error
}

// KeyringTokenCache is the real TokenCache, backed by whichever OS
// keychain go-keyring resolves for the current platform (macOS
// Keychain, Secret Service on Linux, Windows Credential Manager).
type KeyringTokenCache struct{}

// NewKeyringTokenCache constructs a KeyringTokenCache.
func NewKeyringTokenCache() *KeyringTokenCache {
	return &KeyringTokenCache{}
}

// Get returns the cached token for target, or ErrTokenNotCached if
// none has been stored.
func (c *KeyringTokenCache) Get(target string) (string, error) {
	token, err := keyring.Get(keyringService, target)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotCached
		}
		return "", err
	}
	return token, nil
}

// Set caches token for target, overwriting any previous entry.
func (c *KeyringTokenCache) Set(target, token string) error {
	return keyring.Set(keyringService, target, token)
}

// Delete removes any cached token for target. A missing entry is not
// an error.
func (c *KeyringTokenCache) Delete(target string) error {
	err := keyring.Delete(keyringService, target)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

var _ TokenCache = (*KeyringTokenCache)(nil)
