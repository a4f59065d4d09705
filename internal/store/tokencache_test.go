package store

import (
	"testing"

	"github.com/zalando/go-keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringTokenCache_SetThenGet(t *testing.T) {
	keyring.MockInit()
	cache := NewKeyringTokenCache()

	require.NoError(t, cache.Set("https://vault.example.com", "s.abc123"))

	token, err := cache.Get("https://vault.example.com")
	require.NoError(t, err)
	assert.Equal(t, "s.abc123", token)
}

func TestKeyringTokenCache_GetMissingReturnsNotCached(t *testing.T) {
	keyring.MockInit()
	cache := NewKeyringTokenCache()

	_, err := cache.Get("https://never-set.example.com")
	assert.ErrorIs(t, err, ErrTokenNotCached)
}

func TestKeyringTokenCache_DeleteIsIdempotent(t *testing.T) {
	keyring.MockInit()
	cache := NewKeyringTokenCache()

	require.NoError(t, cache.Delete("https://never-set.example.com"))

	require.NoError(t, cache.Set("https://vault.example.com", "s.abc123"))
	require.NoError(t, cache.Delete("https://vault.example.com"))

	_, err := cache.Get("https://vault.example.com")
	assert.ErrorIs(t, err, ErrTokenNotCached)
}
