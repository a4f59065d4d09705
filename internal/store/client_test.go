package store

import (
	"context"
	"testing"

	"github.com/mrferris/genesis/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	stdout   string
	stderr   string
	err      error
	lastEnv  []string
	lastArgv []string
}

func (f *fakeExecutor) Execute(ctx context.Context, env []string, argv ...string) ([]byte, []byte, error) {
	f.lastEnv = env
	f.lastArgv = argv
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestSafeClient_PinsTargetEnvVar(t *testing.T) {
	fake := &fakeExecutor{stdout: "target:\n  name: test\n"}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	require.NoError(t, client.Status(context.Background()))

	assert.Contains(t, fake.lastEnv, "SAFE_TARGET=https://vault.example.com")
}

func TestSafeClient_NeverInheritsAmbientTarget(t *testing.T) {
	t.Setenv("SAFE_TARGET", "https://should-not-be-inherited.example.com")

	fake := &fakeExecutor{}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://pinned.example.com"})

	require.NoError(t, client.Set(context.Background(), "secret/path", "key", "value"))

	count := 0
	for _, e := range fake.lastEnv {
		if e == "SAFE_TARGET=https://pinned.example.com" {
			count++
		}
	}
	assert.Equal(t, 1, count, "pinned target should appear exactly once, never the ambient one")
}

func TestSafeClient_Get_EmptyOnNotFound(t *testing.T) {
	fake := &fakeExecutor{stderr: "404 not found", err: assert.AnError}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	values, err := client.Get(context.Background(), "missing/path", "")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSafeClient_Get_ParsesKeyValues(t *testing.T) {
	fake := &fakeExecutor{stdout: "private: abc\npublic: def\n"}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	values, err := client.Get(context.Background(), "work/signing_key", "")
	require.NoError(t, err)
	assert.Equal(t, "abc", values["private"])
	assert.Equal(t, "def", values["public"])
}

func TestSafeClient_Has_True(t *testing.T) {
	fake := &fakeExecutor{}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	ok, err := client.Has(context.Background(), "work/signing_key", "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSafeClient_Has_FalseOnNotFound(t *testing.T) {
	fake := &fakeExecutor{stderr: "not found", err: assert.AnError}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	ok, err := client.Has(context.Background(), "missing/path", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSafeClient_ClassifiesSealed(t *testing.T) {
	fake := &fakeExecutor{stderr: "vault is sealed", err: assert.AnError}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	_, err := client.Get(context.Background(), "any/path", "key-forces-no-notfound-shortcut")
	require.Error(t, err)

	var storeErr errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, errors.StoreSealed, storeErr.Kind)
}

func TestSafeClient_ClassifiesUnreachable(t *testing.T) {
	fake := &fakeExecutor{stderr: "dial tcp: connection refused", err: assert.AnError}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	err := client.Set(context.Background(), "any/path", "key", "value")
	require.Error(t, err)

	var storeErr errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, errors.StoreUnreachable, storeErr.Kind)
}

func TestSafeClient_Export_ParsesJSONTree(t *testing.T) {
	fake := &fakeExecutor{stdout: `{"work/signing_key": {"private": "abc", "public": "def"}}`}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	snapshot, err := client.Export(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, "abc", snapshot["work/signing_key"]["private"])
}

func TestSafeClient_AuthVarsForwardedInPriorityOrder(t *testing.T) {
	t.Setenv("VAULT_ROLE_ID", "role")
	t.Setenv("VAULT_SECRET_ID", "secret")
	t.Setenv("VAULT_AUTH_TOKEN", "token")

	fake := &fakeExecutor{}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	require.NoError(t, client.Status(context.Background()))

	assert.Contains(t, fake.lastEnv, "VAULT_ROLE_ID=role")
	assert.Contains(t, fake.lastEnv, "VAULT_SECRET_ID=secret")
	assert.NotContains(t, fake.lastEnv, "VAULT_AUTH_TOKEN=token")
}

func TestSafeClient_Delete_TolerantOfMissing(t *testing.T) {
	fake := &fakeExecutor{stderr: "not found", err: assert.AnError}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	err := client.Delete(context.Background(), "gone/path", "")
	require.NoError(t, err)
}

func TestSafeClient_Delete_PropagatesOtherFailures(t *testing.T) {
	fake := &fakeExecutor{stderr: "vault is sealed", err: assert.AnError}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	err := client.Delete(context.Background(), "work/signing_key", "private")
	require.Error(t, err)

	var storeErr errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, errors.StoreSealed, storeErr.Kind)
}

type fakeTokenCache struct {
	tokens map[string]string
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{tokens: make(map[string]string)}
}

func (f *fakeTokenCache) Get(target string) (string, error) {
	token, ok := f.tokens[target]
	if !ok {
		return "", ErrTokenNotCached
	}
	return token, nil
}

func (f *fakeTokenCache) Set(target, token string) error {
	f.tokens[target] = token
	return nil
}

func (f *fakeTokenCache) Delete(target string) error {
	delete(f.tokens, target)
	return nil
}

func TestSafeClient_TokenCache_FallsBackWhenNoAuthEnvPresent(t *testing.T) {
	cache := newFakeTokenCache()
	require.NoError(t, cache.Set("https://vault.example.com", "cached-token"))

	fake := &fakeExecutor{}
	client := NewSafeClientWithTokenCache(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"}, cache)

	require.NoError(t, client.Status(context.Background()))
	assert.Contains(t, fake.lastEnv, "VAULT_AUTH_TOKEN=cached-token")
}

func TestSafeClient_TokenCache_PrefersAmbientAuthOverCache(t *testing.T) {
	t.Setenv("VAULT_AUTH_TOKEN", "ambient-token")

	cache := newFakeTokenCache()
	require.NoError(t, cache.Set("https://vault.example.com", "cached-token"))

	fake := &fakeExecutor{}
	client := NewSafeClientWithTokenCache(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"}, cache)

	require.NoError(t, client.Status(context.Background()))
	assert.Contains(t, fake.lastEnv, "VAULT_AUTH_TOKEN=ambient-token")

	cached, err := cache.Get("https://vault.example.com")
	require.NoError(t, err)
	assert.Equal(t, "ambient-token", cached)
}

func TestSafeClient_TokenCache_NoFallbackWithoutCacheConfigured(t *testing.T) {
	fake := &fakeExecutor{}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	require.NoError(t, client.Status(context.Background()))
	for _, e := range fake.lastEnv {
		assert.NotContains(t, e, "VAULT_AUTH_TOKEN=")
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	fake := &fakeExecutor{}
	client := NewSafeClient(fake, Target{EnvVar: "SAFE_TARGET", Value: "https://vault.example.com"})

	registry.Register("production", client)

	got, err := registry.Get("production")
	require.NoError(t, err)
	assert.Equal(t, client, got)
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Get("missing")
	require.Error(t, err)
}
