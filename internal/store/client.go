// Package store wraps the external secret CLI (`safe`, driving
// Vault) behind a typed Client interface. Every invocation pins the
// target explicitly via environment variables rather than inheriting
// the caller's ambient SAFE_TARGET/VAULT_ADDR, and none of it composes
// shell strings: every call is an argv slice through cmdexec.
package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mrferris/genesis/internal/cmdexec"
	"github.com/mrferris/genesis/internal/errors"
)

// Client is the typed wrapper around the external secret CLI,
// exposing the operations spec.md §4.A names.
type Client interface {
	// Get returns the map of keys under path. If key is non-empty,
	// only that key's value is returned under the same key name.
	// Absence is empty, not an error.
	Get(ctx context.Context, path string, key string) (map[string]string, error)

	// Set writes a single key at path. value is never echoed into an
	// argv element that would need shell interpretation.
	Set(ctx context.Context, path, key, value string) error

	// Has is a boolean-only wrapper around existence of path (and key,
	// if non-empty).
	Has(ctx context.Context, path, key string) (bool, error)

	// Export reads every path under one of prefixes into a
	// SecretSnapshot in a single store round-trip per prefix.
	Export(ctx context.Context, prefixes ...string) (Snapshot, error)

	// Run invokes a secret-generation verb (gen, rsa, ssh, dhparam,
	// x509, uuid) and returns its captured output.
	Run(ctx context.Context, argv ...string) (RunResult, error)

	// Delete removes path (or, if key is non-empty, just that key).
	// A missing path/key is not an error: remove is idempotent.
	Delete(ctx context.Context, path, key string) error

	// Status probes reachability and then the store's own status verb,
	// returning one of the typed StoreErrorKind tokens (or nil if ok).
	Status(ctx context.Context) error
}

// Snapshot is a store-local alias of the plan package's
// SecretSnapshot shape, avoiding a dependency from store -> plan.
type Snapshot map[string]map[string]string

// RunResult captures stdout, stderr, and the exit code of an
// outbound tool invocation, per spec.md §4.A's typed run() contract.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Target names the store this client drives: the env var it pins
// (SAFE_TARGET or VAULT_ADDR) and the URL/name it pins it to.
type Target struct {
	EnvVar string
	Value  string
}

// SafeClient drives the `safe` CLI. It never inherits the caller's
// ambient SAFE_TARGET/VAULT_ADDR: every invocation's environment is
// built fresh from Target plus whatever auth vars are present,
// mirroring spec.md §4.A's "forces the environment variable... never
// inherits caller's ambient target" contract.
type SafeClient struct {
	executor   cmdexec.CommandExecutor
	target     Target
	authVars   []string // names of auth env vars to forward, in priority order
	tokenCache TokenCache
}

// authVarPriority is the order spec.md §6 specifies for trying
// store-side auth: role/secret-id pair, token, username/password,
// GitHub token.
var authVarPriority = [][]string{
	{"VAULT_ROLE_ID", "VAULT_SECRET_ID"},
	{"VAULT_AUTH_TOKEN"},
	{"VAULT_USERNAME", "VAULT_PASSWORD"},
	{"VAULT_GITHUB_TOKEN"},
}

// NewSafeClient constructs a client pinned to target, using executor
// for every outbound invocation (pass a fake in tests).
func NewSafeClient(executor cmdexec.CommandExecutor, target Target) *SafeClient {
	return &SafeClient{executor: executor, target: target}
}

// NewSafeClientWithTokenCache is NewSafeClient plus a local keychain
// fallback for VAULT_AUTH_TOKEN: if no auth env var is present, an
// operator who previously authenticated interactively against this
// target is not re-prompted (desktop/dev convenience; never required).
func NewSafeClientWithTokenCache(executor cmdexec.CommandExecutor, target Target, cache TokenCache) *SafeClient {
	return &SafeClient{executor: executor, target: target, tokenCache: cache}
}

func (c *SafeClient) buildEnv() []string {
	env := []string{
		c.target.EnvVar + "=" + c.target.Value,
		"PATH=" + os.Getenv("PATH"),
	}

	for _, group := range authVarPriority {
		allPresent := true
		for _, name := range group {
			if os.Getenv(name) == "" {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}
		for _, name := range group {
			env = append(env, name+"="+os.Getenv(name))
		}
		if len(group) == 1 && group[0] == "VAULT_AUTH_TOKEN" && c.tokenCache != nil {
			_ = c.tokenCache.Set(c.target.Value, os.Getenv("VAULT_AUTH_TOKEN"))
		}
		return env
	}

	if c.tokenCache != nil {
		if token, err := c.tokenCache.Get(c.target.Value); err == nil && token != "" {
			env = append(env, "VAULT_AUTH_TOKEN="+token)
		}
	}

	return env
}

func (c *SafeClient) run(ctx context.Context, argv ...string) (RunResult, error) {
	stdout, stderr, err := c.executor.Execute(ctx, c.buildEnv(), argv...)
	result := RunResult{
		Stdout:   string(stdout),
		Stderr:   string(stderr),
		ExitCode: cmdexec.ExitCode(err),
	}

	if err != nil {
		return result, classifyFailure(argv[0], result.Stderr, err)
	}

	return result, nil
}

// classifyFailure maps a safe CLI failure to the typed StoreErrorKind
// tokens spec.md §4.A and §7 require.
func classifyFailure(op, stderr string, err error) error {
	text := strings.ToLower(stderr)

	kind := errors.StoreProtocolError
	switch {
	case strings.Contains(text, "connection refused"), strings.Contains(text, "no route to host"), strings.Contains(text, "no such host"):
		kind = errors.StoreUnreachable
	case strings.Contains(text, "sealed"):
		kind = errors.StoreSealed
	case strings.Contains(text, "permission denied"), strings.Contains(text, "403"), strings.Contains(text, "not authenticated"), strings.Contains(text, "unauthorized"):
		kind = errors.StoreUnauthenticated
	case strings.Contains(text, "not initialized"), strings.Contains(text, "uninitialized"):
		kind = errors.StoreUninitialized
	case strings.Contains(text, "not found"), strings.Contains(text, "404"):
		kind = errors.StoreNotFound
	}

	return errors.StoreError{Kind: kind, Op: op, Err: fmt.Errorf("%w (stderr: %s)", err, strings.TrimSpace(stderr))}
}

// Get implements Client.Get using `safe get`.
func (c *SafeClient) Get(ctx context.Context, path, key string) (map[string]string, error) {
	target := path
	if key != "" {
		target = path + ":" + key
	}

	result, err := c.run(ctx, "safe", "get", target)
	if err != nil {
		var storeErr errors.StoreError
		if asStoreError(err, &storeErr) && storeErr.Kind == errors.StoreNotFound {
			return map[string]string{}, nil
		}
		return nil, err
	}

	return parseGetOutput(result.Stdout, key), nil
}

func parseGetOutput(stdout, onlyKey string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if onlyKey != "" && k != onlyKey {
			continue
		}
		values[k] = v
	}
	return values
}

// Set implements Client.Set using `safe set`.
func (c *SafeClient) Set(ctx context.Context, path, key, value string) error {
	_, err := c.run(ctx, "safe", "set", path, key+"="+value)
	return err
}

// Has implements Client.Has using `safe exists`.
func (c *SafeClient) Has(ctx context.Context, path, key string) (bool, error) {
	target := path
	if key != "" {
		target = path + ":" + key
	}

	_, err := c.run(ctx, "safe", "exists", target)
	if err == nil {
		return true, nil
	}

	var storeErr errors.StoreError
	if asStoreError(err, &storeErr) && storeErr.Kind == errors.StoreNotFound {
		return false, nil
	}
	return false, err
}

// Export implements Client.Export using `safe export` per prefix.
func (c *SafeClient) Export(ctx context.Context, prefixes ...string) (Snapshot, error) {
	snapshot := make(Snapshot)

	for _, prefix := range prefixes {
		argv := append([]string{"safe", "export"}, prefix)
		result, err := c.run(ctx, argv...)
		if err != nil {
			return nil, err
		}

		exported, err := parseExportOutput(result.Stdout)
		if err != nil {
			return nil, errors.StoreError{Kind: errors.StoreProtocolError, Op: "export", Err: err}
		}
		for path, keys := range exported {
			snapshot[path] = keys
		}
	}

	return snapshot, nil
}

// Run implements Client.Run: a raw argv invocation for the
// secret-generation verbs (gen/rsa/ssh/dhparam/x509/uuid), returning
// its captured output for the caller to interpret.
func (c *SafeClient) Run(ctx context.Context, argv ...string) (RunResult, error) {
	return c.run(ctx, argv...)
}

// Status implements Client.Status: probe with a lightweight `safe
// target` call, classifying the result.
func (c *SafeClient) Status(ctx context.Context) error {
	_, err := c.run(ctx, "safe", "target")
	return err
}

// Delete implements Client.Delete using `safe delete`. A not-found
// result is swallowed rather than returned, since remove tolerates a
// path that is already gone.
func (c *SafeClient) Delete(ctx context.Context, path, key string) error {
	target := path
	if key != "" {
		target = path + ":" + key
	}

	_, err := c.run(ctx, "safe", "delete", target)
	if err == nil {
		return nil
	}

	var storeErr errors.StoreError
	if asStoreError(err, &storeErr) && storeErr.Kind == errors.StoreNotFound {
		return nil
	}
	return err
}

func asStoreError(err error, out *errors.StoreError) bool {
	for err != nil {
		if se, ok := err.(errors.StoreError); ok {
			*out = se
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
