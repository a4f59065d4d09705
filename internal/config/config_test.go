package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mrferris/genesis/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinition_Load(t *testing.T) {
	configContent := `version: 0

kits:
  shield:
    path: ./kits/shield

environments:
  sandbox-shield:
    store:
      type: vault
      target: https://vault.sandbox.example.com
      timeout_ms: 5000
    kit: shield
    features:
      - encryption
  production-shield:
    store:
      type: vault
      target: https://vault.prod.example.com
    kit: shield
    root_ca_path: /production-shield/base/root-ca
`

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "genesis.yml")
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	logger := logging.New(false, false)
	cfg := &Config{
		Path:   configPath,
		Logger: logger,
	}

	err = cfg.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Definition)
	assert.Equal(t, 0, cfg.Definition.Version)
	assert.Len(t, cfg.Definition.Environments, 2)

	sandbox, err := cfg.GetEnvironment("sandbox-shield")
	require.NoError(t, err)
	assert.Equal(t, "vault", sandbox.Store.Type)
	assert.Equal(t, 5000, sandbox.Store.TimeoutMs)
	assert.True(t, sandbox.HasFeature("encryption"))
	assert.True(t, sandbox.HasFeature("base"))
	assert.False(t, sandbox.HasFeature("nonexistent"))

	prod, err := cfg.GetEnvironment("production-shield")
	require.NoError(t, err)
	assert.Equal(t, "/production-shield/base/root-ca", prod.RootCAPath)
	assert.Equal(t, DefaultTimeoutMs, prod.Store.TimeoutMsOrDefault())

	kit, err := cfg.GetKit("shield")
	require.NoError(t, err)
	assert.Equal(t, "./kits/shield", kit.Path)
}

func TestConfig_Load_FileNotFound(t *testing.T) {
	cfg := &Config{Path: "/nonexistent/genesis.yml"}

	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestConfig_Load_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "genesis.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("not: valid: yaml: [["), 0644))

	cfg := &Config{Path: configPath}
	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestConfig_Load_UnsupportedVersion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "genesis.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 7\nenvironments: {}\n"), 0644))

	cfg := &Config{Path: configPath}
	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported configuration version")
}

func TestConfig_GetEnvironment_NotFound(t *testing.T) {
	cfg := &Config{Definition: &Definition{
		Environments: map[string]Environment{
			"staging": {},
		},
	}}

	_, err := cfg.GetEnvironment("production")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staging")
}

func TestConfig_NotLoaded(t *testing.T) {
	cfg := &Config{}

	_, err := cfg.GetEnvironment("anything")
	require.Error(t, err)

	_, err = cfg.GetKit("anything")
	require.Error(t, err)
}
