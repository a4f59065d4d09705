package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateArgs_X509Issue(t *testing.T) {
	p := &Plan{
		Kind:     KindX509,
		Path:     "app/certs/server",
		Names:    []string{"a.example", "b.example"},
		ValidFor: "1y",
		Usage:    []string{"server_auth", "client_auth"},
	}

	argv, err := KindOf(p.Kind).GenerateArgs(p, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"safe", "x509", "issue",
		"--name", "a.example,b.example",
		"--ttl", "1y",
		"--key-usage", "server_auth,client_auth",
		"--no-clobber",
		"app/certs/server",
	}, argv)
}

func TestGenerateArgs_X509SkipsSignedByWhenSelfSigned(t *testing.T) {
	p := &Plan{Kind: KindX509, Path: "app/certs/leaf", SignedBy: "app/certs/ca", SelfSigned: SelfSignedExplicit}

	argv, err := KindOf(p.Kind).GenerateArgs(p, false)
	require.NoError(t, err)
	assert.NotContains(t, argv, "--signed-by")
}

func TestGenerateArgs_RSA(t *testing.T) {
	p := &Plan{Kind: KindRSA, Path: "app/key", Size: 4096}

	argv, err := KindOf(p.Kind).GenerateArgs(p, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"safe", "rsa", "--bits", "4096", "--no-clobber", "app/key"}, argv)
}

func TestGenerateArgs_RandomSplitsPathAndKey(t *testing.T) {
	p := &Plan{Kind: KindRandom, Path: "app/secrets:token", Size: 32, RandomFormat: "base64"}

	argv, err := KindOf(p.Kind).GenerateArgs(p, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"safe", "gen", "32", "app/secrets", "token", "--fmt", "base64"}, argv)
}

func TestGenerateArgs_UUID(t *testing.T) {
	p := &Plan{Kind: KindUUID, Path: "app/ids:build", UUIDVersion: UUIDV4}

	argv, err := KindOf(p.Kind).GenerateArgs(p, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"safe", "uuid", "set", "--version", "v4", "--no-clobber", "app/ids", "build"}, argv)
}

func TestGenerateArgs_ProvidedHasNoGenerationVerb(t *testing.T) {
	p := &Plan{Kind: KindProvided, Path: "app/secrets:api_key"}

	_, err := KindOf(p.Kind).GenerateArgs(p, true)
	assert.Error(t, err)
}

func TestGenerateArgs_ErrorKindHasNoGenerationVerb(t *testing.T) {
	p := &Plan{Kind: KindError, Path: "app/broken"}

	_, err := KindOf(p.Kind).GenerateArgs(p, true)
	assert.Error(t, err)
}
