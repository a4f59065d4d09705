package validator

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRSA_HappyPath(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &plan.Plan{Kind: plan.KindRSA, Path: "work/signing_key", Size: 2048}
	keys := map[string]string{
		"private": rsaPrivatePEM(key),
		"public":  rsaPublicPEM(t, &key.PublicKey),
	}

	report := newReport(p)
	checkRSA(report, p, keys)

	assert.Equal(t, dserrors.OutcomeOK, report.Outcome)
	assert.Equal(t, dserrors.OutcomeOK, outcomeOf(report, "modulus-agreement"))
	assert.Equal(t, dserrors.OutcomeOK, outcomeOf(report, "bit-size"))
}

func TestCheckRSA_ModulusMismatch(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &plan.Plan{Kind: plan.KindRSA, Path: "work/signing_key", Size: 2048}
	keys := map[string]string{
		"private": rsaPrivatePEM(key),
		"public":  rsaPublicPEM(t, &other.PublicKey),
	}

	report := newReport(p)
	checkRSA(report, p, keys)

	assert.Equal(t, dserrors.OutcomeError, outcomeOf(report, "modulus-agreement"))
}

func TestCheckRSA_WrongBitSize(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &plan.Plan{Kind: plan.KindRSA, Path: "work/signing_key", Size: 4096}
	keys := map[string]string{
		"private": rsaPrivatePEM(key),
		"public":  rsaPublicPEM(t, &key.PublicKey),
	}

	report := newReport(p)
	checkRSA(report, p, keys)

	assert.Equal(t, dserrors.OutcomeWarn, outcomeOf(report, "bit-size"))
}

func TestCheckRSA_MalformedPrivateKey(t *testing.T) {
	p := &plan.Plan{Kind: plan.KindRSA, Path: "work/signing_key"}
	keys := map[string]string{"private": "not a key"}

	report := newReport(p)
	checkRSA(report, p, keys)

	assert.Equal(t, dserrors.OutcomeError, report.Outcome)
}
