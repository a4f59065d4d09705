package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMetadataShape_Empty(t *testing.T) {
	require.NoError(t, ValidateMetadataShape([]byte("")))
}

func TestValidateMetadataShape_ValidShape(t *testing.T) {
	err := ValidateMetadataShape([]byte(`
certificates:
  base:
    my-cert:
      ca: { is_ca: true }
credentials:
  base:
    work/signing_key: "rsa 2048 fixed"
provided:
  base:
    app/creds:
      type: generic
      keys:
        api_key: { sensitive: true }
`))
	require.NoError(t, err)
}

func TestValidateMetadataShape_UnknownTopLevelKeyRejected(t *testing.T) {
	err := ValidateMetadataShape([]byte(`
totally_unknown_grouping:
  base: {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kit metadata does not match the expected shape")
}

func TestValidateMetadataShape_CertificatesMustBeMapOfMaps(t *testing.T) {
	err := ValidateMetadataShape([]byte(`
certificates:
  base: "not a map"
`))
	require.Error(t, err)
}

func TestValidateMetadataShape_MalformedYAMLErrors(t *testing.T) {
	err := ValidateMetadataShape([]byte("certificates: [this is not\n  valid: yaml: at all"))
	require.Error(t, err)
}
