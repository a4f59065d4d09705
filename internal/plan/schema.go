package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/kit.schema.json
var kitMetadataSchema []byte

var kitSchemaLoader = gojsonschema.NewBytesLoader(kitMetadataSchema)

// ValidateMetadataShape checks merged kit YAML against the grammar's
// top-level shape (spec.md §6) before DecodeMetadata's strict decode,
// so a misshapen kit.yml is reported as one schema error list instead
// of a cryptic yaml.Unmarshal type error.
func ValidateMetadataShape(data []byte) error {
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decoding kit metadata as YAML: %w", err)
	}
	if generic == nil {
		return nil
	}

	jsonData, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("converting kit metadata to JSON for schema validation: %w", err)
	}

	result, err := gojsonschema.Validate(kitSchemaLoader, gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return fmt.Errorf("kit metadata schema validation error: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("kit metadata does not match the expected shape:\n  - %s", strings.Join(messages, "\n  - "))
	}

	return nil
}
