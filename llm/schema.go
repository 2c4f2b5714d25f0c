package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects a JSON schema from v for providers that support
// schema-constrained responses. References are inlined and additional
// properties rejected so the result can be used as an OpenAI strict schema.
func GenerateSchema(v any) (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	// The $schema draft marker confuses some providers' strict validators.
	delete(out, "$schema")
	return out, nil
}
