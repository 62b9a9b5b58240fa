package generate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema returns the JSON schema the model output must satisfy
// for the given content type.
func responseSchema(t ContentType) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"type": "object",
		"required": ["title", %q],
		"properties": {
			"title": {"type": "string", "minLength": 1},
			%q: {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["title", "content"],
					"properties": {
						"id": {"type": "integer"},
						"title": {"type": "string"},
						"content": {"type": "string"},
						"options": {"type": "array", "items": {"type": "string"}},
						"answer": {"type": "string"}
					}
				}
			}
		}
	}`, t.UnitKey(), t.UnitKey()))
}

// validateResponse validates parsed model output against the type's schema.
func validateResponse(t ContentType, parsed json.RawMessage) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(responseSchema(t))); err != nil {
		return fmt.Errorf("failed to load response schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile response schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(parsed, &doc); err != nil {
		return fmt.Errorf("failed to decode output for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("output does not match schema: %w", err)
	}
	return nil
}
