package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// FromMap converts a parameter schema in its stored map form into a
// Schema struct suitable for advertising a tool over MCP. A nil or empty
// map yields a permissive object schema.
func FromMap(m map[string]any) (*jsonschema.Schema, error) {
	if len(m) == 0 {
		return &jsonschema.Schema{Type: "object"}, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameter schema: %w", err)
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid parameter schema: %w", err)
	}
	return Transform(&s), nil
}

// Transform converts JSON Schema draft-07 to draft-2020-12 for
// compatibility, recursing into nested property and item schemas.
func Transform(schema *jsonschema.Schema) *jsonschema.Schema {
	if schema == nil {
		return nil
	}

	// Copy so the caller's schema is left untouched
	transformed := *schema

	if schema.Schema == "http://json-schema.org/draft-07/schema#" ||
		schema.Schema == "http://json-schema.org/draft-07/schema" {
		transformed.Schema = "https://json-schema.org/draft/2020-12/schema"
	}

	if schema.Properties != nil {
		transformed.Properties = make(map[string]*jsonschema.Schema)
		for k, v := range schema.Properties {
			transformed.Properties[k] = Transform(v)
		}
	}

	if schema.Items != nil {
		transformed.Items = Transform(schema.Items)
	}

	if schema.AdditionalProperties != nil {
		transformed.AdditionalProperties = Transform(schema.AdditionalProperties)
	}

	return &transformed
}
