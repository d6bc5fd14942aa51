package validation

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// ValidationError reports an argument set that does not satisfy a tool's
// parameter schema, or a schema that could not be applied.
type ValidationError struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateParams validates an argument map against a JSON Schema given in
// its stored map form. An empty schema accepts any arguments.
func ValidateParams(schema map[string]any, params map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	// Round-trip the schema map through JSON into a Schema struct
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return &ValidationError{
			Type:    "SchemaError",
			Message: "Failed to marshal schema",
			Details: map[string]any{"error": err.Error()},
		}
	}

	var schemaObj jsonschema.Schema
	if err := json.Unmarshal(schemaBytes, &schemaObj); err != nil {
		return &ValidationError{
			Type:    "SchemaError",
			Message: "Invalid JSON schema definition",
			Details: map[string]any{"error": err.Error()},
		}
	}

	resolved, err := schemaObj.Resolve(nil)
	if err != nil {
		return &ValidationError{
			Type:    "SchemaError",
			Message: "Failed to resolve JSON schema",
			Details: map[string]any{"error": err.Error()},
		}
	}

	if err := resolved.Validate(params); err != nil {
		return &ValidationError{
			Type:    "ValidationError",
			Message: "Parameter validation failed",
			Details: map[string]any{
				"error":          err.Error(),
				"schema":         schema,
				"providedParams": params,
			},
		}
	}

	return nil
}

// FormatValidationError formats a validation error for display
func FormatValidationError(err error) string {
	if validationErr, ok := err.(*ValidationError); ok {
		if len(validationErr.Details) > 0 {
			if errorMsg, hasError := validationErr.Details["error"].(string); hasError {
				return fmt.Sprintf("%s: %s", validationErr.Message, errorMsg)
			}
		}
		return validationErr.Message
	}
	return err.Error()
}
