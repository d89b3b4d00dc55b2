// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult reports the outcome of validating worker input against an
// activity's registered JSON schema.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateInput validates raw job variables (JSON bytes) against a JSON
// schema expressed as a generic map, as stored in the activity registry.
func ValidateInput(input []byte, schema map[string]interface{}) (*ValidationResult, error) {
	if len(schema) == 0 {
		return &ValidationResult{Valid: true}, nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	docLoader := gojsonschema.NewBytesLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	out := &ValidationResult{Valid: false}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out, nil
}

// FormatErrors flattens validation errors into a single details string.
func FormatErrors(result *ValidationResult) string {
	if result == nil || result.Valid {
		return ""
	}
	details := ""
	for i, e := range result.Errors {
		if i > 0 {
			details += "; "
		}
		details += fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return details
}
