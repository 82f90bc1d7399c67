package extraction

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed receipt.schema.json
var defaultSchema []byte

// SchemaValidator checks payloads against a JSON schema. Mismatches are
// reported as warnings and never fail an extraction.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the schema at path, or the embedded receipt
// schema when path is empty.
func NewSchemaValidator(path string) (*SchemaValidator, error) {
	data := defaultSchema
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("receipt.schema.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}

	schema, err := compiler.Compile("receipt.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &SchemaValidator{schema: schema}, nil
}

func (v *SchemaValidator) Warnings(payload domain.Payload) []string {
	err := v.schema.Validate(map[string]any(payload))
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	var warnings []string
	collectWarnings(validationErr, &warnings)
	sort.Strings(warnings)

	return warnings
}

func collectWarnings(err *jsonschema.ValidationError, out *[]string) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", location, err.Message))
		return
	}

	for _, cause := range err.Causes {
		collectWarnings(cause, out)
	}
}
