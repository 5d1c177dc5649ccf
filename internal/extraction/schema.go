package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema returns the JSON Schema of a page extraction as a generic map.
// It is sent upstream as the structured output constraint and used locally to validate answers.
func Schema() map[string]any {
	nullableString := func() map[string]any {
		return map[string]any{"type": []any{"string", "null"}}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":      nullableString(),
			"authors":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"department": nullableString(),
			"data":       nullableString(),
		},
		"required": []any{"title", "authors", "department", "data"},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(Schema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("page_extraction.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("page_extraction.json")
	})
	return compiled, compileErr
}

// Validate checks a decoded JSON value against Schema.
func Validate(v any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
