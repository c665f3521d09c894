package source

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// catalogSchema describes a catalog document once decoded to JSON values.
var catalogSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"name": map[string]any{
			"type": "string",
		},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":    "integer",
						"minimum": 1,
					},
					"entries": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"answer": map[string]any{"type": "string"},
								"models": map[string]any{"type": "string"},
							},
							"required":             []any{"answer", "models"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []any{"id", "entries"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"version", "questions"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// validateDocument checks a decoded JSON value against the catalog schema.
func validateDocument(doc any) error {
	compileOnce.Do(func() {
		compiled, compileErr = compileSchema("catalog", catalogSchema)
	})
	if compileErr != nil {
		return fmt.Errorf("compile catalog schema: %w", compileErr)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compileSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants plain decoded JSON, so round-trip the Go literal.
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}
