package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FormValidator validates admin entity payloads before they are submitted.
type FormValidator interface {
	Validate(entity string, payload map[string]any) error
}

// Admin form schemas. They mirror the required form fields only; pricing and
// stock rules stay on the server.
var entitySchemas = map[string]map[string]any{
	"service": {
		"type":     "object",
		"required": []any{"name", "price", "duration"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"price":       map[string]any{"type": "integer"},
			"duration":    map[string]any{"type": "integer"},
		},
	},
	"product": {
		"type":     "object",
		"required": []any{"name", "price", "stock"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"price":       map[string]any{"type": "integer"},
			"stock":       map[string]any{"type": "integer"},
		},
	},
	"voucher": {
		"type":     "object",
		"required": []any{"code", "discount"},
		"properties": map[string]any{
			"code":       map[string]any{"type": "string", "minLength": 1},
			"discount":   map[string]any{"type": "integer"},
			"assignedTo": map[string]any{"type": "string"},
			"expiresAt":  map[string]any{"type": "string"},
		},
	},
}

// JSONSchemaValidator compiles the entity schemas on demand and caches the
// compiled form.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the payload satisfies the entity's schema. Unknown
// entities pass; the server remains the authority on what it accepts.
func (v *JSONSchemaValidator) Validate(entity string, payload map[string]any) error {
	raw, ok := entitySchemas[entity]
	if !ok {
		return nil
	}
	schema, err := v.schemaFor(entity, raw)
	if err != nil {
		return err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	normalized, err := normalizePayload(entity, payload)
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("storefront: %s form failed validation: %w", entity, err)
	}
	return nil
}

// normalizePayload round-trips through JSON so numeric types match what the
// schema compiler expects.
func normalizePayload(entity string, payload map[string]any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("storefront: marshal %s form: %w", entity, err)
	}
	var normalized map[string]any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("storefront: normalize %s form: %w", entity, err)
	}
	return normalized, nil
}

func (v *JSONSchemaValidator) schemaFor(entity string, raw map[string]any) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[entity]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("storefront: marshal schema %s: %w", entity, err)
	}
	compiler := jsonschema.NewCompiler()
	name := entity + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("storefront: load schema %s: %w", entity, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("storefront: compile schema %s: %w", entity, err)
	}
	v.mu.Lock()
	v.compiled[entity] = compiled
	v.mu.Unlock()
	return compiled, nil
}
