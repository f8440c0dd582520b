package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ArgumentError reports a tool argument that does not satisfy its schema.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Reason
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// Validator validates tool parameters before execution.
type Validator interface {
	Validate(params map[string]any, schema Schema) error
}

// DefaultValidator covers required fields, unknown fields, primitive types,
// enumerations, integer bounds and array item types. A null value on an
// optional field counts as absent.
type DefaultValidator struct{}

func (DefaultValidator) Validate(params map[string]any, schema Schema) error {
	for _, field := range schema.Required {
		if v, ok := params[field]; !ok || v == nil {
			return &ArgumentError{Field: field, Reason: "missing required field"}
		}
	}

	// Sorted so the reported field is stable when several are wrong.
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		prop, ok := schema.Properties[key]
		if !ok {
			return &ArgumentError{Field: key, Reason: "unknown field"}
		}
		value := params[key]
		if value == nil {
			if schema.isRequired(key) {
				return &ArgumentError{Field: key, Reason: "must not be null"}
			}
			continue
		}
		if err := validateValue(value, prop); err != nil {
			return &ArgumentError{Field: key, Reason: err.Error()}
		}
	}
	return nil
}

func validateValue(value any, prop Property) error {
	if err := validateType(value, prop.Type); err != nil {
		return err
	}
	switch prop.Type {
	case "string":
		if len(prop.Enum) > 0 && !contains(prop.Enum, value.(string)) {
			return fmt.Errorf("must be one of %s", strings.Join(prop.Enum, ", "))
		}
	case "integer":
		n, _ := toFloat(value)
		if prop.Minimum != nil && n < float64(*prop.Minimum) {
			return fmt.Errorf("must be >= %d", *prop.Minimum)
		}
		if prop.Maximum != nil && n > float64(*prop.Maximum) {
			return fmt.Errorf("must be <= %d", *prop.Maximum)
		}
	case "array":
		if prop.Items == nil {
			return nil
		}
		for i, item := range value.([]any) {
			if err := validateValue(item, *prop.Items); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func validateType(value any, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		if _, ok := toFloat(value); ok {
			return nil
		}
	case "integer":
		if n, ok := toFloat(value); ok && math.Trunc(n) == n {
			return nil
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	case "object":
		if _, ok := value.(map[string]any); ok {
			return nil
		}
	case "array":
		if _, ok := value.([]any); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %s", expected, jsonType(value))
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func jsonType(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
