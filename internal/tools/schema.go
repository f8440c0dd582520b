package tools

// Property describes one tool parameter.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Items       *Property `json:"items,omitempty"`
	Minimum     *int      `json:"minimum,omitempty"`
	Maximum     *int      `json:"maximum,omitempty"`
}

// Schema captures the subset of JSON Schema used for tool parameters. It is
// always an object without additional properties.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Map renders the schema the way model APIs expect a "parameters" object.
func (s Schema) Map() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, p := range s.Properties {
		props[name] = p.Map()
	}
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	return out
}

func (p Property) Map() map[string]any {
	out := map[string]any{"type": p.Type}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = append([]string(nil), p.Enum...)
	}
	if p.Default != nil {
		out["default"] = p.Default
	}
	if p.Items != nil {
		out["items"] = p.Items.Map()
	}
	if p.Minimum != nil {
		out["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		out["maximum"] = *p.Maximum
	}
	return out
}

func (s Schema) isRequired(field string) bool {
	for _, r := range s.Required {
		if r == field {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }
