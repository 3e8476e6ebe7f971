package jsonschema

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/reoring/jsonshape/ordered"
)

// Schema is a minimal JSON Schema representation used for export and for the
// built-in validator. Keep this struct small and extend incrementally.
//
// Schemas handed out by declared types are shared; treat them as read-only.
type Schema struct {
	// Core
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`
	Enum   []any  `json:"enum,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	// PropertyOrder lists Properties keys in declaration order. Keys missing
	// from it are emitted after it in ascending order.
	PropertyOrder        []string `json:"-"`
	Required             []string `json:"required,omitempty"`
	AdditionalProperties any      `json:"additionalProperties,omitempty"` // nil, bool or *Schema

	// Array
	Items *Schema `json:"items,omitempty"`
}

// PropertyNames returns the property names in emission order.
func (s *Schema) PropertyNames() []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, k := range s.PropertyOrder {
		if _, ok := s.Properties[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	var rest []string
	for k := range s.Properties {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// AdditionalSchema returns the schema applied to undeclared object keys.
// allowed is false when additionalProperties is false.
func (s *Schema) AdditionalSchema() (sub *Schema, allowed bool) {
	switch ap := s.AdditionalProperties.(type) {
	case nil:
		return nil, true
	case bool:
		return nil, ap
	case *Schema:
		return ap, true
	default:
		return nil, true
	}
}

// MarshalJSON emits keys in a fixed order (type, format, enum, properties,
// required, additionalProperties, items) and properties in PropertyNames
// order, so exported documents are byte-stable.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.document())
}

func (s *Schema) document() *ordered.Map {
	doc := ordered.NewMap(7)
	if s.Type != "" {
		doc.Set("type", s.Type)
	}
	if s.Format != "" {
		doc.Set("format", s.Format)
	}
	if len(s.Enum) > 0 {
		doc.Set("enum", s.Enum)
	}
	if s.Properties != nil {
		props := ordered.NewMap(len(s.Properties))
		for _, k := range s.PropertyNames() {
			props.Set(k, s.Properties[k])
		}
		doc.Set("properties", props)
	}
	if len(s.Required) > 0 {
		doc.Set("required", s.Required)
	}
	if s.AdditionalProperties != nil {
		doc.Set("additionalProperties", s.AdditionalProperties)
	}
	if s.Items != nil {
		doc.Set("items", s.Items)
	}
	return doc
}
