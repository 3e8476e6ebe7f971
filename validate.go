package jsonshape

import (
	"sync"

	"github.com/google/uuid"

	"github.com/reoring/jsonshape/i18n"
	"github.com/reoring/jsonshape/internal/jsonvalue"
	js "github.com/reoring/jsonshape/jsonschema"
	"github.com/reoring/jsonshape/ordered"
)

// Validator checks decoded data against a JSON Schema. Validate returns nil on
// conformance and Issues otherwise; other error types are wrapped into Issues
// with CodeParseError by the caller.
type Validator interface {
	Validate(instance any, schema *js.Schema) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(instance any, schema *js.Schema) error

func (f ValidatorFunc) Validate(instance any, schema *js.Schema) error { return f(instance, schema) }

var (
	validatorMu      sync.RWMutex
	currentValidator Validator = defaultValidator{}
)

// SetValidator replaces the global schema validator; nil values are ignored.
func SetValidator(v Validator) {
	if v == nil {
		return
	}
	validatorMu.Lock()
	currentValidator = v
	validatorMu.Unlock()
}

// UseDefaultValidator restores the built-in validator.
func UseDefaultValidator() {
	validatorMu.Lock()
	currentValidator = defaultValidator{}
	validatorMu.Unlock()
}

// DefaultValidator returns the built-in validator. It understands the schema
// subset emitted by this package: type, format "uuid", enum, properties,
// required, additionalProperties and items.
func DefaultValidator() Validator { return defaultValidator{} }

func getValidator() Validator {
	validatorMu.RLock()
	v := currentValidator
	validatorMu.RUnlock()
	return v
}

// validate runs the configured validator; the result is nil or Issues.
func validate(data any, s *js.Schema) error {
	if err := getValidator().Validate(data, s); err != nil {
		return toIssues(err)
	}
	return nil
}

type defaultValidator struct{}

func (defaultValidator) Validate(instance any, s *js.Schema) error {
	var iss Issues
	checkValue(instance, s, RootPath(), &iss)
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func checkValue(v any, s *js.Schema, p PathRef, iss *Issues) {
	if s == nil {
		return
	}
	if len(s.Enum) > 0 && !inEnum(v, s.Enum) {
		*iss = AppendIssues(*iss, p.Issue(CodeInvalidEnum, i18n.T(CodeInvalidEnum, nil), "allowed", len(s.Enum)))
		return
	}
	if raw, ok := v.(map[any]any); ok {
		m, ok := stringKeyed(raw)
		if !ok {
			it := p.Issue(CodeInvalidType, i18n.T(CodeInvalidType, nil))
			it.Hint = "object keys must be strings"
			*iss = AppendIssues(*iss, it)
			return
		}
		v = m
	}
	got := jsonvalue.Kind(v)
	if s.Type != "" && !kindMatches(s.Type, v, got) {
		label := got
		if label == "" {
			label = "unsupported"
		}
		msg := i18n.T(CodeInvalidType, map[string]string{"expected": s.Type, "got": label})
		*iss = AppendIssues(*iss, p.Issue(CodeInvalidType, msg, "expected", s.Type, "got", label))
		return
	}
	if s.Format == "uuid" {
		if str, ok := v.(string); ok {
			if _, err := uuid.Parse(str); err != nil {
				it := p.Issue(CodeInvalidFormat, i18n.T(CodeInvalidFormat, nil), "format", s.Format)
				it.Hint = "uuid"
				it.Cause = err
				*iss = AppendIssues(*iss, it)
				return
			}
		}
	}
	switch got {
	case jsonvalue.KindObject:
		obj, _ := ordered.From(v)
		checkObject(obj, s, p, iss)
	case jsonvalue.KindArray:
		if s.Items == nil {
			return
		}
		for i, item := range v.([]any) {
			checkValue(item, s.Items, p.Index(i), iss)
		}
	}
}

func checkObject(obj *ordered.Map, s *js.Schema, p PathRef, iss *Issues) {
	for _, name := range s.Required {
		if !obj.Has(name) {
			it := p.Field(name).Issue(CodeRequired, i18n.T(CodeRequired, nil))
			it.Hint = "required property missing"
			*iss = AppendIssues(*iss, it)
		}
	}
	obj.Range(func(k string, val any) bool {
		if sub, ok := s.Properties[k]; ok {
			checkValue(val, sub, p.Field(k), iss)
			return true
		}
		sub, allowed := s.AdditionalSchema()
		if !allowed {
			*iss = AppendIssues(*iss, p.Field(k).Issue(CodeUnknownKey, i18n.T(CodeUnknownKey, nil)))
			return true
		}
		if sub != nil {
			checkValue(val, sub, p.Field(k), iss)
		}
		return true
	})
}

func inEnum(v any, allowed []any) bool {
	for _, e := range allowed {
		if jsonvalue.Equal(v, e) {
			return true
		}
	}
	return false
}

func kindMatches(want string, v any, got string) bool {
	if want == "integer" {
		_, ok := jsonvalue.Integer(v)
		return got == jsonvalue.KindNumber && ok
	}
	return want == got
}

func stringKeyed(raw map[any]any) (map[string]any, bool) {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		ks, ok := k.(string)
		if !ok {
			return nil, false
		}
		out[ks] = v
	}
	return out, true
}
