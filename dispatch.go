package jsonshape

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/reoring/jsonshape/internal/jsonvalue"
	js "github.com/reoring/jsonshape/jsonschema"
	"github.com/reoring/jsonshape/ordered"
)

// Schema returns the JSON Schema of t. Serializable types describe themselves;
// primitive kinds map to a fresh {"type": tag}. Anything else fails with
// ErrUnsupportedType.
func Schema(t Type) (*js.Schema, error) {
	switch tt := t.(type) {
	case Serializable:
		return tt.Schema()
	case PrimitiveKind:
		if s, ok := primitiveSchemas[tt]; ok {
			cp := *s
			return &cp, nil
		}
	}
	return nil, newError(ErrUnsupportedType, "type %s has no JSON schema", typeName(t))
}

// Serialize converts v into plain JSON-compatible data. Serializer values
// delegate to their own Serialize; primitives are returned unchanged. Byte
// slices, untyped slices and maps, and nil are rejected with
// ErrUnsupportedType.
func Serialize(v any) (any, error) {
	switch x := v.(type) {
	case Serializer:
		return x.Serialize()
	case bool, string, json.Number:
		return x, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return x, nil
	case uuid.UUID:
		return x.String(), nil
	}
	return nil, newError(ErrUnsupportedType, "value of type %T is not serializable", v)
}

// Deserialize builds a value of type t from decoded data. Serializable types
// validate data against their schema first and return Issues on mismatch;
// primitive kinds coerce structurally compatible data and fail with ErrType.
// Integer slots share the "number" schema tag, so a fractional number such as
// 1.5 passes validation and is then rejected with ErrType rather than
// truncated.
func Deserialize(data any, t Type) (any, error) {
	switch tt := t.(type) {
	case Serializable:
		return tt.Deserialize(data)
	case PrimitiveKind:
		if tt.valid() {
			return tt.coerce(data)
		}
	}
	return nil, newError(ErrUnsupportedType, "cannot deserialize into %s", typeName(t))
}

// DeserializeAs is Deserialize with the result asserted to T.
//
//	obj, err := jsonshape.DeserializeAs[*jsonshape.Object](data, Example)
func DeserializeAs[T any](data any, t Type) (T, error) {
	var zero T
	v, err := Deserialize(data, t)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, newError(ErrType, "%s deserialized to %T, not %T", typeName(t), v, zero)
	}
	return out, nil
}

// IsInstance reports whether v may occupy a slot typed t.
func IsInstance(v any, t Type) bool {
	return t != nil && t.Accepts(v)
}

// IsSubtype reports whether every instance of sub is also an instance of
// super. Derived containers and extended objects are subtypes of their
// ancestors, never the reverse.
func IsSubtype(sub, super Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if st, ok := sub.(interface{ IsSubtypeOf(Type) bool }); ok {
		return st.IsSubtypeOf(super)
	}
	return sub == super
}

func (k PrimitiveKind) coerce(data any) (any, error) {
	switch k {
	case Integer:
		if i, ok := jsonvalue.Integer(data); ok {
			return i, nil
		}
	case Float:
		if f, ok := jsonvalue.Number(data); ok {
			return f, nil
		}
	case Boolean:
		if b, ok := data.(bool); ok {
			return b, nil
		}
	case String:
		if s, ok := data.(string); ok {
			return s, nil
		}
	}
	return nil, newError(ErrType, "cannot convert %T to %s", data, k.Name())
}

// asObject views decoded object data as an ordered map. map[any]any is
// accepted when all keys are strings.
func asObject(data any) (*ordered.Map, bool) {
	if raw, ok := data.(map[any]any); ok {
		m, ok := stringKeyed(raw)
		if !ok {
			return nil, false
		}
		return ordered.FromMap(m), true
	}
	return ordered.From(data)
}
