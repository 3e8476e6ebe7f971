package jsonshape

import (
	"reflect"
	"sync"

	"github.com/reoring/jsonshape/internal/jsonvalue"
	js "github.com/reoring/jsonshape/jsonschema"
)

// Type describes a declared shape or a primitive kind. It is the handle passed
// to Schema and Deserialize and used to type object attributes and container
// elements.
type Type interface {
	// Name renders the type for diagnostics, e.g. "int" or "List[int]".
	Name() string
	// Accepts reports whether v may occupy a slot of this type.
	Accepts(v any) bool
}

// Serializable is the type-level half of the capability contract: a shape that
// can describe itself as JSON Schema and build instances from decoded data.
// Deserialize must validate data against Schema before constructing anything.
type Serializable interface {
	Type
	Schema() (*js.Schema, error)
	Deserialize(data any) (any, error)
}

// Serializer is the instance-level half of the capability contract.
type Serializer interface {
	Serialize() (any, error)
}

// PrimitiveKind is one of the four primitive kinds. The set is closed.
type PrimitiveKind int

const (
	Integer PrimitiveKind = iota + 1
	Float
	Boolean
	String
)

var primitiveNames = map[PrimitiveKind]string{
	Integer: "int",
	Float:   "float",
	Boolean: "bool",
	String:  "string",
}

// primitiveSchemas maps each kind to its JSON Schema type tag. Integer and
// Float share "number".
var primitiveSchemas = map[PrimitiveKind]*js.Schema{
	Integer: {Type: "number"},
	Float:   {Type: "number"},
	Boolean: {Type: "boolean"},
	String:  {Type: "string"},
}

func (k PrimitiveKind) valid() bool {
	_, ok := primitiveNames[k]
	return ok
}

// Name returns "int", "float", "bool" or "string".
func (k PrimitiveKind) Name() string {
	if n, ok := primitiveNames[k]; ok {
		return n
	}
	return "invalid"
}

func (k PrimitiveKind) String() string { return k.Name() }

// Tag returns the JSON Schema type tag of the kind.
func (k PrimitiveKind) Tag() string {
	if s, ok := primitiveSchemas[k]; ok {
		return s.Type
	}
	return ""
}

// Accepts reports whether v is a Go value of this kind. Integer accepts the Go
// integer kinds that fit in int64, Float accepts float32 and float64. A bool is
// never a number.
func (k PrimitiveKind) Accepts(v any) bool {
	switch k {
	case Integer:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			_, ok := jsonvalue.Integer(v)
			return ok
		}
	case Float:
		switch v.(type) {
		case float32, float64:
			return true
		}
	case Boolean:
		_, ok := v.(bool)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	}
	return false
}

// canonical normalizes accepted primitive values to their stored form: int64
// for integer kinds and float64 for floats. Other values pass through.
func canonical(v any) any {
	switch n := v.(type) {
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		if i, ok := jsonvalue.Integer(n); ok {
			return i
		}
	case float32:
		return float64(n)
	}
	return v
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// checkSlotType verifies that t may type an attribute or container element.
func checkSlotType(t Type) error {
	if t == nil {
		return newError(ErrType, "slot type must not be nil")
	}
	if !reflect.TypeOf(t).Comparable() {
		return newError(ErrType, "slot type %s is not comparable", t.Name())
	}
	switch tt := t.(type) {
	case PrimitiveKind:
		if !tt.valid() {
			return newError(ErrType, "invalid primitive kind %d", int(tt))
		}
		return nil
	case *ContainerType:
		if !tt.Bound() {
			return newError(ErrType, "%s must be parametrized before use as a slot type", tt.Name())
		}
		return nil
	case Serializable:
		return nil
	}
	return newError(ErrType, "%s is neither serializable nor primitive", t.Name())
}

// schemaCache memoizes the schema of an immutable declared type.
type schemaCache struct {
	once   sync.Once
	schema *js.Schema
	err    error
}

func (c *schemaCache) get(build func() (*js.Schema, error)) (*js.Schema, error) {
	c.once.Do(func() { c.schema, c.err = build() })
	return c.schema, c.err
}
