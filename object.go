package jsonshape

import (
	"fmt"
	"sort"
	"strings"

	js "github.com/reoring/jsonshape/jsonschema"
	"github.com/reoring/jsonshape/ordered"
)

// Attribute is one declared field of an object type.
type Attribute struct {
	Name     string
	Type     Type
	Optional bool
}

func (a Attribute) String() string {
	return fmt.Sprintf("Attribute(type=%s, optional=%t)", typeName(a.Type), a.Optional)
}

// ObjectType is a declared record shape with ordered, typed attributes.
// Declare one with DeclareObject; the type is immutable once built.
type ObjectType struct {
	name   string
	base   *ObjectType
	attrs  []Attribute
	index  map[string]int
	schema schemaCache
}

type objectBuilder struct {
	name  string
	base  *ObjectType
	attrs []Attribute
	seen  map[string]struct{}
	err   error
}

type fieldStep struct {
	b   *objectBuilder
	idx int
}

// DeclareObject starts the declaration of an object type. Fields are required
// unless marked Optional, and keep the order in which they are registered.
//
//	Example := jsonshape.DeclareObject("Example").
//		Field("integer", jsonshape.Integer).
//		Field("string", jsonshape.String).
//		Field("optional", jsonshape.String).Optional().
//		MustBuild()
func DeclareObject(name string) *objectBuilder {
	return &objectBuilder{name: name, seen: map[string]struct{}{}}
}

// Extends inherits the attributes of base. Inherited attributes come first;
// redeclaring one replaces it in place.
func (b *objectBuilder) Extends(base *ObjectType) *objectBuilder {
	if base == nil {
		b.fail(newError(ErrType, "object %s cannot extend a nil type", b.name))
		return b
	}
	b.base = base
	return b
}

// Field registers an attribute of type t.
func (b *objectBuilder) Field(name string, t Type) *fieldStep {
	if _, dup := b.seen[name]; dup {
		b.fail(newError(ErrType, "object %s declares attribute %q twice", b.name, name))
	}
	if name == "" {
		b.fail(newError(ErrType, "object %s declares an attribute without a name", b.name))
	}
	if err := checkSlotType(t); err != nil {
		b.fail(newError(ErrType, "attribute %s.%s: %s", b.name, name, errMessage(err)))
	}
	b.seen[name] = struct{}{}
	b.attrs = append(b.attrs, Attribute{Name: name, Type: t})
	return &fieldStep{b: b, idx: len(b.attrs) - 1}
}

// Optional marks the current attribute as optional.
func (f *fieldStep) Optional() *objectBuilder {
	f.b.attrs[f.idx].Optional = true
	return f.b
}

// Required marks the current attribute as required (default).
func (f *fieldStep) Required() *objectBuilder {
	f.b.attrs[f.idx].Optional = false
	return f.b
}

func (f *fieldStep) Field(name string, t Type) *fieldStep { return f.b.Field(name, t) }
func (f *fieldStep) Build() (*ObjectType, error)          { return f.b.Build() }
func (f *fieldStep) MustBuild() *ObjectType               { return f.b.MustBuild() }

func (b *objectBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the declaration and returns the object type.
func (b *objectBuilder) Build() (*ObjectType, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, newError(ErrType, "object type needs a name")
	}
	var attrs []Attribute
	if b.base != nil {
		attrs = append(attrs, b.base.attrs...)
	}
	index := make(map[string]int, len(attrs)+len(b.attrs))
	for i, a := range attrs {
		index[a.Name] = i
	}
	for _, a := range b.attrs {
		if i, ok := index[a.Name]; ok {
			attrs[i] = a
			continue
		}
		index[a.Name] = len(attrs)
		attrs = append(attrs, a)
	}
	return &ObjectType{name: b.name, base: b.base, attrs: attrs, index: index}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *ObjectType {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the declared name.
func (t *ObjectType) Name() string { return t.name }

func (t *ObjectType) String() string { return t.name }

// Base returns the extended type, or nil.
func (t *ObjectType) Base() *ObjectType { return t.base }

// Attributes returns the attributes in declaration order.
func (t *ObjectType) Attributes() []Attribute {
	out := make([]Attribute, len(t.attrs))
	copy(out, t.attrs)
	return out
}

// Attribute looks up an attribute by name.
func (t *ObjectType) Attribute(name string) (Attribute, bool) {
	i, ok := t.index[name]
	if !ok {
		return Attribute{}, false
	}
	return t.attrs[i], true
}

// IsSubtypeOf reports whether super is t or one of the types it extends.
func (t *ObjectType) IsSubtypeOf(super Type) bool {
	st, ok := super.(*ObjectType)
	if !ok {
		return false
	}
	for cur := t; cur != nil; cur = cur.base {
		if cur == st {
			return true
		}
	}
	return false
}

// Accepts reports whether v is an *Object of t or of a type extending t.
func (t *ObjectType) Accepts(v any) bool {
	o, ok := v.(*Object)
	return ok && o != nil && o.typ.IsSubtypeOf(t)
}

// Schema describes the object with properties in declaration order and
// additionalProperties false. "required" is omitted when every attribute is
// optional.
func (t *ObjectType) Schema() (*js.Schema, error) {
	return t.schema.get(func() (*js.Schema, error) {
		s := &js.Schema{
			Type:                 "object",
			Properties:           make(map[string]*js.Schema, len(t.attrs)),
			PropertyOrder:        make([]string, 0, len(t.attrs)),
			AdditionalProperties: false,
		}
		for _, a := range t.attrs {
			sub, err := Schema(a.Type)
			if err != nil {
				return nil, err
			}
			s.Properties[a.Name] = sub
			s.PropertyOrder = append(s.PropertyOrder, a.Name)
			if !a.Optional {
				s.Required = append(s.Required, a.Name)
			}
		}
		return s, nil
	})
}

// Deserialize validates data against the schema, deserializes every present
// field to its declared type and constructs the object.
func (t *ObjectType) Deserialize(data any) (any, error) {
	s, err := t.Schema()
	if err != nil {
		return nil, err
	}
	if err := validate(data, s); err != nil {
		return nil, err
	}
	raw, ok := asObject(data)
	if !ok {
		return nil, newError(ErrType, "%s cannot be built from %T", t.name, data)
	}
	attrs := make(Attrs, raw.Len())
	var derr error
	raw.Range(func(k string, v any) bool {
		a, ok := t.Attribute(k)
		if !ok {
			derr = newError(ErrUnknownAttribute, "%s has no attribute %q", t.name, k)
			return false
		}
		dv, err := Deserialize(v, a.Type)
		if err != nil {
			derr = err
			return false
		}
		attrs[k] = dv
		return true
	})
	if derr != nil {
		return nil, derr
	}
	o, err := t.New(attrs)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Attrs carries attribute values for ObjectType.New.
type Attrs map[string]any

// Object is an instance of an object type. Its attribute set is fixed; values
// may change through Set under the construction checks. An Object is not safe
// for concurrent mutation.
type Object struct {
	typ    *ObjectType
	values []any
}

// New constructs an instance. Every required attribute must be given; omitted
// optional attributes are absent. Unknown names and mistyped values fail with
// ErrType.
func (t *ObjectType) New(attrs Attrs) (*Object, error) {
	values := make([]any, len(t.attrs))
	for i, a := range t.attrs {
		v, ok := attrs[a.Name]
		if !ok || (v == nil && a.Optional) {
			if !a.Optional {
				return nil, newError(ErrType, "%s missing a required attribute %q", t.name, a.Name)
			}
			continue
		}
		cv, err := t.check(a, v)
		if err != nil {
			return nil, err
		}
		values[i] = cv
	}
	var unexpected []string
	for name := range attrs {
		if _, ok := t.index[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return nil, newError(ErrType, "%s got unexpected attribute(s) %s", t.name, strings.Join(unexpected, ", "))
	}
	return &Object{typ: t, values: values}, nil
}

// MustNew is like New but panics on error.
func (t *ObjectType) MustNew(attrs Attrs) *Object {
	o, err := t.New(attrs)
	if err != nil {
		panic(err)
	}
	return o
}

func (t *ObjectType) check(a Attribute, v any) (any, error) {
	if v == nil || !a.Type.Accepts(v) {
		if a.Optional {
			return nil, newError(ErrType, "%s.%s must be a %s or nil, got %T", t.name, a.Name, typeName(a.Type), v)
		}
		return nil, newError(ErrType, "%s.%s must be a %s, got %T", t.name, a.Name, typeName(a.Type), v)
	}
	return canonical(v), nil
}

// Type returns the object's type.
func (o *Object) Type() *ObjectType { return o.typ }

// Get returns the value of a declared attribute; absent optionals are nil.
func (o *Object) Get(name string) (any, error) {
	i, ok := o.typ.index[name]
	if !ok {
		return nil, newError(ErrUnknownAttribute, "%s is not a valid attribute of %s", name, o.typ.name)
	}
	return o.values[i], nil
}

// Has reports whether the attribute is declared and currently present.
func (o *Object) Has(name string) bool {
	i, ok := o.typ.index[name]
	return ok && o.values[i] != nil
}

// Set assigns a declared attribute. nil clears an optional attribute.
func (o *Object) Set(name string, v any) error {
	i, ok := o.typ.index[name]
	if !ok {
		return newError(ErrUnknownAttribute, "%s is not a valid attribute of %s", name, o.typ.name)
	}
	a := o.typ.attrs[i]
	if v == nil && a.Optional {
		o.values[i] = nil
		return nil
	}
	cv, err := o.typ.check(a, v)
	if err != nil {
		return err
	}
	o.values[i] = cv
	return nil
}

// Equal reports whether other has exactly the same type and equal attributes.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.typ != other.typ {
		return false
	}
	for i := range o.values {
		if !valueEqual(o.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

// Serialize returns the present attributes in declaration order. Absent
// optional attributes are omitted, never emitted as null.
func (o *Object) Serialize() (any, error) {
	out := ordered.NewMap(len(o.values))
	for i, a := range o.typ.attrs {
		v := o.values[i]
		if v == nil {
			continue
		}
		sv, err := Serialize(v)
		if err != nil {
			return nil, err
		}
		out.Set(a.Name, sv)
	}
	return out, nil
}

// String renders the object as Name(a=1, b="x", c=nil).
func (o *Object) String() string {
	b := &strings.Builder{}
	b.WriteString(o.typ.name)
	b.WriteByte('(')
	for i, a := range o.typ.attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		b.WriteByte('=')
		b.WriteString(formatValue(o.values[i]))
	}
	b.WriteByte(')')
	return b.String()
}
