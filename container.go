package jsonshape

import (
	"sync"

	js "github.com/reoring/jsonshape/jsonschema"
)

// ContainerKind distinguishes ordered lists from string-keyed mappings.
type ContainerKind int

const (
	ListKind ContainerKind = iota
	MappingKind
)

func (k ContainerKind) String() string {
	if k == MappingKind {
		return "Mapping"
	}
	return "List"
}

// ContainerType is a homogeneous container shape. The two unbound bases,
// ListType and MappingType, only become usable once bound to an element type
// with Of; bound types may be specialized further with Derive.
type ContainerType struct {
	kind   ContainerKind
	name   string // set for bases and derived types
	elem   Type
	parent *ContainerType
	schema schemaCache
}

// Unbound container bases. ArrayType and DictType are alternative names.
var (
	ListType    = &ContainerType{kind: ListKind, name: "List"}
	MappingType = &ContainerType{kind: MappingKind, name: "Mapping"}

	ArrayType = ListType
	DictType  = MappingType
)

type bindingKey struct {
	base *ContainerType
	elem Type
}

var (
	bindingMu sync.Mutex
	bindings  = map[bindingKey]*ContainerType{}
)

// ListOf is shorthand for ListType.Of(elem).
func ListOf(elem Type) (*ContainerType, error) { return ListType.Of(elem) }

// MappingOf is shorthand for MappingType.Of(elem).
func MappingOf(elem Type) (*ContainerType, error) { return MappingType.Of(elem) }

// MustListOf is like ListOf but panics on error.
func MustListOf(elem Type) *ContainerType { return ListType.MustOf(elem) }

// MustMappingOf is like MappingOf but panics on error.
func MustMappingOf(elem Type) *ContainerType { return MappingType.MustOf(elem) }

// Of binds the element type. Binding the same base to the same element type
// always returns the same *ContainerType. Binding an already bound or derived
// type fails with ErrType, as does an element type that is not serializable.
func (c *ContainerType) Of(elem Type) (*ContainerType, error) {
	if c.elem != nil || c.parent != nil {
		return nil, newError(ErrType, "%s is already parametrized", c.Name())
	}
	if err := checkSlotType(elem); err != nil {
		return nil, newError(ErrType, "cannot parametrize %s: %s", c.Name(), errMessage(err))
	}
	key := bindingKey{base: c, elem: elem}
	bindingMu.Lock()
	defer bindingMu.Unlock()
	if bound, ok := bindings[key]; ok {
		return bound, nil
	}
	bound := &ContainerType{kind: c.kind, elem: elem, parent: c}
	bindings[key] = bound
	return bound, nil
}

// MustOf is like Of but panics on error.
func (c *ContainerType) MustOf(elem Type) *ContainerType {
	bound, err := c.Of(elem)
	if err != nil {
		panic(err)
	}
	return bound
}

// Derive declares a named subtype of a bound container. Instances of the
// derived type are instances of c, but instances of c are not instances of the
// derived type.
func (c *ContainerType) Derive(name string) (*ContainerType, error) {
	if !c.Bound() {
		return nil, newError(ErrType, "cannot derive %q from unbound %s", name, c.Name())
	}
	if name == "" {
		return nil, newError(ErrType, "derived %s needs a name", c.Name())
	}
	return &ContainerType{kind: c.kind, name: name, elem: c.elem, parent: c}, nil
}

// MustDerive is like Derive but panics on error.
func (c *ContainerType) MustDerive(name string) *ContainerType {
	d, err := c.Derive(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Name renders bases and derived types by name and bound types as
// "List[int]".
func (c *ContainerType) Name() string {
	if c.name != "" {
		return c.name
	}
	return c.parent.Name() + "[" + c.elem.Name() + "]"
}

func (c *ContainerType) String() string { return c.Name() }

// Kind returns ListKind or MappingKind.
func (c *ContainerType) Kind() ContainerKind { return c.kind }

// Elem returns the element type, or nil for an unbound base.
func (c *ContainerType) Elem() Type { return c.elem }

// Bound reports whether the element type is set.
func (c *ContainerType) Bound() bool { return c.elem != nil }

// Parent returns the type c was bound or derived from; nil for bases.
func (c *ContainerType) Parent() *ContainerType { return c.parent }

// IsSubtypeOf reports whether super is c or one of its ancestors.
func (c *ContainerType) IsSubtypeOf(super Type) bool {
	sc, ok := super.(*ContainerType)
	if !ok {
		return false
	}
	for cur := c; cur != nil; cur = cur.parent {
		if cur == sc {
			return true
		}
	}
	return false
}

// Accepts reports whether v is a container instance whose type is c or a
// subtype of c.
func (c *ContainerType) Accepts(v any) bool {
	switch x := v.(type) {
	case *List:
		return x != nil && c.kind == ListKind && x.typ.IsSubtypeOf(c)
	case *Mapping:
		return x != nil && c.kind == MappingKind && x.typ.IsSubtypeOf(c)
	}
	return false
}

// Schema returns {"type":"array","items":…} for lists and
// {"type":"object","additionalProperties":…} for mappings. The result is
// computed once per type.
func (c *ContainerType) Schema() (*js.Schema, error) {
	if !c.Bound() {
		return nil, newError(ErrType, "unbound %s has no schema", c.Name())
	}
	return c.schema.get(func() (*js.Schema, error) {
		elem, err := Schema(c.elem)
		if err != nil {
			return nil, err
		}
		if c.kind == ListKind {
			return &js.Schema{Type: "array", Items: elem}, nil
		}
		return &js.Schema{Type: "object", AdditionalProperties: elem}, nil
	})
}

// Deserialize validates data against the schema, deserializes every entry to
// the element type and builds a *List or *Mapping of type c.
func (c *ContainerType) Deserialize(data any) (any, error) {
	s, err := c.Schema()
	if err != nil {
		return nil, err
	}
	if err := validate(data, s); err != nil {
		return nil, err
	}
	if c.kind == ListKind {
		raw, ok := data.([]any)
		if !ok {
			return nil, newError(ErrType, "%s cannot be built from %T", c.Name(), data)
		}
		items := make([]any, len(raw))
		for i, entry := range raw {
			v, err := Deserialize(entry, c.elem)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		l, err := c.NewList(items...)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	raw, ok := asObject(data)
	if !ok {
		return nil, newError(ErrType, "%s cannot be built from %T", c.Name(), data)
	}
	entries := make([]mappingEntry, 0, raw.Len())
	var derr error
	raw.Range(func(k string, entry any) bool {
		v, err := Deserialize(entry, c.elem)
		if err != nil {
			derr = err
			return false
		}
		entries = append(entries, mappingEntry{key: k, value: v})
		return true
	})
	if derr != nil {
		return nil, derr
	}
	m, err := c.newMappingFromEntries(entries)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (c *ContainerType) instantiable(kind ContainerKind) error {
	if !c.Bound() {
		return newError(ErrType, "cannot instantiate unbound %s", c.Name())
	}
	if c.kind != kind {
		return newError(ErrType, "%s is a %s, not a %s", c.Name(), c.kind, kind)
	}
	return nil
}

// checkElem verifies v against the element type and returns its stored form.
func (c *ContainerType) checkElem(v any) (any, error) {
	if !c.elem.Accepts(v) {
		return nil, newError(ErrType, "%s entries must be of type %s, got %T", c.Name(), c.elem.Name(), v)
	}
	return canonical(v), nil
}
