package jsonshape

import (
	"github.com/google/uuid"

	"github.com/reoring/jsonshape/internal/jsonvalue"
	js "github.com/reoring/jsonshape/jsonschema"
)

// EnumType is a closed set of named members, each wrapping a constant
// serializable value. Members are looked up by name or by serialized value.
//
// Value uniqueness is only enforced among members whose serialized value is a
// scalar (number, string or bool). Two members wrapping equal lists or objects
// are both accepted; FromValue then returns the first one declared.
type EnumType struct {
	name    string
	members []*Member
	byName  map[string]*Member
	byValue map[any]*Member
	schema  schemaCache
}

// Member is one named constant of an EnumType. Members are unique pointers, so
// == compares them.
type Member struct {
	enum  *EnumType
	name  string
	value any
	raw   any // serialized value
}

type enumBuilder struct {
	name    string
	members []*Member
	err     error
}

// DeclareEnum starts the declaration of an enum type. Members keep their
// registration order.
//
//	Color := jsonshape.DeclareEnum("Color").
//		Member("red", "r").
//		Member("green", "g").
//		MustBuild()
func DeclareEnum(name string) *enumBuilder {
	return &enumBuilder{name: name}
}

// Member registers a member wrapping value, which must be a primitive, a
// uuid.UUID or a Serializer.
func (b *enumBuilder) Member(name string, value any) *enumBuilder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = newError(ErrType, "enum %s declares a member without a name", b.name)
		return b
	}
	for _, m := range b.members {
		if m.name == name {
			b.err = newError(ErrType, "enum %s declares member %q twice", b.name, name)
			return b
		}
	}
	if _, ok := value.(*EnumType); ok {
		b.err = newError(ErrType, "enum %s member %q cannot wrap an enum type", b.name, name)
		return b
	}
	raw, err := Serialize(value)
	if err != nil {
		b.err = newError(ErrType, "enum %s member %q: %s", b.name, name, errMessage(err))
		return b
	}
	b.members = append(b.members, &Member{name: name, value: canonical(value), raw: raw})
	return b
}

// Build validates the declaration and returns the enum type.
func (b *enumBuilder) Build() (*EnumType, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, newError(ErrType, "enum type needs a name")
	}
	if len(b.members) == 0 {
		return nil, newError(ErrType, "enum %s has no members", b.name)
	}
	t := &EnumType{
		name:    b.name,
		members: make([]*Member, 0, len(b.members)),
		byName:  make(map[string]*Member, len(b.members)),
		byValue: make(map[any]*Member, len(b.members)),
	}
	for _, m := range b.members {
		mm := &Member{enum: t, name: m.name, value: m.value, raw: m.raw}
		if key, ok := hashKey(m.raw); ok {
			if prev, dup := t.byValue[key]; dup {
				return nil, newError(ErrType, "enum %s members %q and %q share the value %v", b.name, prev.name, m.name, m.raw)
			}
			t.byValue[key] = mm
		}
		t.byName[m.name] = mm
		t.members = append(t.members, mm)
	}
	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *enumBuilder) MustBuild() *EnumType {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// hashKey returns the by-value index key of a serialized value. Only scalars
// are indexed; integral numbers share a key regardless of spelling.
func hashKey(raw any) (any, bool) {
	switch x := raw.(type) {
	case bool, string:
		return x, true
	}
	if i, ok := jsonvalue.Integer(raw); ok {
		return i, true
	}
	if f, ok := jsonvalue.Number(raw); ok {
		return f, true
	}
	return nil, false
}

// Name returns the declared name.
func (t *EnumType) Name() string { return t.name }

func (t *EnumType) String() string { return t.name }

// Accepts reports whether v is a member of t.
func (t *EnumType) Accepts(v any) bool {
	m, ok := v.(*Member)
	return ok && m != nil && m.enum == t
}

// Member looks a member up by name. A miss wraps ErrNotFound.
func (t *EnumType) Member(name string) (*Member, error) {
	if m, ok := t.byName[name]; ok {
		return m, nil
	}
	return nil, newError(ErrNotFound, "%s has no member %q", t.name, name)
}

// MustMember is like Member but panics on error.
func (t *EnumType) MustMember(name string) *Member {
	m, err := t.Member(name)
	if err != nil {
		panic(err)
	}
	return m
}

// Members returns the members in declaration order.
func (t *EnumType) Members() []*Member {
	out := make([]*Member, len(t.members))
	copy(out, t.members)
	return out
}

// Names returns the member names in declaration order.
func (t *EnumType) Names() []string {
	out := make([]string, len(t.members))
	for i, m := range t.members {
		out[i] = m.name
	}
	return out
}

// FromValue returns the member whose value equals v. Typed instances
// (containers, objects, members, uuid.UUID and other Serializers) compare by
// value equality against the wrapped values, so a list of another derivation
// level never matches. Decoded data compares against the serialized member
// values: scalars through the index, lists and objects one member at a time.
// A miss wraps ErrNoValue.
func (t *EnumType) FromValue(v any) (*Member, error) {
	switch v.(type) {
	case Serializer, uuid.UUID:
		want := canonical(v)
		for _, m := range t.members {
			if valueEqual(m.value, want) {
				return m, nil
			}
		}
		return nil, t.noValue(v)
	}
	if key, ok := hashKey(v); ok {
		if m, ok := t.byValue[key]; ok {
			return m, nil
		}
		return nil, t.noValue(v)
	}
	for _, m := range t.members {
		if _, indexed := hashKey(m.raw); indexed {
			continue
		}
		if jsonvalue.Equal(m.raw, v) {
			return m, nil
		}
	}
	return nil, t.noValue(v)
}

func (t *EnumType) noValue(v any) error {
	return newError(ErrNoValue, "%s has no member with value %s", t.name, formatValue(v))
}

// Schema returns {"enum":[…]} listing the serialized member values in
// declaration order. The listed values are not shared with the lookup index.
func (t *EnumType) Schema() (*js.Schema, error) {
	return t.schema.get(func() (*js.Schema, error) {
		values := make([]any, len(t.members))
		for i, m := range t.members {
			raw, err := m.Serialize()
			if err != nil {
				return nil, err
			}
			values[i] = raw
		}
		return &js.Schema{Enum: values}, nil
	})
}

// Serialize always fails: only members serialize.
func (t *EnumType) Serialize() (any, error) {
	return nil, newError(ErrType, "enum type %s cannot be serialized; serialize one of its members", t.name)
}

// Deserialize validates data against the enum schema, then resolves the
// member by its serialized value.
func (t *EnumType) Deserialize(data any) (any, error) {
	s, err := t.Schema()
	if err != nil {
		return nil, err
	}
	if err := validate(data, s); err != nil {
		return nil, err
	}
	m, err := t.FromValue(data)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the member name.
func (m *Member) Name() string { return m.name }

// Value returns the wrapped value.
func (m *Member) Value() any { return m.value }

// Enum returns the owning enum type.
func (m *Member) Enum() *EnumType { return m.enum }

// Serialize returns the serialized form of the wrapped value.
func (m *Member) Serialize() (any, error) { return Serialize(m.value) }

// Schema returns the schema of the owning enum type.
func (m *Member) Schema() (*js.Schema, error) { return m.enum.Schema() }

// Deserialize resolves data through the owning enum type; the result may be any
// member of it.
func (m *Member) Deserialize(data any) (any, error) { return m.enum.Deserialize(data) }

// String renders the member as EnumName.member.
func (m *Member) String() string { return m.enum.name + "." + m.name }
