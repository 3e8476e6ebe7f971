// Package modelfile declares jsonshape types from YAML.
//
// A model file lists types in dependency order; a type may only reference
// builtins and types declared before it:
//
//	types:
//	  - name: Point
//	    object:
//	      fields:
//	        - {name: x, type: float}
//	        - {name: y, type: float}
//	  - name: Color
//	    enum:
//	      - {name: red, value: r}
//	      - {name: origin, value: [0, 0], type: {list: int}}
//	  - name: Path
//	    list: Point
//	  - name: Shape
//	    object:
//	      fields:
//	        - {name: points, type: Path}
//	        - {name: tags, type: {mapping: string}, optional: true}
//
// Builtin type names are int, float, bool, string and uuid. A named list or
// mapping declaration derives a named subtype of the bound container.
package modelfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonshape"
)

// File is the document layout of a model file.
type File struct {
	Types []Decl `yaml:"types"`
}

// Decl declares one named type. Exactly one of Object, Enum, List and Mapping
// is set.
type Decl struct {
	Name    string       `yaml:"name"`
	Object  *ObjectDecl  `yaml:"object,omitempty"`
	Enum    []MemberDecl `yaml:"enum,omitempty"`
	List    *TypeRef     `yaml:"list,omitempty"`
	Mapping *TypeRef     `yaml:"mapping,omitempty"`
}

// ObjectDecl declares an object type.
type ObjectDecl struct {
	Extends string      `yaml:"extends,omitempty"`
	Fields  []FieldDecl `yaml:"fields"`
}

// FieldDecl declares one object attribute. Fields are required unless
// Optional is set.
type FieldDecl struct {
	Name     string  `yaml:"name"`
	Type     TypeRef `yaml:"type"`
	Optional bool    `yaml:"optional,omitempty"`
}

// MemberDecl declares one enum member. Scalar values need no Type; list and
// mapping values are deserialized into Type.
type MemberDecl struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
	Type  *TypeRef  `yaml:"type,omitempty"`
}

// TypeRef names a type: a builtin or declared name, or an inline container
// written as {list: <ref>} or {mapping: <ref>}.
type TypeRef struct {
	Name    string
	List    *TypeRef
	Mapping *TypeRef
}

type inlineRef struct {
	List    *TypeRef `yaml:"list"`
	Mapping *TypeRef `yaml:"mapping"`
}

// UnmarshalYAML accepts a scalar name or an inline container mapping.
func (r *TypeRef) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return fmt.Errorf("line %d: empty type reference", n.Line)
		}
		r.Name = n.Value
		return nil
	case yaml.MappingNode:
		var in inlineRef
		if err := n.Decode(&in); err != nil {
			return err
		}
		if (in.List == nil) == (in.Mapping == nil) {
			return fmt.Errorf("line %d: inline type needs exactly one of list or mapping", n.Line)
		}
		r.List, r.Mapping = in.List, in.Mapping
		return nil
	}
	return fmt.Errorf("line %d: type reference must be a name or a {list|mapping: ...} mapping", n.Line)
}

// String renders the reference the way jsonshape names the resolved type.
func (r TypeRef) String() string {
	switch {
	case r.List != nil:
		return "List[" + r.List.String() + "]"
	case r.Mapping != nil:
		return "Mapping[" + r.Mapping.String() + "]"
	}
	return r.Name
}

var builtins = map[string]jsonshape.Type{
	"int":    jsonshape.Integer,
	"float":  jsonshape.Float,
	"bool":   jsonshape.Boolean,
	"string": jsonshape.String,
	"uuid":   jsonshape.UUID,
}

// Registry holds the types declared by a model file.
type Registry struct {
	types map[string]jsonshape.Type
	order []string
}

// Load parses a model file and declares its types in order.
func Load(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("modelfile: empty document")
		}
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	return Declare(f)
}

// LoadFile reads and loads the model file at path.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Declare builds the types of an already decoded File.
func Declare(f File) (*Registry, error) {
	reg := &Registry{types: make(map[string]jsonshape.Type, len(f.Types))}
	for i, d := range f.Types {
		if d.Name == "" {
			return nil, fmt.Errorf("modelfile: type #%d has no name", i+1)
		}
		if _, ok := builtins[d.Name]; ok {
			return nil, fmt.Errorf("modelfile: type %q shadows a builtin", d.Name)
		}
		if _, ok := reg.types[d.Name]; ok {
			return nil, fmt.Errorf("modelfile: type %q declared twice", d.Name)
		}
		t, err := reg.declare(d)
		if err != nil {
			return nil, fmt.Errorf("modelfile: type %q: %w", d.Name, err)
		}
		reg.types[d.Name] = t
		reg.order = append(reg.order, d.Name)
	}
	return reg, nil
}

// Lookup returns a declared or builtin type by name.
func (r *Registry) Lookup(name string) (jsonshape.Type, bool) {
	if t, ok := r.types[name]; ok {
		return t, true
	}
	t, ok := builtins[name]
	return t, ok
}

// Names returns the declared type names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve turns a type reference into a type.
func (r *Registry) Resolve(ref TypeRef) (jsonshape.Type, error) {
	switch {
	case ref.List != nil:
		elem, err := r.Resolve(*ref.List)
		if err != nil {
			return nil, err
		}
		return jsonshape.ListOf(elem)
	case ref.Mapping != nil:
		elem, err := r.Resolve(*ref.Mapping)
		if err != nil {
			return nil, err
		}
		return jsonshape.MappingOf(elem)
	}
	if t, ok := r.Lookup(ref.Name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", ref.Name)
}

func (r *Registry) declare(d Decl) (jsonshape.Type, error) {
	kinds := 0
	for _, set := range []bool{d.Object != nil, d.Enum != nil, d.List != nil, d.Mapping != nil} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.New("needs exactly one of object, enum, list or mapping")
	}
	switch {
	case d.Object != nil:
		return r.declareObject(d.Name, d.Object)
	case d.Enum != nil:
		return r.declareEnum(d.Name, d.Enum)
	case d.List != nil:
		return r.declareContainer(d.Name, TypeRef{List: d.List})
	default:
		return r.declareContainer(d.Name, TypeRef{Mapping: d.Mapping})
	}
}

func (r *Registry) declareObject(name string, o *ObjectDecl) (jsonshape.Type, error) {
	b := jsonshape.DeclareObject(name)
	if o.Extends != "" {
		base, ok := r.types[o.Extends]
		ot, isObject := base.(*jsonshape.ObjectType)
		if !ok || !isObject {
			return nil, fmt.Errorf("extends %q, which is not a declared object", o.Extends)
		}
		b.Extends(ot)
	}
	for _, f := range o.Fields {
		t, err := r.Resolve(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		step := b.Field(f.Name, t)
		if f.Optional {
			step.Optional()
		}
	}
	return b.Build()
}

func (r *Registry) declareEnum(name string, members []MemberDecl) (jsonshape.Type, error) {
	b := jsonshape.DeclareEnum(name)
	for _, m := range members {
		v, err := r.memberValue(m)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Name, err)
		}
		b.Member(m.Name, v)
	}
	return b.Build()
}

func (r *Registry) memberValue(m MemberDecl) (any, error) {
	if m.Value.Kind == 0 {
		return nil, errors.New("missing value")
	}
	raw, err := nodeValue(&m.Value)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("line %d: null is not a valid value", m.Value.Line)
	}
	if m.Type == nil {
		switch raw.(type) {
		case int64, float64, bool, string:
			return raw, nil
		}
		return nil, fmt.Errorf("line %d: non-scalar value needs a type", m.Value.Line)
	}
	t, err := r.Resolve(*m.Type)
	if err != nil {
		return nil, err
	}
	return jsonshape.Deserialize(raw, t)
}

func (r *Registry) declareContainer(name string, ref TypeRef) (jsonshape.Type, error) {
	t, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return t.(*jsonshape.ContainerType).Derive(name)
}
