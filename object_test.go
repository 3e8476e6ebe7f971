package jsonshape_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/jsonshape"
	"github.com/reoring/jsonshape/ordered"
)

func exampleType() *jsonshape.ObjectType {
	return jsonshape.DeclareObject("Example").
		Field("integer", jsonshape.Integer).
		Field("string", jsonshape.String).
		Field("optional", jsonshape.String).Optional().
		MustBuild()
}

func TestObject_RequiredAndOptional(t *testing.T) {
	Example := exampleType()
	obj, err := Example.New(jsonshape.Attrs{"integer": 1, "string": "foo"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := serializeJSON(t, obj); got != `{"integer":1,"string":"foo"}` {
		t.Fatalf("serialize: %s", got)
	}
	if obj.Has("optional") {
		t.Fatalf("omitted optional must be absent")
	}
	if v, err := obj.Get("optional"); err != nil || v != nil {
		t.Fatalf("absent optional: %v %v", v, err)
	}

	_, err = Example.New(jsonshape.Attrs{"integer": 1})
	if !errors.Is(err, jsonshape.ErrType) || !strings.Contains(err.Error(), `"string"`) {
		t.Fatalf("missing required: got %v", err)
	}
}

func TestObject_ConstructionErrors(t *testing.T) {
	Example := exampleType()
	_, err := Example.New(jsonshape.Attrs{"integer": 1, "string": "foo", "zz": 1, "extra": true})
	if !errors.Is(err, jsonshape.ErrType) || !strings.Contains(err.Error(), "extra, zz") {
		t.Fatalf("unexpected names must all be listed: %v", err)
	}
	_, err = Example.New(jsonshape.Attrs{"integer": "1", "string": "foo"})
	if !errors.Is(err, jsonshape.ErrType) || !strings.Contains(err.Error(), "Example.integer must be a int") {
		t.Fatalf("wrong type: %v", err)
	}
	_, err = Example.New(jsonshape.Attrs{"integer": nil, "string": "foo"})
	if !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("nil for required: %v", err)
	}
	obj, err := Example.New(jsonshape.Attrs{"integer": 1, "string": "foo", "optional": nil})
	if err != nil || obj.Has("optional") {
		t.Fatalf("nil for optional means absent: %v", err)
	}
}

func TestObject_Set(t *testing.T) {
	Example := exampleType()
	obj := Example.MustNew(jsonshape.Attrs{"integer": 1, "string": "foo"})

	err := obj.Set("missing", 1)
	if !errors.Is(err, jsonshape.ErrUnknownAttribute) || errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("undeclared name: %v", err)
	}
	if _, err := obj.Get("missing"); !errors.Is(err, jsonshape.ErrUnknownAttribute) {
		t.Fatalf("get undeclared: %v", err)
	}
	if err := obj.Set("integer", "two"); !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("wrong type: %v", err)
	}
	if err := obj.Set("integer", nil); !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("nil on required: %v", err)
	}
	if v, _ := obj.Get("integer"); v != int64(1) {
		t.Fatalf("rejected writes must not apply: %v", v)
	}
	if err := obj.Set("optional", "bar"); err != nil {
		t.Fatalf("set optional: %v", err)
	}
	if got := serializeJSON(t, obj); got != `{"integer":1,"string":"foo","optional":"bar"}` {
		t.Fatalf("serialize: %s", got)
	}
	if err := obj.Set("optional", nil); err != nil {
		t.Fatalf("clear optional: %v", err)
	}
	if obj.Has("optional") {
		t.Fatalf("optional should be absent after clearing")
	}
}

func TestObject_Schema(t *testing.T) {
	want := `{"type":"object","properties":{"integer":{"type":"number"},"string":{"type":"string"},"optional":{"type":"string"}},"required":["integer","string"],"additionalProperties":false}`
	if got := schemaJSON(t, exampleType()); got != want {
		t.Fatalf("schema:\n got %s\nwant %s", got, want)
	}
	AllOptional := jsonshape.DeclareObject("AllOptional").
		Field("note", jsonshape.String).Optional().
		MustBuild()
	if got := schemaJSON(t, AllOptional); got != `{"type":"object","properties":{"note":{"type":"string"}},"additionalProperties":false}` {
		t.Fatalf("required must be omitted when empty: %s", got)
	}
	Empty := jsonshape.DeclareObject("Empty").MustBuild()
	if got := schemaJSON(t, Empty); got != `{"type":"object","properties":{},"additionalProperties":false}` {
		t.Fatalf("empty object schema: %s", got)
	}
}

func TestObject_ValidationPrecedesConstruction(t *testing.T) {
	Example := exampleType()
	data := map[string]any{"integer": 1, "string": "foo", "extra": true}
	v, err := jsonshape.Deserialize(data, Example)
	if v != nil {
		t.Fatalf("no instance may be produced, got %v", v)
	}
	iss, ok := jsonshape.AsIssues(err)
	if !ok || !hasIssue(iss, jsonshape.CodeUnknownKey, "/extra") {
		t.Fatalf("expected unknown_key at /extra, got %v", err)
	}

	_, err = jsonshape.Deserialize(map[string]any{"integer": 1}, Example)
	if iss, ok := jsonshape.AsIssues(err); !ok || !hasIssue(iss, jsonshape.CodeRequired, "/string") {
		t.Fatalf("expected required at /string, got %v", err)
	}
	_, err = jsonshape.Deserialize(map[string]any{"integer": "1", "string": "foo"}, Example)
	if iss, ok := jsonshape.AsIssues(err); !ok || !hasIssue(iss, jsonshape.CodeInvalidType, "/integer") {
		t.Fatalf("expected invalid_type at /integer, got %v", err)
	}
	_, err = jsonshape.Deserialize([]any{}, Example)
	if !jsonshape.IsValidationError(err) {
		t.Fatalf("array for object must fail validation, got %v", err)
	}
}

func TestObject_Deserialize(t *testing.T) {
	Example := exampleType()
	data := ordered.NewMap(2)
	data.Set("string", "foo")
	data.Set("integer", 1.0)
	obj, err := jsonshape.DeserializeAs[*jsonshape.Object](data, Example)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if !obj.Equal(Example.MustNew(jsonshape.Attrs{"integer": 1, "string": "foo"})) {
		t.Fatalf("got %v", obj)
	}
	if got := serializeJSON(t, obj); got != `{"integer":1,"string":"foo"}` {
		t.Fatalf("serialize must follow declaration order: %s", got)
	}
}

func TestObject_Equality(t *testing.T) {
	Example := exampleType()
	Other := jsonshape.DeclareObject("OtherObject").
		Field("integer", jsonshape.Integer).
		Field("string", jsonshape.String).
		Field("optional", jsonshape.String).Optional().
		MustBuild()
	a := Example.MustNew(jsonshape.Attrs{"integer": 1, "string": "foo"})
	b := Example.MustNew(jsonshape.Attrs{"integer": 1, "string": "foo"})
	c := Other.MustNew(jsonshape.Attrs{"integer": 1, "string": "foo"})
	if !a.Equal(b) {
		t.Fatalf("same type and values must be equal")
	}
	if a.Equal(c) {
		t.Fatalf("structurally identical objects of different types must differ")
	}
	_ = b.Set("optional", "x")
	if a.Equal(b) {
		t.Fatalf("differing optional must break equality")
	}
}

func TestObject_String(t *testing.T) {
	obj := exampleType().MustNew(jsonshape.Attrs{"integer": 1, "string": "foo"})
	if got := obj.String(); got != `Example(integer=1, string="foo", optional=nil)` {
		t.Fatalf("string: %s", got)
	}
	attr, ok := obj.Type().Attribute("optional")
	if !ok || attr.String() != "Attribute(type=string, optional=true)" {
		t.Fatalf("attribute: %v", attr)
	}
}

func TestObject_Extends(t *testing.T) {
	Base := jsonshape.DeclareObject("Base").
		Field("id", jsonshape.Integer).
		Field("label", jsonshape.String).
		MustBuild()
	Derived := jsonshape.DeclareObject("Derived").
		Extends(Base).
		Field("extra", jsonshape.Boolean).
		Field("label", jsonshape.String).Optional().
		MustBuild()

	var names []string
	for _, a := range Derived.Attributes() {
		names = append(names, a.Name)
	}
	if got := strings.Join(names, ","); got != "id,label,extra" {
		t.Fatalf("attribute order: %s", got)
	}
	if a, _ := Derived.Attribute("label"); !a.Optional {
		t.Fatalf("redeclared attribute must replace the inherited one")
	}
	if !jsonshape.IsSubtype(Derived, Base) || jsonshape.IsSubtype(Base, Derived) {
		t.Fatalf("subtype relation must follow Extends")
	}

	Holder := jsonshape.DeclareObject("Holder").Field("item", Base).MustBuild()
	d := Derived.MustNew(jsonshape.Attrs{"id": 1, "extra": true})
	if _, err := Holder.New(jsonshape.Attrs{"item": d}); err != nil {
		t.Fatalf("derived instance in a base slot: %v", err)
	}
	if !Base.Accepts(d) || Derived.Accepts(Base.MustNew(jsonshape.Attrs{"id": 1, "label": "x"})) {
		t.Fatalf("accepts must follow the subtype relation")
	}
}

func TestObject_BuildErrors(t *testing.T) {
	_, err := jsonshape.DeclareObject("Dup").
		Field("a", jsonshape.Integer).
		Field("a", jsonshape.String).
		Build()
	if !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("duplicate attribute: %v", err)
	}
	_, err = jsonshape.DeclareObject("Bad").Field("a", bogusType{}).Build()
	if !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("unsupported attribute type: %v", err)
	}
	_, err = jsonshape.DeclareObject("Unbound").Field("a", jsonshape.MappingType).Build()
	if !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("unbound container attribute: %v", err)
	}
	_, err = jsonshape.DeclareObject("").Build()
	if !errors.Is(err, jsonshape.ErrType) {
		t.Fatalf("missing name: %v", err)
	}
}

func TestObject_NestedRoundTrip(t *testing.T) {
	Point := jsonshape.DeclareObject("Point").
		Field("x", jsonshape.Float).
		Field("y", jsonshape.Float).
		MustBuild()
	Shape := jsonshape.DeclareObject("Shape").
		Field("name", jsonshape.String).
		Field("points", jsonshape.MustListOf(Point)).
		Field("tags", jsonshape.MustMappingOf(jsonshape.String)).Optional().
		Field("closed", jsonshape.Boolean).
		MustBuild()

	points := jsonshape.MustListOf(Point).MustNewList(
		Point.MustNew(jsonshape.Attrs{"x": 0.0, "y": 0.0}),
		Point.MustNew(jsonshape.Attrs{"x": 1.5, "y": 2.0}),
	)
	s := Shape.MustNew(jsonshape.Attrs{"name": "line", "points": points, "closed": false})
	data, err := jsonshape.Serialize(s)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if got := mustJSON(t, data); got != `{"name":"line","points":[{"x":0,"y":0},{"x":1.5,"y":2}],"closed":false}` {
		t.Fatalf("serialized: %s", got)
	}
	back, err := jsonshape.Deserialize(data, Shape)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if !back.(*jsonshape.Object).Equal(s) {
		t.Fatalf("round trip: %v != %v", back, s)
	}
}
