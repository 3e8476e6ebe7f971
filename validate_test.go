package jsonshape_test

import (
	"errors"
	"testing"

	"github.com/reoring/jsonshape"
	js "github.com/reoring/jsonshape/jsonschema"
)

func TestSetValidator_ReplacesAndRestores(t *testing.T) {
	defer jsonshape.UseDefaultValidator()
	Example := exampleType()

	calls := 0
	jsonshape.SetValidator(jsonshape.ValidatorFunc(func(instance any, s *js.Schema) error {
		calls++
		return errors.New("boom")
	}))
	v, err := jsonshape.Deserialize(map[string]any{"integer": 1, "string": "foo"}, Example)
	if v != nil || calls != 1 {
		t.Fatalf("validator must run before construction: v=%v calls=%d", v, calls)
	}
	iss, ok := jsonshape.AsIssues(err)
	if !ok || iss[0].Code != jsonshape.CodeParseError || iss[0].Cause == nil {
		t.Fatalf("foreign validator errors become parse_error issues: %v", err)
	}

	jsonshape.SetValidator(nil)
	if _, err := jsonshape.Deserialize(map[string]any{"integer": 1, "string": "foo"}, Example); err == nil {
		t.Fatalf("SetValidator(nil) must keep the current validator")
	}

	jsonshape.UseDefaultValidator()
	if _, err := jsonshape.Deserialize(map[string]any{"integer": 1, "string": "foo"}, Example); err != nil {
		t.Fatalf("default validator: %v", err)
	}
}

func TestSetValidator_PassThroughIssues(t *testing.T) {
	defer jsonshape.UseDefaultValidator()
	want := jsonshape.Issues{{Path: "/x", Code: jsonshape.CodeRequired}}
	jsonshape.SetValidator(jsonshape.ValidatorFunc(func(any, *js.Schema) error { return want }))
	_, err := jsonshape.Deserialize([]any{}, jsonshape.MustListOf(jsonshape.Integer))
	iss, ok := jsonshape.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Path != "/x" {
		t.Fatalf("issues must pass through unchanged: %v", err)
	}
}

func TestDefaultValidator(t *testing.T) {
	v := jsonshape.DefaultValidator()
	cases := []struct {
		name     string
		instance any
		schema   *js.Schema
		code     string
		path     string
	}{
		{"integer rejects fraction", 1.5, &js.Schema{Type: "integer"}, jsonshape.CodeInvalidType, "/"},
		{"number rejects bool", true, &js.Schema{Type: "number"}, jsonshape.CodeInvalidType, "/"},
		{"non-string keys", map[any]any{1: 1}, &js.Schema{Type: "object"}, jsonshape.CodeInvalidType, "/"},
		{"nested item", []any{[]any{"a"}}, &js.Schema{Type: "array", Items: &js.Schema{Type: "array", Items: &js.Schema{Type: "number"}}}, jsonshape.CodeInvalidType, "/0/0"},
		{"escaped key", map[string]any{"a/b": 1}, &js.Schema{Type: "object", AdditionalProperties: false}, jsonshape.CodeUnknownKey, "/a~1b"},
		{"additional schema", map[string]any{"k": "v"}, &js.Schema{Type: "object", AdditionalProperties: &js.Schema{Type: "number"}}, jsonshape.CodeInvalidType, "/k"},
		{"enum", 3, &js.Schema{Enum: []any{1, 2}}, jsonshape.CodeInvalidEnum, "/"},
		{"uuid format", "nope", &js.Schema{Type: "string", Format: "uuid"}, jsonshape.CodeInvalidFormat, "/"},
	}
	for _, c := range cases {
		err := v.Validate(c.instance, c.schema)
		iss, ok := jsonshape.AsIssues(err)
		if !ok || !hasIssue(iss, c.code, c.path) {
			t.Fatalf("%s: expected %s at %s, got %v", c.name, c.code, c.path, err)
		}
	}
	if err := v.Validate(map[string]any{"n": 2}, &js.Schema{Type: "object", Properties: map[string]*js.Schema{"n": {Type: "integer"}}}); err != nil {
		t.Fatalf("conforming instance: %v", err)
	}
}

func TestIssues_Message(t *testing.T) {
	_, err := jsonshape.Deserialize("x", jsonshape.MustListOf(jsonshape.Integer))
	iss, ok := jsonshape.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", err)
	}
	if iss[0].Message == "" || iss[0].Params["expected"] != "array" || iss[0].Params["got"] != "string" {
		t.Fatalf("issue details: %+v", iss[0])
	}
	if got := iss.Error(); got != "invalid_type at /" {
		t.Fatalf("summary: %s", got)
	}
}
