package jsonshape_test

import (
	"testing"

	json "github.com/goccy/go-json"

	"github.com/reoring/jsonshape"
)

// mustJSON marshals v for byte-level comparisons of schemas and serialized data.
func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %T: %v", v, err)
	}
	return string(b)
}

func schemaJSON(t *testing.T, typ jsonshape.Type) string {
	t.Helper()
	s, err := jsonshape.Schema(typ)
	if err != nil {
		t.Fatalf("schema of %s: %v", typ.Name(), err)
	}
	return mustJSON(t, s)
}

func serializeJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := jsonshape.Serialize(v)
	if err != nil {
		t.Fatalf("serialize %v: %v", v, err)
	}
	return mustJSON(t, data)
}

func hasIssue(iss jsonshape.Issues, code, path string) bool {
	for _, it := range iss {
		if it.Code == code && it.Path == path {
			return true
		}
	}
	return false
}

// bogusType satisfies Type but has no schema or deserializer.
type bogusType struct{}

func (bogusType) Name() string       { return "bogus" }
func (bogusType) Accepts(v any) bool { return false }
