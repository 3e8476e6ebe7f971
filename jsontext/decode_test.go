package jsontext_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/reoring/jsonshape"
	"github.com/reoring/jsonshape/jsontext"
	"github.com/reoring/jsonshape/ordered"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	in := `{"zeta":1,"alpha":[true,null,"x"],"mid":{"b":2.5,"a":-3}}`
	v, err := jsontext.Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := v.(*ordered.Map)
	if !ok {
		t.Fatalf("object must decode to *ordered.Map, got %T", v)
	}
	if got := strings.Join(m.Keys(), ","); got != "zeta,alpha,mid" {
		t.Fatalf("keys: %s", got)
	}
	if n, _ := m.Get("zeta"); n != json.Number("1") {
		t.Fatalf("numbers decode to json.Number, got %T %v", n, n)
	}
	out, err := jsontext.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != in {
		t.Fatalf("round trip:\n got %s\nwant %s", out, in)
	}
}

func TestDecode_Scalars(t *testing.T) {
	cases := map[string]any{
		`"s"`:   "s",
		`true`:  true,
		`null`:  nil,
		`12345`: json.Number("12345"),
		` 1e3 `: json.Number("1e3"),
	}
	for in, want := range cases {
		v, err := jsontext.Decode([]byte(in))
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if v != want {
			t.Fatalf("%s: got %#v want %#v", in, v, want)
		}
	}
}

func TestDecode_DuplicateKeys(t *testing.T) {
	_, err := jsontext.Decode([]byte(`{"a":1,"b":{"c":1,"c":2},"a":3}`))
	iss, ok := jsonshape.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two duplicate_key issues, got %v", err)
	}
	if iss[0].Code != jsonshape.CodeDuplicateKey || iss[0].Path != "/b/c" || iss[1].Path != "/a" {
		t.Fatalf("issues: %+v", iss)
	}

	v, err := jsontext.Decode([]byte(`{"a":1,"a":3}`), jsontext.Options{AllowDuplicateKeys: true})
	if err != nil {
		t.Fatalf("allowed duplicates: %v", err)
	}
	if a, _ := v.(*ordered.Map).Get("a"); a != json.Number("3") {
		t.Fatalf("last value wins, got %v", a)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	in := []byte(`{"a":[[1]]}`)
	if _, err := jsontext.Decode(in, jsontext.Options{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 is within the limit: %v", err)
	}
	_, err := jsontext.Decode(in, jsontext.Options{MaxDepth: 2})
	iss, ok := jsonshape.AsIssues(err)
	if !ok || iss[0].Code != jsonshape.CodeTooDeep || iss[0].Path != "/a/0" {
		t.Fatalf("expected too_deep at /a/0, got %v", err)
	}
	deep := strings.Repeat("[", jsontext.DefaultMaxDepth+1) + strings.Repeat("]", jsontext.DefaultMaxDepth+1)
	if _, err := jsontext.Decode([]byte(deep)); err == nil {
		t.Fatalf("default limit must apply")
	}
	if _, err := jsontext.Decode([]byte(deep), jsontext.Options{MaxDepth: -1}); err != nil {
		t.Fatalf("negative MaxDepth disables the check: %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{``, `{"a":}`, `[1,2`, `{"a":1} x`, `1 2`} {
		_, err := jsontext.Decode([]byte(in))
		iss, ok := jsonshape.AsIssues(err)
		if !ok || iss[0].Code != jsonshape.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
	}
}

func TestUnmarshal_Typed(t *testing.T) {
	Example := jsonshape.DeclareObject("Example").
		Field("integer", jsonshape.Integer).
		Field("string", jsonshape.String).
		Field("optional", jsonshape.String).Optional().
		MustBuild()

	obj, err := jsontext.UnmarshalAs[*jsonshape.Object]([]byte(`{"string":"foo","integer":1}`), Example)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := jsontext.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"integer":1,"string":"foo"}` {
		t.Fatalf("marshal: %s", out)
	}

	_, err = jsontext.Unmarshal([]byte(`{"integer":1,"string":"foo","extra":true}`), Example)
	if iss, ok := jsonshape.AsIssues(err); !ok || iss[0].Code != jsonshape.CodeUnknownKey {
		t.Fatalf("expected unknown_key, got %v", err)
	}
	_, err = jsontext.Unmarshal([]byte(`{"integer":1,"integer":2,"string":"foo"}`), Example)
	if iss, ok := jsonshape.AsIssues(err); !ok || iss[0].Code != jsonshape.CodeDuplicateKey {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
}

func TestUnmarshal_BigIntegers(t *testing.T) {
	IntList := jsonshape.MustListOf(jsonshape.Integer)
	v, err := jsontext.Unmarshal([]byte(`[9007199254740993]`), IntList)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, _ := v.(*jsonshape.List).Get(0)
	if got != int64(9007199254740993) {
		t.Fatalf("integer precision lost: %v", got)
	}
}

func TestMarshal_Unsupported(t *testing.T) {
	if _, err := jsontext.Marshal([]byte("x")); !errors.Is(err, jsonshape.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestEncodeIndent(t *testing.T) {
	m := ordered.NewMap(1)
	m.Set("a", []any{1})
	out, err := jsontext.EncodeIndent(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), "\n  \"a\"") {
		t.Fatalf("expected indentation, got %s", out)
	}
}
