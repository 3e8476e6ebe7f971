// Package jsonshape is a runtime type layer for JSON-serializable data models.
//
// It provides:
//
// - Object types with ordered, typed, required or optional attributes (DeclareObject)
// - Homogeneous List and Mapping containers bound to an element type (ListOf, MappingOf, Derive)
// - Closed enumerations of named constant members (DeclareEnum)
// - The four primitive kinds Integer, Float, Boolean and String, plus UUID
//
// Every declared type describes itself as JSON Schema (Schema), serializes
// instances into plain decoded JSON values (Serialize) and builds instances back
// from decoded values (Deserialize). Deserialize always validates the data
// against the type's schema first and returns Issues, without constructing
// anything, when the data does not conform.
//
// Design policy:
// - The core only sees decoded values: numbers, strings, bools, []any, *ordered.Map or map[string]any.
// - Text encoding lives in jsontext, YAML declarations in modelfile, the CLI under cmd/jsonshape.
// - Types are declared once and are immutable afterwards; instances are not safe for concurrent mutation.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	Example := jsonshape.DeclareObject("Example").
//		Field("integer", jsonshape.Integer).
//		Field("string", jsonshape.String).
//		Field("optional", jsonshape.String).Optional().
//		MustBuild()
//
//	obj, err := Example.New(jsonshape.Attrs{"integer": 1, "string": "foo"})
//	data, err := jsonshape.Serialize(obj) // {"integer":1,"string":"foo"}
//	back, err := jsonshape.DeserializeAs[*jsonshape.Object](data, Example)
package jsonshape
