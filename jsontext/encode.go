package jsontext

import (
	j "github.com/goccy/go-json"

	"github.com/reoring/jsonshape"
)

// Encode writes decoded data as compact JSON. *ordered.Map keeps its key
// order.
func Encode(v any) ([]byte, error) {
	return j.Marshal(v)
}

// EncodeIndent is like Encode but indents with two spaces.
func EncodeIndent(v any) ([]byte, error) {
	return j.MarshalIndent(v, "", "  ")
}

// Marshal serializes a typed value and encodes the result.
func Marshal(v any) ([]byte, error) {
	data, err := jsonshape.Serialize(v)
	if err != nil {
		return nil, err
	}
	return Encode(data)
}

// Unmarshal decodes JSON text and deserializes it into an instance of t.
// Decoding problems and schema violations are both returned as
// jsonshape.Issues.
func Unmarshal(data []byte, t jsonshape.Type, opts ...Options) (any, error) {
	raw, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}
	return jsonshape.Deserialize(raw, t)
}

// UnmarshalAs is Unmarshal with the result asserted to T.
func UnmarshalAs[T any](data []byte, t jsonshape.Type, opts ...Options) (T, error) {
	var zero T
	raw, err := Decode(data, opts...)
	if err != nil {
		return zero, err
	}
	return jsonshape.DeserializeAs[T](raw, t)
}
