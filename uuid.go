package jsonshape

import (
	"github.com/google/uuid"

	js "github.com/reoring/jsonshape/jsonschema"
)

// UUID types slots holding a uuid.UUID. Values serialize to the canonical
// hyphenated lower-case form; Deserialize accepts any form uuid.Parse accepts,
// including upper-case and 32 hex digits without hyphens.
var UUID Serializable = uuidType{}

var uuidSchema = &js.Schema{Type: "string", Format: "uuid"}

type uuidType struct{}

func (uuidType) Name() string { return "UUID" }

func (uuidType) String() string { return "UUID" }

func (uuidType) Accepts(v any) bool {
	_, ok := v.(uuid.UUID)
	return ok
}

func (uuidType) Schema() (*js.Schema, error) { return uuidSchema, nil }

func (uuidType) Deserialize(data any) (any, error) {
	if err := validate(data, uuidSchema); err != nil {
		return nil, err
	}
	s, _ := data.(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, newError(ErrType, "invalid UUID %q: %v", s, err)
	}
	return id, nil
}
