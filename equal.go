package jsonshape

import (
	"reflect"
)

// valueEqual compares two stored values: typed instances by their Equal
// methods, canonical primitives with ==.
func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *List:
		y, ok := b.(*List)
		return ok && x.Equal(y)
	case *Mapping:
		y, ok := b.(*Mapping)
		return ok && x.Equal(y)
	case *Object:
		y, ok := b.(*Object)
		return ok && x.Equal(y)
	case *Member:
		y, ok := b.(*Member)
		return ok && x == y
	case int64, float64, bool, string:
		return a == b
	}
	if eq, ok := a.(interface{ Equal(any) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
