// Package jsonvalue classifies and compares decoded JSON values.
//
// Decoded data reaches the core in several equivalent spellings: numbers as Go
// integer kinds, float64 or json.Number, objects as *ordered.Map or
// map[string]any. The helpers here treat equivalent spellings as equal.
package jsonvalue

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"

	"github.com/reoring/jsonshape/ordered"
)

// JSON kinds reported by Kind.
const (
	KindNull    = "null"
	KindBoolean = "boolean"
	KindNumber  = "number"
	KindString  = "string"
	KindArray   = "array"
	KindObject  = "object"
)

// Kind returns the JSON kind of v, or "" when v is not a decoded JSON value.
// map[any]any counts as an object; callers check its keys separately.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBoolean
	case string:
		return KindString
	case []any:
		return KindArray
	case *ordered.Map, map[string]any, map[any]any:
		return KindObject
	}
	if _, ok := Number(v); ok {
		return KindNumber
	}
	return ""
}

// Number returns v as float64 when v is a Go numeric kind or json.Number.
// bool is never a number.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Integer returns v as int64 when v is a number with no fractional part.
func Integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := Number(v)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Equal reports whether a and b denote the same JSON value. Numbers compare by
// value across spellings; objects compare by key set, ignoring order.
func Equal(a, b any) bool {
	if na, ok := Number(a); ok {
		nb, ok := Number(b)
		if !ok {
			return false
		}
		ia, aInt := Integer(a)
		ib, bInt := Integer(b)
		if aInt && bInt {
			return ia == ib
		}
		return na == nb
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *ordered.Map, map[string]any:
		ma, _ := ordered.From(x)
		mb, ok := ordered.From(b)
		if !ok || ma.Len() != mb.Len() {
			return false
		}
		equal := true
		ma.Range(func(k string, va any) bool {
			vb, ok := mb.Get(k)
			if !ok || !Equal(va, vb) {
				equal = false
			}
			return equal
		})
		return equal
	}
	return reflect.DeepEqual(a, b)
}
