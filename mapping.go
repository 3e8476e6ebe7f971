package jsonshape

import (
	"reflect"
	"sort"
	"strings"

	"github.com/reoring/jsonshape/ordered"
)

// Mapping is an instance of a bound mapping type: string keys in insertion
// order, every value of the element type. A Mapping is not safe for concurrent
// mutation.
type Mapping struct {
	typ     *ContainerType
	entries *ordered.Map
}

type mappingEntry struct {
	key   string
	value any
}

// NewMapping builds a mapping of type c from src, which may be nil, an
// *ordered.Map, a *Mapping or any Go map. Keys of plain Go maps are taken in
// ascending order. Keys must be strings; each key is checked before its value.
// Construction is atomic.
func (c *ContainerType) NewMapping(src any) (*Mapping, error) {
	if err := c.instantiable(MappingKind); err != nil {
		return nil, err
	}
	var entries []mappingEntry
	switch s := src.(type) {
	case nil:
	case *ordered.Map:
		s.Range(func(k string, v any) bool {
			entries = append(entries, mappingEntry{key: k, value: v})
			return true
		})
	case *Mapping:
		if s != nil {
			s.entries.Range(func(k string, v any) bool {
				entries = append(entries, mappingEntry{key: k, value: v})
				return true
			})
		}
	default:
		rv := reflect.ValueOf(src)
		if rv.Kind() != reflect.Map {
			return nil, newError(ErrType, "%s cannot be built from %T", c.Name(), src)
		}
		keyed := make([]mappingEntry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := c.checkKey(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			keyed = append(keyed, mappingEntry{key: k, value: iter.Value().Interface()})
		}
		sort.Slice(keyed, func(i, j int) bool { return keyed[i].key < keyed[j].key })
		entries = keyed
	}
	return c.newMappingFromEntries(entries)
}

// MustNewMapping is like NewMapping but panics on error.
func (c *ContainerType) MustNewMapping(src any) *Mapping {
	m, err := c.NewMapping(src)
	if err != nil {
		panic(err)
	}
	return m
}

func (c *ContainerType) newMappingFromEntries(entries []mappingEntry) (*Mapping, error) {
	if err := c.instantiable(MappingKind); err != nil {
		return nil, err
	}
	m := ordered.NewMap(len(entries))
	for _, e := range entries {
		cv, err := c.checkElem(e.value)
		if err != nil {
			return nil, err
		}
		m.Set(e.key, cv)
	}
	return &Mapping{typ: c, entries: m}, nil
}

func (c *ContainerType) checkKey(k any) (string, error) {
	s, ok := k.(string)
	if !ok {
		return "", newError(ErrType, "%s keys must be strings, got %T", c.Name(), k)
	}
	return s, nil
}

// Type returns the mapping's type.
func (m *Mapping) Type() *ContainerType { return m.typ }

// Len returns the number of entries.
func (m *Mapping) Len() int { return m.entries.Len() }

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) { return m.entries.Get(key) }

// Set stores v under key. The key must be a string; it is checked before the
// value. Existing keys keep their position.
func (m *Mapping) Set(key any, v any) error {
	k, err := m.typ.checkKey(key)
	if err != nil {
		return err
	}
	cv, err := m.typ.checkElem(v)
	if err != nil {
		return err
	}
	m.entries.Set(k, cv)
	return nil
}

// Delete removes key and reports whether it was present.
func (m *Mapping) Delete(key string) bool { return m.entries.Delete(key) }

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string { return m.entries.Keys() }

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Mapping) Range(fn func(key string, v any) bool) { m.entries.Range(fn) }

// Equal reports whether other has the identical type and the same entries.
// Key order is ignored.
func (m *Mapping) Equal(other *Mapping) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.typ != other.typ || m.entries.Len() != other.entries.Len() {
		return false
	}
	eq := true
	m.entries.Range(func(k string, v any) bool {
		ov, ok := other.entries.Get(k)
		if !ok || !valueEqual(v, ov) {
			eq = false
		}
		return eq
	})
	return eq
}

// Serialize returns the entries serialized into an *ordered.Map in insertion
// order.
func (m *Mapping) Serialize() (any, error) {
	out := ordered.NewMap(m.entries.Len())
	var serr error
	m.entries.Range(func(k string, v any) bool {
		sv, err := Serialize(v)
		if err != nil {
			serr = err
			return false
		}
		out.Set(k, sv)
		return true
	})
	if serr != nil {
		return nil, serr
	}
	return out, nil
}

// String renders the mapping as Mapping[int]({"one": 1}).
func (m *Mapping) String() string {
	b := &strings.Builder{}
	b.WriteString(m.typ.Name())
	b.WriteString("({")
	i := 0
	m.entries.Range(func(k string, v any) bool {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(k))
		b.WriteString(": ")
		b.WriteString(formatValue(v))
		i++
		return true
	})
	b.WriteString("})")
	return b.String()
}
