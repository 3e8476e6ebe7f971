package jsonshape

import (
	"strings"
)

// List is an instance of a bound list type. Every element satisfies the
// element type at all times; rejected writes leave the list unchanged.
// A List is not safe for concurrent mutation.
type List struct {
	typ   *ContainerType
	items []any
}

// NewList builds a list of type c from items. Construction is atomic: the
// first mismatching element fails it with ErrType.
func (c *ContainerType) NewList(items ...any) (*List, error) {
	if err := c.instantiable(ListKind); err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		cv, err := c.checkElem(v)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return &List{typ: c, items: out}, nil
}

// MustNewList is like NewList but panics on error.
func (c *ContainerType) MustNewList(items ...any) *List {
	l, err := c.NewList(items...)
	if err != nil {
		panic(err)
	}
	return l
}

// New builds an instance of c from src: a []any for lists, a map or
// *ordered.Map for mappings. A nil src yields an empty instance.
func (c *ContainerType) New(src any) (any, error) {
	if c.kind == MappingKind {
		m, err := c.NewMapping(src)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	var items []any
	switch s := src.(type) {
	case nil:
	case []any:
		items = s
	case *List:
		if s != nil {
			items = s.items
		}
	default:
		return nil, newError(ErrType, "%s cannot be built from %T", c.Name(), src)
	}
	l, err := c.NewList(items...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Type returns the list's type.
func (l *List) Type() *ContainerType { return l.typ }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.items) }

// Get returns the element at i.
func (l *List) Get(i int) (any, error) {
	if err := l.checkIndex(i, len(l.items)); err != nil {
		return nil, err
	}
	return l.items[i], nil
}

// Set replaces the element at i.
func (l *List) Set(i int, v any) error {
	cv, err := l.typ.checkElem(v)
	if err != nil {
		return err
	}
	if err := l.checkIndex(i, len(l.items)); err != nil {
		return err
	}
	l.items[i] = cv
	return nil
}

// Insert places v before index i; i may equal Len to append.
func (l *List) Insert(i int, v any) error {
	cv, err := l.typ.checkElem(v)
	if err != nil {
		return err
	}
	if err := l.checkIndex(i, len(l.items)+1); err != nil {
		return err
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = cv
	return nil
}

// Append adds v at the end.
func (l *List) Append(v any) error {
	return l.Insert(len(l.items), v)
}

// Delete removes the element at i.
func (l *List) Delete(i int) error {
	if err := l.checkIndex(i, len(l.items)); err != nil {
		return err
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

// Items returns a copy of the elements.
func (l *List) Items() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Equal reports whether other has the identical type and equal elements.
func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.typ != other.typ || len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !valueEqual(l.items[i], other.items[i]) {
			return false
		}
	}
	return true
}

// Serialize returns the elements serialized in order.
func (l *List) Serialize() (any, error) {
	out := make([]any, len(l.items))
	for i, v := range l.items {
		sv, err := Serialize(v)
		if err != nil {
			return nil, err
		}
		out[i] = sv
	}
	return out, nil
}

// String renders the list as List[int]([1, 2, 3]).
func (l *List) String() string {
	b := &strings.Builder{}
	b.WriteString(l.typ.Name())
	b.WriteString("([")
	for i, v := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatValue(v))
	}
	b.WriteString("])")
	return b.String()
}

func (l *List) checkIndex(i, limit int) error {
	if i < 0 || i >= limit {
		return newError(ErrIndexOutOfRange, "%s index %d out of range [0:%d)", l.typ.Name(), i, limit)
	}
	return nil
}
