package jsonshape

import (
	"fmt"
	"strconv"
)

// formatValue renders a stored value for String methods.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
