package jsonshape

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error returned by the core wraps exactly one of them
// (or is Issues), so callers can branch with errors.Is.
var (
	// ErrType reports a value of the wrong runtime type at a typed slot.
	ErrType = errors.New("type mismatch")
	// ErrUnknownAttribute reports access to a name outside an object shape.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrNotFound reports an enum member name that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoValue reports an enum value that matches no member.
	ErrNoValue = errors.New("no member with value")
	// ErrUnsupportedType reports a value or type outside the serializable set.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrIndexOutOfRange reports a list index outside the list bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
)

type shapeError struct {
	kind error
	msg  string
}

func (e *shapeError) Error() string { return "jsonshape: " + e.msg }
func (e *shapeError) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &shapeError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// errMessage returns err's text without the package prefix, for nesting one
// error's description inside another.
func errMessage(err error) string {
	var se *shapeError
	if errors.As(err, &se) {
		return se.msg
	}
	return err.Error()
}

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeDuplicateKey  = "duplicate_key"
	CodeTooDeep       = "too_deep"
	CodeParseError    = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"number",
	// "got":"string"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error. It is the
// ValidationError of the deserialize contract: every Deserialize returns
// Issues, and nothing else, when raw data does not conform to the schema.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsValidationError reports whether err carries Issues.
func IsValidationError(err error) bool {
	_, ok := AsIssues(err)
	return ok
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	return AppendIssues(nil, Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err})
}
