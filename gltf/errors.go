package gltf

import (
	"errors"
	"fmt"
)

// Error kinds. Any failure during an import unwraps to exactly one of these.
var (
	ErrMalformedContainer     = errors.New("malformed container")
	ErrSchemaViolation        = errors.New("schema violation")
	ErrCyclicHierarchy        = errors.New("cyclic node hierarchy")
	ErrSkinMismatch           = errors.New("skin mismatch")
	ErrInvalidAnimationTarget = errors.New("invalid animation target")
	ErrAccessorBounds         = errors.New("accessor out of bounds")
	ErrUnsupportedExtension   = errors.New("unsupported required extension")
	ErrIO                     = errors.New("i/o error")
)

var kindNames = map[error]string{
	ErrMalformedContainer:     "MalformedContainer",
	ErrSchemaViolation:        "SchemaViolation",
	ErrCyclicHierarchy:        "CyclicHierarchy",
	ErrSkinMismatch:           "SkinMismatch",
	ErrInvalidAnimationTarget: "InvalidAnimationTarget",
	ErrAccessorBounds:         "AccessorBoundsError",
	ErrUnsupportedExtension:   "UnsupportedRequiredExtension",
	ErrIO:                     "IOError",
}

// KindName returns the symbolic name of the error kind err unwraps to,
// or "Unknown" for errors from outside the loader.
func KindName(err error) string {
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return "Unknown"
}

// Error locates a load failure within the document: the entity array,
// the index into it, and optionally the offending field.
type Error struct {
	Kind   error
	Entity string
	Index  int
	Field  string
	Detail string
}

func (e *Error) Error() string {
	loc := e.Entity
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", e.Entity, e.Index)
	}
	if e.Field != "" {
		if loc != "" {
			loc += "."
		}
		loc += e.Field
	}
	if loc == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, loc, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, entity string, index int, field, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Entity: entity,
		Index:  index,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}

// AsError extracts the located form from err, if it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
