package attribute

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrepresentable is matched by every UnrepresentableValueError.
	ErrUnrepresentable = errors.New("value cannot be represented as an attribute value")

	// ErrMalformed is matched by every MalformedValueError.
	ErrMalformed = errors.New("malformed attribute value")
)

// UnrepresentableValueError is returned when a native value, or one of its
// descendants, has no wire type.
type UnrepresentableValueError struct {
	Path  string
	Value any
}

func (e *UnrepresentableValueError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %T", ErrUnrepresentable, e.Value)
	}
	return fmt.Sprintf("%s: %s (%T)", ErrUnrepresentable, e.Path, e.Value)
}

func (e *UnrepresentableValueError) Unwrap() error { return ErrUnrepresentable }

// MalformedValueError is returned when a wire value received from the store
// cannot be converted back into a native value.
type MalformedValueError struct {
	Path  string
	Tag   Tag
	Cause error
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", ErrMalformed, e.Path, e.Tag, e.Cause)
}

func (e *MalformedValueError) Unwrap() []error { return []error{ErrMalformed, e.Cause} }

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
