package prompt

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedPlaceholder is returned when a '{' has no closing '}'.
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	// ErrEmptyPlaceholderName is returned for "{}".
	ErrEmptyPlaceholderName = errors.New("empty placeholder name")
	// ErrMissingVariable is returned when a render mapping lacks a schema field.
	ErrMissingVariable = errors.New("missing variable")
	// ErrArity is returned when positional values do not match the field count.
	ErrArity = errors.New("field count mismatch")
	// ErrUnknownRole is returned for role names outside system/user/assistant.
	ErrUnknownRole = errors.New("unknown role")
)

// ParseError describes a malformed template string. Offset is the byte
// offset of the offending '{' in the template source.
type ParseError struct {
	Kind   error
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// RenderError reports the first schema field absent from a render mapping.
type RenderError struct {
	Name string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%v %q", ErrMissingVariable, e.Name)
}

func (e *RenderError) Is(target error) bool {
	return target == ErrMissingVariable
}

// ArityError reports a positional call with the wrong number of values.
type ArityError struct {
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%v: expected %d values, got %d", ErrArity, e.Expected, e.Actual)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrArity
}
