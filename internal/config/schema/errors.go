package schema

import (
	"fmt"
	"strings"
)

// UnknownKeyError reports a merged key with no corresponding schema node.
type UnknownKeyError struct {
	// Path is the dotted path of the unknown key.
	Path string
}

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%s: unknown key", e.Path)
}

// TypeMismatchError reports a value whose kind does not match the schema.
type TypeMismatchError struct {
	// Path is the dotted path of the offending value.
	Path string
	// Expected is the declared kind.
	Expected Kind
	// Found describes the supplied value's type.
	Found string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Found)
}

// ConstraintViolationError reports a value that fails a declared constraint.
type ConstraintViolationError struct {
	// Path is the dotted path of the offending value.
	Path string
	// Constraint names the violated constraint.
	Constraint string
	// Value is the offending value.
	Value any
}

// Error implements the error interface.
func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s: value %v violates %s", e.Path, e.Value, e.Constraint)
}

// Errors collects every validation failure from one pass.
type Errors struct {
	List []error
}

// Error implements the error interface.
func (e *Errors) Error() string {
	if len(e.List) == 1 {
		return e.List[0].Error()
	}
	msgs := make([]string, len(e.List))
	for i, err := range e.List {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.List), strings.Join(msgs, "\n  - "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *Errors) Unwrap() []error {
	return e.List
}

func (e *Errors) add(err error) {
	e.List = append(e.List, err)
}

// asError returns nil when no failures were collected.
func (e *Errors) asError() error {
	if len(e.List) == 0 {
		return nil
	}
	return e
}
