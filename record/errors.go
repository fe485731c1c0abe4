package record

import (
	"fmt"
	"strings"
)

// NotRegisteredError is returned when an operation is attempted on a Go type
// that has not been registered.
type NotRegisteredError struct {
	TypeName string
}

// Error returns the error message for NotRegisteredError.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("type %q is not registered", e.TypeName)
}

// UnknownFieldError is returned when a value, hook, or mutation names a
// field the record type does not declare.
type UnknownFieldError struct {
	TypeName string
	Field    string
	Fields   []string
}

// Error returns the error message for UnknownFieldError.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q; valid fields are: %s",
		e.TypeName, e.Field, strings.Join(e.Fields, ", "))
}

// MissingFieldError is returned when construction leaves a declared field
// without a value and the field carries no default.
type MissingFieldError struct {
	TypeName string
	Field    string
}

// Error returns the error message for MissingFieldError.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q for %s", e.Field, e.TypeName)
}

// DuplicateFieldError is returned when positional and named values assign
// the same field twice during construction.
type DuplicateFieldError struct {
	TypeName string
	Field    string
}

// Error returns the error message for DuplicateFieldError.
func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate value for field %q in %s; fields can only be assigned once",
		e.Field, e.TypeName)
}

// TooManyValuesError is returned when positional construction receives more
// values than the record type declares fields.
type TooManyValuesError struct {
	TypeName string
	Expected int
	Got      int
}

// Error returns the error message for TooManyValuesError.
func (e *TooManyValuesError) Error() string {
	return fmt.Sprintf("too many values for %s: expected at most %d, got %d",
		e.TypeName, e.Expected, e.Got)
}

// TypeMismatchError is returned when a value cannot be coerced onto the
// declared field type.
type TypeMismatchError struct {
	TypeName string
	Field    string
	Expected string
	Value    any
}

// Error returns the error message for TypeMismatchError.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q of %s expects %s, got %T",
		e.Field, e.TypeName, e.Expected, e.Value)
}

// FrozenError is returned when mutation is attempted on a frozen instance.
type FrozenError struct {
	TypeName string
}

// Error returns the error message for FrozenError.
func (e *FrozenError) Error() string {
	return fmt.Sprintf("cannot modify frozen %s instance", e.TypeName)
}

// ValidationError is returned when a constraint rule or registered validator
// rejects a field value.
type ValidationError struct {
	TypeName string
	Field    string
	Cause    error
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating %s.%s: %v", e.TypeName, e.Field, e.Cause)
}

// Unwrap returns the underlying cause of the ValidationError.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// UnhashableError is returned when Hash is called on a mutable instance.
type UnhashableError struct {
	TypeName string
}

// Error returns the error message for UnhashableError.
func (e *UnhashableError) Error() string {
	return fmt.Sprintf("mutable %s is unhashable", e.TypeName)
}

// UnorderedFieldError is returned when Less encounters a field whose type
// has no defined ordering.
type UnorderedFieldError struct {
	TypeName string
	Field    string
}

// Error returns the error message for UnorderedFieldError.
func (e *UnorderedFieldError) Error() string {
	return fmt.Sprintf("field %q of %s has no defined ordering", e.Field, e.TypeName)
}
