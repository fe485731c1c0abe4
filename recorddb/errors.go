package recorddb

import "fmt"

// NotFoundError is returned when a query expected to return an instance
// finds no matching rows.
type NotFoundError struct {
	TypeName string
}

// Error returns the error message for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.TypeName)
}

// MissingKeyError is returned when an operation requires a key field and
// the record type declares none (or more than one).
type MissingKeyError struct {
	TypeName  string
	Operation string
}

// Error returns the error message for MissingKeyError.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s requires exactly one key field on %s", e.Operation, e.TypeName)
}

// UnsupportedFieldError is returned when SQL generation encounters a field
// whose kind has no column mapping (nested records, slices, maps).
type UnsupportedFieldError struct {
	TypeName string
	Field    string
	Kind     string
}

// Error returns the error message for UnsupportedFieldError.
func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("field %q of %s (%s) cannot be mapped to a SQL column; exclude it",
		e.Field, e.TypeName, e.Kind)
}

// InvalidOpError is returned when a query filter uses an operator outside
// the supported set.
type InvalidOpError struct {
	Op string
}

// Error returns the error message for InvalidOpError.
func (e *InvalidOpError) Error() string {
	return fmt.Sprintf("unsupported filter operator %q", e.Op)
}
