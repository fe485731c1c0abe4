package constraint

import "fmt"

// UnknownFuncError is returned when an expression names a check that is not
// a known builtin.
type UnknownFuncError struct {
	Name string
}

// Error returns the error message for UnknownFuncError.
func (e *UnknownFuncError) Error() string {
	return fmt.Sprintf("constraint: unknown check %q", e.Name)
}

// ArgError is returned when a check is given the wrong number or type of
// arguments.
type ArgError struct {
	Func    string
	Message string
}

// Error returns the error message for ArgError.
func (e *ArgError) Error() string {
	return fmt.Sprintf("constraint: %s: %s", e.Func, e.Message)
}

// ViolationError is returned by Rule.Check when a value fails the rule.
// Check carries the canonical text of the failing (sub-)expression.
type ViolationError struct {
	Check string
	Value any
}

// Error returns the error message for ViolationError.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("value %v fails check %q", e.Value, e.Check)
}
