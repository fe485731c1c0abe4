package record

import "reflect"

// Clone returns a shallow copy of rec with the given field changes applied.
// The copy runs through the full construction pipeline, so changes are
// validated. The frozen state follows the type default unless overridden
// with WithFrozen.
func Clone[T any](rec *T, changes map[string]any, opts ...Option) (*T, error) {
	values, err := ToDictShallow(rec)
	if err != nil {
		return nil, err
	}
	for name, value := range changes {
		values[name] = value
	}
	return New[T](values, opts...)
}

// DeepClone returns a deep copy of rec via a codec round-trip. Nested
// records, slices, and maps are fully copied, and the instance frozen
// state is preserved.
func DeepClone[T any](rec *T) (*T, error) {
	data, err := Marshal(rec)
	if err != nil {
		return nil, err
	}
	out, err := Unmarshal[T](data)
	if err != nil {
		return nil, err
	}

	src := baseOf(reflect.ValueOf(rec).Elem())
	dst := baseOf(reflect.ValueOf(out).Elem())
	if src != nil && dst != nil {
		dst.setFrozen(src.IsFrozen())
	}
	return out, nil
}
