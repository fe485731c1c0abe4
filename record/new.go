package record

import (
	"context"
	"reflect"
)

// Option configures record construction.
type Option func(*buildOptions)

type buildOptions struct {
	frozen *bool
}

// WithFrozen overrides the type-level frozen default for one construction.
func WithFrozen(frozen bool) Option {
	return func(o *buildOptions) {
		o.frozen = &frozen
	}
}

// New creates a record instance of T from named values. Every declared
// field is assigned exactly once: from values, else from its default, else
// construction fails with MissingFieldError. Each value passes through the
// field's transformers, type coercion, constraint rule, and validators.
func New[T any](values map[string]any, opts ...Option) (*T, error) {
	return NewArgs[T](nil, values, opts...)
}

// FromValues creates a record instance of T from positional values assigned
// in field declaration order.
func FromValues[T any](vals []any, opts ...Option) (*T, error) {
	return NewArgs[T](vals, nil, opts...)
}

// NewArgs creates a record instance of T from positional values (assigned
// in declaration order) and named values. A field assigned by both causes
// DuplicateFieldError.
func NewArgs[T any](positional []any, named map[string]any, opts ...Option) (*T, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}

	rec := new(T)
	rv := reflect.ValueOf(rec).Elem()
	if err := construct(info, rv, positional, named, opts); err != nil {
		return nil, err
	}
	return rec, nil
}

// NewContext is New followed by the field's context validators, run
// sequentially in declaration order.
func NewContext[T any](ctx context.Context, values map[string]any, opts ...Option) (*T, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}

	rec := new(T)
	rv := reflect.ValueOf(rec).Elem()
	if err := construct(info, rv, nil, values, opts); err != nil {
		return nil, err
	}

	for _, fi := range info.Fields {
		if err := runContextValidators(ctx, info, rv, fi); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Assign sets a single field through the validation pipeline. It fails with
// FrozenError on frozen instances and UnknownFieldError on undeclared names.
func Assign[T any](rec *T, field string, value any) error {
	info, rv, fi, err := assignTarget(rec, field)
	if err != nil {
		return err
	}
	return assignField(info, rv, fi, value)
}

// AssignContext is Assign followed by the field's context validators.
func AssignContext[T any](ctx context.Context, rec *T, field string, value any) error {
	info, rv, fi, err := assignTarget(rec, field)
	if err != nil {
		return err
	}
	if err := assignField(info, rv, fi, value); err != nil {
		return err
	}
	return runContextValidators(ctx, info, rv, fi)
}

func assignTarget[T any](rec *T, field string) (*RecordInfo, reflect.Value, FieldInfo, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, reflect.Value{}, FieldInfo{}, err
	}

	rv := reflect.ValueOf(rec).Elem()
	if base := baseOf(rv); base != nil && base.IsFrozen() {
		return nil, reflect.Value{}, FieldInfo{}, &FrozenError{TypeName: info.TypeName}
	}

	fi, ok := info.Field(field)
	if !ok {
		fi, ok = info.FieldByName(field)
	}
	if !ok {
		return nil, reflect.Value{}, FieldInfo{}, info.unknownField(field)
	}
	return info, rv, fi, nil
}

// construct assigns every declared field of rv exactly once and sets the
// frozen bit.
func construct(info *RecordInfo, rv reflect.Value, positional []any, named map[string]any, opts []Option) error {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	if len(positional) > len(info.Fields) {
		return &TooManyValuesError{
			TypeName: info.TypeName,
			Expected: len(info.Fields),
			Got:      len(positional),
		}
	}

	// Resolve named values to canonical field names before any count
	// bookkeeping, so a bad name always surfaces as UnknownFieldError. A
	// field named by both its dict name and its Go name is a duplicate.
	resolved := make(map[string]any, len(named))
	for name, value := range named {
		fi, ok := info.Field(name)
		if !ok {
			fi, ok = info.FieldByName(name)
		}
		if !ok {
			return info.unknownField(name)
		}
		if _, taken := resolved[fi.Name()]; taken {
			return &DuplicateFieldError{TypeName: info.TypeName, Field: fi.Name()}
		}
		resolved[fi.Name()] = value
	}

	if len(positional)+len(resolved) > len(info.Fields) {
		return &TooManyValuesError{
			TypeName: info.TypeName,
			Expected: len(info.Fields),
			Got:      len(positional) + len(resolved),
		}
	}

	assigned := make(map[string]bool, len(info.Fields))

	for i, value := range positional {
		fi := info.Fields[i]
		if err := assignField(info, rv, fi, value); err != nil {
			return err
		}
		assigned[fi.Name()] = true
	}

	for _, fi := range info.Fields {
		value, ok := resolved[fi.Name()]
		if !ok {
			continue
		}
		if assigned[fi.Name()] {
			return &DuplicateFieldError{TypeName: info.TypeName, Field: fi.Name()}
		}
		if err := assignField(info, rv, fi, value); err != nil {
			return err
		}
		assigned[fi.Name()] = true
	}

	for _, fi := range info.Fields {
		if assigned[fi.Name()] {
			continue
		}
		value, ok := info.defaultFor(fi)
		if !ok {
			return &MissingFieldError{TypeName: info.TypeName, Field: fi.Name()}
		}
		if err := assignField(info, rv, fi, value); err != nil {
			return err
		}
	}

	frozen := info.FrozenByDefault
	if bo.frozen != nil {
		frozen = *bo.frozen
	}
	if base := baseOf(rv); base != nil {
		base.setFrozen(frozen)
	}
	return nil
}

// assignField runs the full pipeline for one field and stores the result:
// transformers, coercion onto the declared type, the constraint rule, then
// validators (whose returned value is stored).
func assignField(info *RecordInfo, rv reflect.Value, fi FieldInfo, value any) error {
	name := fi.Name()

	for _, fn := range info.transformersFor(name) {
		out, err := fn(value)
		if err != nil {
			return &ValidationError{TypeName: info.TypeName, Field: name, Cause: err}
		}
		value = out
	}

	coerced, err := coerceValue(info, fi, value)
	if err != nil {
		return err
	}

	checkable, isNil := derefValue(coerced)
	if fi.Rule != nil && !isNil {
		if err := fi.Rule.Check(checkable); err != nil {
			return &ValidationError{TypeName: info.TypeName, Field: name, Cause: err}
		}
	}

	changed := false
	for _, fn := range info.validatorsFor(name) {
		out, err := fn(checkable)
		if err != nil {
			return &ValidationError{TypeName: info.TypeName, Field: name, Cause: err}
		}
		if out != nil {
			checkable = out
			changed = true
		}
	}
	if changed {
		coerced, err = coerceValue(info, fi, checkable)
		if err != nil {
			return err
		}
	}

	rv.Field(fi.FieldIndex).Set(coerced)
	return nil
}

func runContextValidators(ctx context.Context, info *RecordInfo, rv reflect.Value, fi FieldInfo) error {
	fns := info.ctxValidatorsFor(fi.Name())
	if len(fns) == 0 {
		return nil
	}

	current, isNil := derefValue(rv.Field(fi.FieldIndex))
	if isNil {
		current = nil
	}
	changed := false
	for _, fn := range fns {
		out, err := fn(ctx, current)
		if err != nil {
			return &ValidationError{TypeName: info.TypeName, Field: fi.Name(), Cause: err}
		}
		if out != nil {
			current = out
			changed = true
		}
	}
	if !changed {
		return nil
	}
	coerced, err := coerceValue(info, fi, current)
	if err != nil {
		return err
	}
	rv.Field(fi.FieldIndex).Set(coerced)
	return nil
}

// derefValue returns the dynamic value checked by rules and validators:
// pointers are dereferenced, nil pointers reported.
func derefValue(v reflect.Value) (any, bool) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, true
		}
		return v.Elem().Interface(), false
	}
	return v.Interface(), false
}

// baseOf locates the embedded Base of a record struct value.
func baseOf(rv reflect.Value) *Base {
	for i := 0; i < rv.NumField(); i++ {
		fv := rv.Field(i)
		if !fv.CanAddr() {
			continue
		}
		if b, ok := fv.Addr().Interface().(*Base); ok {
			return b
		}
	}
	return nil
}
