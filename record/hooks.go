package record

import (
	"context"
	"reflect"
)

// TransformFunc rewrites a field value before type checking. The returned
// value replaces the input.
type TransformFunc func(value any) (any, error)

// ValidateFunc validates a field value after type checking. A non-nil
// returned value replaces the stored value, so validators may also
// transform; pure validators return nil (or the input unchanged).
type ValidateFunc func(value any) (any, error)

// ContextValidateFunc is a context-aware validator, run only by the
// context-taking constructors (NewContext, AssignContext,
// Builder.BuildContext) after all synchronous validation has passed.
type ContextValidateFunc func(ctx context.Context, value any) (any, error)

// DefaultFunc produces a default value for a field left unset during
// construction. It takes precedence over a tag default literal.
type DefaultFunc func() any

// RegisterTransformer attaches a transformer to the named field of a
// registered record type T. Transformers run in registration order, before
// type checking.
func RegisterTransformer[T any](field string, fn TransformFunc) error {
	info, fi, err := hookTarget[T](field)
	if err != nil {
		return err
	}
	info.hookMu.Lock()
	defer info.hookMu.Unlock()
	info.transformers[fi.Name()] = append(info.transformers[fi.Name()], fn)
	return nil
}

// RegisterValidator attaches a validator to the named field of a registered
// record type T. Validators run in registration order, after type checking
// and constraint rules.
func RegisterValidator[T any](field string, fn ValidateFunc) error {
	info, fi, err := hookTarget[T](field)
	if err != nil {
		return err
	}
	info.hookMu.Lock()
	defer info.hookMu.Unlock()
	info.validators[fi.Name()] = append(info.validators[fi.Name()], fn)
	return nil
}

// RegisterContextValidator attaches a context-aware validator to the named
// field of a registered record type T.
func RegisterContextValidator[T any](field string, fn ContextValidateFunc) error {
	info, fi, err := hookTarget[T](field)
	if err != nil {
		return err
	}
	info.hookMu.Lock()
	defer info.hookMu.Unlock()
	info.ctxValidators[fi.Name()] = append(info.ctxValidators[fi.Name()], fn)
	return nil
}

// RegisterDefault attaches a default factory to the named field of a
// registered record type T. The factory is invoked once per construction
// that leaves the field unset.
func RegisterDefault[T any](field string, fn DefaultFunc) error {
	info, fi, err := hookTarget[T](field)
	if err != nil {
		return err
	}
	info.hookMu.Lock()
	defer info.hookMu.Unlock()
	info.defaults[fi.Name()] = fn
	return nil
}

// hookTarget resolves the RecordInfo and FieldInfo for a hook registration.
// The field may be named by its dict name or its Go field name.
func hookTarget[T any](field string) (*RecordInfo, FieldInfo, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	info, ok := LookupType(t)
	if !ok {
		return nil, FieldInfo{}, &NotRegisteredError{TypeName: t.Name()}
	}
	fi, ok := info.Field(field)
	if !ok {
		fi, ok = info.FieldByName(field)
	}
	if !ok {
		return nil, FieldInfo{}, info.unknownField(field)
	}
	return info, fi, nil
}

func (r *RecordInfo) transformersFor(name string) []TransformFunc {
	r.hookMu.RLock()
	defer r.hookMu.RUnlock()
	return r.transformers[name]
}

func (r *RecordInfo) validatorsFor(name string) []ValidateFunc {
	r.hookMu.RLock()
	defer r.hookMu.RUnlock()
	return r.validators[name]
}

func (r *RecordInfo) ctxValidatorsFor(name string) []ContextValidateFunc {
	r.hookMu.RLock()
	defer r.hookMu.RUnlock()
	return r.ctxValidators[name]
}

func (r *RecordInfo) defaultFor(fi FieldInfo) (any, bool) {
	r.hookMu.RLock()
	fn, ok := r.defaults[fi.Name()]
	r.hookMu.RUnlock()
	if ok {
		return fn(), true
	}
	if fi.Tag.HasDefault {
		return fi.DefaultValue, true
	}
	return nil, false
}
