package record

import (
	"fmt"
	"reflect"
	"time"
)

// coerceValue converts val into a reflect.Value assignable to the field
// described by fi. Numeric values coerce across widths, times parse from
// strings, and booleans accept integer 0/1 (as produced by sqlite).
func coerceValue(info *RecordInfo, fi FieldInfo, val any) (reflect.Value, error) {
	mismatch := func() error {
		return &TypeMismatchError{
			TypeName: info.TypeName,
			Field:    fi.Name(),
			Expected: fi.FieldType.String(),
			Value:    val,
		}
	}

	if val == nil {
		switch {
		case fi.IsPointer, fi.IsSlice, fi.IsMap:
			return reflect.Zero(fi.FieldType), nil
		default:
			return reflect.Value{}, mismatch()
		}
	}

	// Exact type match needs no work
	if rv := reflect.ValueOf(val); rv.Type() == fi.FieldType {
		return rv, nil
	}

	if fi.IsSlice {
		return coerceSlice(fi, val, mismatch)
	}
	if fi.IsMap {
		return coerceMap(fi, val, mismatch)
	}

	target := fi.FieldType
	if fi.IsPointer {
		target = fi.ElemType
	}

	elem, err := coerceElem(target, fi.ValueKind, val)
	if err != nil {
		return reflect.Value{}, mismatch()
	}

	if fi.IsPointer {
		ptr := reflect.New(fi.ElemType)
		ptr.Elem().Set(elem)
		return ptr, nil
	}
	return elem, nil
}

func coerceSlice(fi FieldInfo, val any, mismatch func() error) (reflect.Value, error) {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, mismatch()
	}
	slice := reflect.MakeSlice(fi.FieldType, rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := coerceElem(fi.ElemType, fi.ValueKind, rv.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, mismatch()
		}
		slice.Index(i).Set(elem)
	}
	return slice, nil
}

func coerceMap(fi FieldInfo, val any, mismatch func() error) (reflect.Value, error) {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Map {
		return reflect.Value{}, mismatch()
	}
	m := reflect.MakeMapWithSize(fi.FieldType, rv.Len())
	keyType := fi.FieldType.Key()
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key()
		if !key.Type().AssignableTo(keyType) {
			if !key.Type().ConvertibleTo(keyType) {
				return reflect.Value{}, mismatch()
			}
			key = key.Convert(keyType)
		}
		elem, err := coerceElem(fi.ElemType, fi.ValueKind, iter.Value().Interface())
		if err != nil {
			return reflect.Value{}, mismatch()
		}
		m.SetMapIndex(key, elem)
	}
	return m, nil
}

// coerceElem converts a single value onto a concrete element type.
func coerceElem(target reflect.Type, kind string, val any) (reflect.Value, error) {
	if target.Kind() == reflect.Ptr {
		inner, err := coerceElem(target.Elem(), kind, val)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	rv := reflect.ValueOf(val)
	if rv.Type() == target {
		return rv, nil
	}

	switch kind {
	case KindString:
		switch v := val.(type) {
		case string:
			return reflect.ValueOf(v).Convert(target), nil
		case []byte:
			return reflect.ValueOf(string(v)).Convert(target), nil
		}
		return reflect.Value{}, fmt.Errorf("expected string, got %T", val)

	case KindInt:
		i64, err := toInt64(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i64).Convert(target), nil

	case KindUint:
		u64, err := toUint64(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(u64).Convert(target), nil

	case KindFloat:
		f64, err := toFloat64Value(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f64).Convert(target), nil

	case KindBool:
		switch v := val.(type) {
		case bool:
			return reflect.ValueOf(v), nil
		case int64:
			// sqlite stores booleans as 0/1
			return reflect.ValueOf(v != 0), nil
		case int:
			return reflect.ValueOf(v != 0), nil
		}
		return reflect.Value{}, fmt.Errorf("expected bool, got %T", val)

	case KindTime:
		t, err := toTime(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil

	case KindBytes:
		switch v := val.(type) {
		case []byte:
			return reflect.ValueOf(v).Convert(target), nil
		case string:
			return reflect.ValueOf([]byte(v)).Convert(target), nil
		}
		return reflect.Value{}, fmt.Errorf("expected bytes, got %T", val)

	case KindRecord:
		// Nested records must arrive as the concrete struct or a pointer
		// to it; FromDict converts nested maps before the pipeline runs.
		if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Type().Elem() == target {
			return rv.Elem(), nil
		}
		return reflect.Value{}, fmt.Errorf("expected %s, got %T", target, val)

	default:
		if rv.Type().AssignableTo(target) {
			return rv, nil
		}
		if rv.Type().ConvertibleTo(target) {
			return rv.Convert(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", val, target)
	}
}

func toInt64(val any) (int64, error) {
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to integer", val)
	}
}

// toUint64 rejects negative values rather than letting them wrap.
func toUint64(val any) (uint64, error) {
	switch v := val.(type) {
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	}

	i64, err := toInt64(val)
	if err != nil {
		return 0, fmt.Errorf("cannot coerce %T to unsigned", val)
	}
	if i64 < 0 {
		return 0, fmt.Errorf("negative value %d for unsigned field", i64)
	}
	return uint64(i64), nil
}

func toFloat64Value(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to float", val)
	}
}

func toTime(val any) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			t, err := time.Parse(layout, v)
			if err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse time string: %q", v)
	default:
		return time.Time{}, fmt.Errorf("cannot coerce %T to time.Time", val)
	}
}
