package record

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Equal reports whether two record instances of the same type hold equal
// values in every declared field.
func Equal[T any](a, b *T) bool {
	info, err := infoFor[T]()
	if err != nil {
		return false
	}
	if a == nil || b == nil {
		return a == b
	}

	av := reflect.ValueOf(a).Elem()
	bv := reflect.ValueOf(b).Elem()
	for _, fi := range info.Fields {
		if !equalValue(av.Field(fi.FieldIndex).Interface(), bv.Field(fi.FieldIndex).Interface()) {
			return false
		}
	}
	return true
}

// equalValue compares two field values. Times compare by instant, so a
// codec round trip that rewrites the location still compares equal.
func equalValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if ap, ok := a.(*time.Time); ok {
		bp, ok := b.(*time.Time)
		if !ok {
			return false
		}
		if ap == nil || bp == nil {
			return ap == bp
		}
		return ap.Equal(*bp)
	}
	return reflect.DeepEqual(a, b)
}

// Less compares two record instances lexicographically by field values in
// declaration order. It returns UnorderedFieldError when the comparison
// reaches a field whose type has no defined ordering.
func Less[T any](a, b *T) (bool, error) {
	info, err := infoFor[T]()
	if err != nil {
		return false, err
	}
	if a == nil || b == nil {
		// nil sorts before any instance
		return a == nil && b != nil, nil
	}

	av := reflect.ValueOf(a).Elem()
	bv := reflect.ValueOf(b).Elem()
	for _, fi := range info.Fields {
		cmp, err := compareField(info, fi, av.Field(fi.FieldIndex), bv.Field(fi.FieldIndex))
		if err != nil {
			return false, err
		}
		if cmp < 0 {
			return true, nil
		}
		if cmp > 0 {
			return false, nil
		}
	}
	return false, nil // all fields equal
}

func compareField(info *RecordInfo, fi FieldInfo, av, bv reflect.Value) (int, error) {
	if fi.IsSlice || fi.IsMap {
		return 0, &UnorderedFieldError{TypeName: info.TypeName, Field: fi.Name()}
	}

	if fi.IsPointer {
		// nil sorts before any value
		switch {
		case av.IsNil() && bv.IsNil():
			return 0, nil
		case av.IsNil():
			return -1, nil
		case bv.IsNil():
			return 1, nil
		}
		av = av.Elem()
		bv = bv.Elem()
	}

	switch fi.ValueKind {
	case KindString:
		return bytes.Compare([]byte(av.String()), []byte(bv.String())), nil
	case KindInt:
		return cmpOrdered(av.Int(), bv.Int()), nil
	case KindUint:
		return cmpOrdered(av.Uint(), bv.Uint()), nil
	case KindFloat:
		return cmpOrdered(av.Float(), bv.Float()), nil
	case KindBool:
		return cmpBool(av.Bool(), bv.Bool()), nil
	case KindTime:
		at := av.Interface().(time.Time)
		bt := bv.Interface().(time.Time)
		switch {
		case at.Before(bt):
			return -1, nil
		case at.After(bt):
			return 1, nil
		default:
			return 0, nil
		}
	case KindBytes:
		return bytes.Compare(av.Bytes(), bv.Bytes()), nil
	default:
		return 0, &UnorderedFieldError{TypeName: info.TypeName, Field: fi.Name()}
	}
}

func cmpOrdered[V int64 | uint64 | float64](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Hash returns a stable hash of a frozen record instance, computed with
// xxhash over a canonical msgpack encoding of the field values in
// declaration order. Mutable instances return UnhashableError.
func Hash[T any](rec *T) (uint64, error) {
	info, err := infoFor[T]()
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, &UnhashableError{TypeName: info.TypeName}
	}

	rv := reflect.ValueOf(rec).Elem()
	base := baseOf(rv)
	if base == nil || !base.IsFrozen() {
		return 0, &UnhashableError{TypeName: info.TypeName}
	}

	data, err := canonicalBytes(info, rv)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// canonicalBytes encodes field values as a deterministic msgpack array.
// Nested registered records encode as nested arrays, and maps encode as
// key-sorted pair lists, so the encoding is independent of map iteration
// order.
func canonicalBytes(info *RecordInfo, rv reflect.Value) ([]byte, error) {
	values := make([]any, 0, len(info.Fields)+1)
	values = append(values, info.TypeName)
	for _, fi := range info.Fields {
		values = append(values, canonicalValue(rv.Field(fi.FieldIndex)))
	}
	return msgpack.Marshal(values)
}

func canonicalValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return canonicalValue(v.Elem())

	case reflect.Struct:
		if nested, ok := LookupType(v.Type()); ok {
			values := make([]any, 0, len(nested.Fields)+1)
			values = append(values, nested.TypeName)
			for _, fi := range nested.Fields {
				values = append(values, canonicalValue(v.Field(fi.FieldIndex)))
			}
			return values
		}
		return v.Interface()

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = canonicalValue(v.Index(i))
		}
		return out

	case reflect.Map:
		keys := make([]string, 0, v.Len())
		byKey := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			keys = append(keys, key)
			byKey[key] = canonicalValue(iter.Value())
		}
		sort.Strings(keys)
		out := make([]any, 0, 2*len(keys))
		for _, key := range keys {
			out = append(out, key, byKey[key])
		}
		return out

	default:
		return v.Interface()
	}
}
