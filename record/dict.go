package record

import (
	"fmt"
	"reflect"
)

// ToDict converts a record instance to a map keyed by dict names. Nested
// registered records, and slices and maps containing them, convert
// recursively.
func ToDict[T any](rec *T) (map[string]any, error) {
	return toDict(rec, true)
}

// ToDictShallow converts a record instance to a map keyed by dict names,
// leaving nested records as struct values.
func ToDictShallow[T any](rec *T) (map[string]any, error) {
	return toDict(rec, false)
}

func toDict[T any](rec *T, recursive bool) (map[string]any, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(rec).Elem()
	return dictOf(info, rv, recursive), nil
}

func dictOf(info *RecordInfo, rv reflect.Value, recursive bool) map[string]any {
	result := make(map[string]any, len(info.Fields))
	for _, fi := range info.Fields {
		field := rv.Field(fi.FieldIndex)

		if fi.IsPointer {
			if field.IsNil() {
				result[fi.Name()] = nil
				continue
			}
			field = field.Elem()
		}

		value := field.Interface()
		if recursive {
			value = dictValue(field)
		}
		result[fi.Name()] = value
	}
	return result
}

// dictValue recursively converts nested registered records inside v.
func dictValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return dictValue(v.Elem())

	case reflect.Struct:
		if nested, ok := LookupType(v.Type()); ok {
			return dictOf(nested, v, true)
		}
		return v.Interface()

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = dictValue(v.Index(i))
		}
		return out

	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = dictValue(iter.Value())
		}
		return out

	default:
		return v.Interface()
	}
}

// FromDict creates a record instance from a map keyed by dict names (or Go
// field names). Nested maps hydrate registered record fields, and the
// resulting values pass through the full construction pipeline, so
// deserialized data is re-validated.
func FromDict[T any](data map[string]any) (*T, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}

	processed, err := processDict(info, data)
	if err != nil {
		return nil, err
	}
	return New[T](processed)
}

// processDict converts nested maps into record instances ahead of the
// construction pipeline. Unknown keys pass through so construction can
// reject them with a proper UnknownFieldError.
func processDict(info *RecordInfo, data map[string]any) (map[string]any, error) {
	processed := make(map[string]any, len(data))
	for name, value := range data {
		fi, ok := info.Field(name)
		if !ok {
			fi, ok = info.FieldByName(name)
		}
		if !ok || fi.ValueKind != KindRecord || value == nil {
			processed[name] = value
			continue
		}

		converted, err := hydrateNested(fi, value)
		if err != nil {
			return nil, fmt.Errorf("processing field %q: %w", name, err)
		}
		processed[fi.Name()] = converted
	}
	return processed, nil
}

func hydrateNested(fi FieldInfo, value any) (any, error) {
	elemType := fi.ElemType
	if elemType == nil {
		elemType = fi.FieldType
	}
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}

	switch {
	case fi.IsSlice:
		items, ok := value.([]any)
		if !ok {
			return value, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				out[i] = item
				continue
			}
			rec, err := fromDictType(elemType, m)
			if err != nil {
				return nil, err
			}
			out[i] = rec.Elem().Interface()
		}
		return out, nil

	case fi.IsMap:
		entries, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}
		out := make(map[string]any, len(entries))
		for key, item := range entries {
			m, ok := item.(map[string]any)
			if !ok {
				out[key] = item
				continue
			}
			rec, err := fromDictType(elemType, m)
			if err != nil {
				return nil, err
			}
			out[key] = rec.Elem().Interface()
		}
		return out, nil

	default:
		m, ok := value.(map[string]any)
		if !ok {
			return value, nil
		}
		rec, err := fromDictType(elemType, m)
		if err != nil {
			return nil, err
		}
		return rec.Interface(), nil
	}
}

// fromDictType is the non-generic core of FromDict, used for nested record
// hydration. It returns a pointer value to a newly constructed instance.
func fromDictType(t reflect.Type, data map[string]any) (reflect.Value, error) {
	info, ok := LookupType(t)
	if !ok {
		return reflect.Value{}, &NotRegisteredError{TypeName: t.Name()}
	}

	processed, err := processDict(info, data)
	if err != nil {
		return reflect.Value{}, err
	}

	ptr := reflect.New(t)
	if err := construct(info, ptr.Elem(), nil, processed, nil); err != nil {
		return reflect.Value{}, err
	}
	return ptr, nil
}
