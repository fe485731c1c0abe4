package record

import "reflect"

// FieldItem pairs a field's dict name with its current value.
type FieldItem struct {
	Name  string
	Value any
}

// FieldNames returns the dict names of T's declared fields in declaration
// order.
func FieldNames[T any]() ([]string, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}
	return info.FieldNames(), nil
}

// FieldValues returns the current values of rec's fields in declaration
// order.
func FieldValues[T any](rec *T) ([]any, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(rec).Elem()
	values := make([]any, len(info.Fields))
	for i, fi := range info.Fields {
		values[i] = rv.Field(fi.FieldIndex).Interface()
	}
	return values, nil
}

// FieldItems returns (name, value) pairs for rec's fields in declaration
// order.
func FieldItems[T any](rec *T) ([]FieldItem, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(rec).Elem()
	items := make([]FieldItem, len(info.Fields))
	for i, fi := range info.Fields {
		items[i] = FieldItem{Name: fi.Name(), Value: rv.Field(fi.FieldIndex).Interface()}
	}
	return items, nil
}

// FieldMetadata returns the meta: annotation strings declared on the named
// field of T.
func FieldMetadata[T any](field string) ([]string, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}
	fi, ok := info.Field(field)
	if !ok {
		fi, ok = info.FieldByName(field)
	}
	if !ok {
		return nil, info.unknownField(field)
	}
	return fi.Tag.Metadata, nil
}

// AllFieldMetadata returns the meta: annotations of every field of T that
// declares any, keyed by dict name.
func AllFieldMetadata[T any]() (map[string][]string, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}
	result := make(map[string][]string)
	for _, fi := range info.Fields {
		if len(fi.Tag.Metadata) > 0 {
			result[fi.Name()] = fi.Tag.Metadata
		}
	}
	return result, nil
}
