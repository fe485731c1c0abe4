package record

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/recordlite/recordlite/constraint"
)

// Value kinds classify field types for coercion, ordering, serialization,
// and SQL column mapping.
const (
	KindString = "string"
	KindInt    = "integer"
	KindUint   = "unsigned"
	KindFloat  = "double"
	KindBool   = "boolean"
	KindTime   = "datetime"
	KindBytes  = "bytes"
	KindRecord = "record"
	KindAny    = "any"
)

// FieldInfo contains metadata about a single declared field in a record
// struct.
type FieldInfo struct {
	// Tag is the parsed 'record' struct tag.
	Tag FieldTag
	// FieldName is the name of the field in the Go struct.
	FieldName string
	// FieldIndex is the 0-based index of the field in the Go struct.
	FieldIndex int
	// FieldType is the reflection type of the field.
	FieldType reflect.Type
	// IsPointer is true if the field is a pointer, used for optional fields.
	IsPointer bool
	// IsSlice is true if the field is a slice.
	IsSlice bool
	// IsMap is true if the field is a map.
	IsMap bool
	// ElemType is the base element type for pointers, slices, and maps.
	ElemType reflect.Type
	// ValueKind classifies the element type (KindString, KindInt, ...).
	ValueKind string
	// Rule is the compiled constraint from the 'check' tag, or nil.
	Rule *constraint.Rule
	// DefaultValue is the coerced default from the tag, valid when
	// Tag.HasDefault is true.
	DefaultValue any
}

// Name returns the dict/column name of the field: the tag name when present,
// otherwise the snake_case form of the Go field name.
func (f FieldInfo) Name() string {
	if f.Tag.Name != "" {
		return f.Tag.Name
	}
	return ToSnakeCase(f.FieldName)
}

// RecordInfo contains comprehensive metadata about a registered record type,
// including its declared fields in declaration order and its per-field hook
// chains.
type RecordInfo struct {
	// GoType is the reflection type of the Go struct.
	GoType reflect.Type
	// TypeName is the snake_case name of the record type.
	TypeName string
	// Fields is the declared fields in Go declaration order.
	Fields []FieldInfo
	// KeyFields is the subset of Fields marked as keys.
	KeyFields []FieldInfo
	// FrozenByDefault is true when the type carries the frozen tag flag.
	FrozenByDefault bool

	hookMu        sync.RWMutex
	transformers  map[string][]TransformFunc
	validators    map[string][]ValidateFunc
	ctxValidators map[string][]ContextValidateFunc
	defaults      map[string]DefaultFunc
}

// FieldByName retrieves FieldInfo by the Go struct field name.
func (r *RecordInfo) FieldByName(name string) (FieldInfo, bool) {
	for _, f := range r.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// Field retrieves FieldInfo by the dict/column name.
func (r *RecordInfo) Field(name string) (FieldInfo, bool) {
	for _, f := range r.Fields {
		if f.Name() == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// FieldNames returns the dict names of all declared fields in declaration
// order.
func (r *RecordInfo) FieldNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name()
	}
	return names
}

func (r *RecordInfo) unknownField(name string) error {
	return &UnknownFieldError{TypeName: r.TypeName, Field: name, Fields: r.FieldNames()}
}

var baseType = reflect.TypeOf(Base{})

// ExtractRecordInfo analyzes a Go struct type and extracts its record
// schema. The struct must embed record.Base.
func ExtractRecordInfo(t reflect.Type) (*RecordInfo, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", t.Kind())
	}
	if !embedsBase(t) {
		return nil, fmt.Errorf("type %s must embed record.Base", t.Name())
	}

	info := &RecordInfo{
		GoType:        t,
		TypeName:      ToSnakeCase(t.Name()),
		transformers:  make(map[string][]TransformFunc),
		validators:    make(map[string][]ValidateFunc),
		ctxValidators: make(map[string][]ContextValidateFunc),
		defaults:      make(map[string]DefaultFunc),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip unexported fields and the embedded base
		if !field.IsExported() || field.Anonymous {
			continue
		}

		tagStr := field.Tag.Get("record")
		tag, err := ParseTag(tagStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if tag.Skip {
			continue
		}

		if tag.Frozen {
			info.FrozenByDefault = true
		}

		fi, err := buildFieldInfo(field, i, tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		info.Fields = append(info.Fields, fi)

		if tag.Key {
			info.KeyFields = append(info.KeyFields, fi)
		}
	}

	return info, nil
}

func embedsBase(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == baseType {
			return true
		}
	}
	return false
}

func buildFieldInfo(field reflect.StructField, index int, tag FieldTag) (FieldInfo, error) {
	fi := FieldInfo{
		Tag:        tag,
		FieldName:  field.Name,
		FieldIndex: index,
		FieldType:  field.Type,
	}

	ft := field.Type
	if ft.Kind() == reflect.Ptr {
		fi.IsPointer = true
		fi.ElemType = ft.Elem()
		ft = ft.Elem()
	}
	switch ft.Kind() {
	case reflect.Slice:
		if ft.Elem().Kind() == reflect.Uint8 {
			// []byte is a scalar, not a collection
			break
		}
		fi.IsSlice = true
		fi.ElemType = ft.Elem()
		ft = ft.Elem()
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
	case reflect.Map:
		fi.IsMap = true
		fi.ElemType = ft.Elem()
		ft = ft.Elem()
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
	}

	fi.ValueKind = kindOf(ft)

	if checkStr := field.Tag.Get("check"); checkStr != "" {
		rule, err := constraint.Compile(checkStr)
		if err != nil {
			return FieldInfo{}, err
		}
		fi.Rule = rule
	}

	if tag.HasDefault {
		def, err := parseDefault(tag.Default, fi)
		if err != nil {
			return FieldInfo{}, fmt.Errorf("invalid default %q: %w", tag.Default, err)
		}
		fi.DefaultValue = def
	}

	return fi, nil
}

// kindOf maps a Go type to its record value kind.
func kindOf(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
		return KindAny
	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return KindTime
		}
		if embedsBase(t) {
			return KindRecord
		}
		return KindAny
	default:
		return KindAny
	}
}

// parseDefault coerces a tag default literal onto the field's element type.
func parseDefault(literal string, fi FieldInfo) (any, error) {
	switch fi.ValueKind {
	case KindString:
		return literal, nil
	case KindInt:
		return strconv.ParseInt(literal, 10, 64)
	case KindUint:
		return strconv.ParseUint(literal, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(literal, 64)
	case KindBool:
		return strconv.ParseBool(literal)
	case KindTime:
		return time.Parse(time.RFC3339, literal)
	default:
		return nil, fmt.Errorf("default literals are not supported for %s fields", fi.ValueKind)
	}
}
