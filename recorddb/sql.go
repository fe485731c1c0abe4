// Package recorddb provides SQL convenience helpers over registered record
// types: statement generation, row scanning, and a small generic store.
//
// Statements use '?' placeholders and sqlite column types; the package is
// exercised against modernc.org/sqlite.
package recorddb

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/recordlite/recordlite/record"
)

// InsertSQL generates an INSERT statement and bind values for a record
// instance. Fields named in exclude (by dict name) are omitted.
func InsertSQL[T any](rec *T, table string, exclude ...string) (string, []any, error) {
	info, err := lookupInfo[T]()
	if err != nil {
		return "", nil, err
	}

	fields, err := sqlFields(info, exclude)
	if err != nil {
		return "", nil, err
	}

	rv := reflect.ValueOf(rec).Elem()
	columns := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, fi := range fields {
		columns[i] = fi.Name()
		placeholders[i] = "?"
		values[i] = columnValue(fi, rv.Field(fi.FieldIndex))
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return sql, values, nil
}

// UpdateSQL generates an UPDATE statement and bind values for a record
// instance, keyed on whereField. The where field is excluded from the SET
// clause and its value is appended last.
func UpdateSQL[T any](rec *T, table, whereField string, exclude ...string) (string, []any, error) {
	info, err := lookupInfo[T]()
	if err != nil {
		return "", nil, err
	}

	whereFi, ok := info.Field(whereField)
	if !ok {
		return "", nil, fmt.Errorf("update %s: unknown where field %q", info.TypeName, whereField)
	}

	fields, err := sqlFields(info, append([]string{whereField}, exclude...))
	if err != nil {
		return "", nil, err
	}

	rv := reflect.ValueOf(rec).Elem()
	assignments := make([]string, len(fields))
	values := make([]any, 0, len(fields)+1)
	for i, fi := range fields {
		assignments[i] = fi.Name() + " = ?"
		values = append(values, columnValue(fi, rv.Field(fi.FieldIndex)))
	}
	values = append(values, columnValue(whereFi, rv.Field(whereFi.FieldIndex)))

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		table, strings.Join(assignments, ", "), whereFi.Name())
	return sql, values, nil
}

// DeleteSQL generates a DELETE statement and bind values for a record
// instance, keyed on whereField.
func DeleteSQL[T any](rec *T, table, whereField string) (string, []any, error) {
	info, err := lookupInfo[T]()
	if err != nil {
		return "", nil, err
	}

	whereFi, ok := info.Field(whereField)
	if !ok {
		return "", nil, fmt.Errorf("delete %s: unknown where field %q", info.TypeName, whereField)
	}

	rv := reflect.ValueOf(rec).Elem()
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, whereFi.Name())
	return sql, []any{columnValue(whereFi, rv.Field(whereFi.FieldIndex))}, nil
}

// CreateTableSQL generates a CREATE TABLE IF NOT EXISTS statement for the
// record type T. Key fields become the primary key; non-pointer fields are
// NOT NULL.
func CreateTableSQL[T any](table string) (string, error) {
	info, err := lookupInfo[T]()
	if err != nil {
		return "", err
	}

	fields, err := sqlFields(info, nil)
	if err != nil {
		return "", err
	}

	defs := make([]string, 0, len(fields)+1)
	for _, fi := range fields {
		def := fi.Name() + " " + columnType(fi)
		if !fi.IsPointer {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}

	if len(info.KeyFields) > 0 {
		keys := make([]string, len(info.KeyFields))
		for i, fi := range info.KeyFields {
			keys[i] = fi.Name()
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(keys, ", ")+")")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", ")), nil
}

// sqlFields returns the mappable fields of a record type minus the excluded
// dict names, erroring on any remaining field that has no column mapping.
func sqlFields(info *record.RecordInfo, exclude []string) ([]record.FieldInfo, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var fields []record.FieldInfo
	for _, fi := range info.Fields {
		if excluded[fi.Name()] {
			continue
		}
		if fi.IsSlice || fi.IsMap || fi.ValueKind == record.KindRecord || fi.ValueKind == record.KindAny {
			return nil, &UnsupportedFieldError{TypeName: info.TypeName, Field: fi.Name(), Kind: fi.ValueKind}
		}
		fields = append(fields, fi)
	}
	return fields, nil
}

// columnType maps a field kind to its sqlite column type.
func columnType(fi record.FieldInfo) string {
	switch fi.ValueKind {
	case record.KindInt, record.KindUint, record.KindBool:
		return "INTEGER"
	case record.KindFloat:
		return "REAL"
	case record.KindBytes:
		return "BLOB"
	default:
		// strings and datetimes (stored as RFC 3339 text)
		return "TEXT"
	}
}

// columnValue converts a field value to its SQL bind representation:
// booleans bind as 0/1, times as RFC 3339 text, nil pointers as NULL.
func columnValue(fi record.FieldInfo, fv reflect.Value) any {
	if fi.IsPointer {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}

	switch fi.ValueKind {
	case record.KindBool:
		if fv.Bool() {
			return int64(1)
		}
		return int64(0)
	case record.KindTime:
		return fv.Interface().(time.Time).Format(time.RFC3339Nano)
	case record.KindUint:
		return int64(fv.Uint())
	default:
		return fv.Interface()
	}
}

func lookupInfo[T any]() (*record.RecordInfo, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	info, ok := record.LookupType(t)
	if !ok {
		return nil, &record.NotRegisteredError{TypeName: t.Name()}
	}
	return info, nil
}
