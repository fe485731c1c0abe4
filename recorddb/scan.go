package recorddb

import (
	"database/sql"
	"fmt"

	"github.com/recordlite/recordlite/record"
)

// ScanRow hydrates a record instance from the current row of rows. The
// optional mapping translates database column names to record field names.
// Scanned values pass through the record's full construction pipeline.
func ScanRow[T any](rows *sql.Rows, mapping map[string]string) (*T, error) {
	dict, err := rowDict(rows, mapping)
	if err != nil {
		return nil, err
	}
	return record.FromDict[T](dict)
}

// ScanAll advances through rows, hydrating every row into a record
// instance.
func ScanAll[T any](rows *sql.Rows, mapping map[string]string) ([]*T, error) {
	var out []*T
	for rows.Next() {
		rec, err := ScanRow[T](rows, mapping)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan rows: %w", err)
	}
	return out, nil
}

// rowDict reads the current row into a dict keyed by (mapped) column names.
func rowDict(rows *sql.Rows, mapping map[string]string) (map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	if err := rows.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	dict := make(map[string]any, len(columns))
	for i, column := range columns {
		name := column
		if mapped, ok := mapping[column]; ok {
			name = mapped
		}
		dict[name] = values[i]
	}
	return dict, nil
}
