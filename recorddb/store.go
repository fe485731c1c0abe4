package recorddb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/recordlite/recordlite/record"
)

// Store provides CRUD operations for a registered record type T against a
// single database table.
type Store[T any] struct {
	db    *sql.DB
	table string
	info  *record.RecordInfo
}

// NewStore creates a Store for the record type T bound to the given table.
// T must be a struct that has been registered via record.Register[T]().
func NewStore[T any](db *sql.DB, table string) *Store[T] {
	info, err := lookupInfo[T]()
	if err != nil {
		var zero T
		panic(fmt.Sprintf("recorddb: type %T is not registered; call record.Register first", zero))
	}
	return &Store[T]{db: db, table: table, info: info}
}

// Table returns the table name the store is bound to.
func (s *Store[T]) Table() string { return s.table }

// CreateTable creates the backing table if it does not exist.
func (s *Store[T]) CreateTable(ctx context.Context) error {
	query, err := CreateTableSQL[T](s.table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Insert adds a record instance to the table.
func (s *Store[T]) Insert(ctx context.Context, rec *T) error {
	query, values, err := InsertSQL(rec, s.table)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("insert %s: %w", s.info.TypeName, err)
	}
	return nil
}

// Update rewrites the row identified by the record's key field.
func (s *Store[T]) Update(ctx context.Context, rec *T) error {
	key, err := s.keyField("update")
	if err != nil {
		return err
	}
	query, values, err := UpdateSQL(rec, s.table, key.Name())
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("update %s: %w", s.info.TypeName, err)
	}
	return nil
}

// Delete removes the row identified by the record's key field.
func (s *Store[T]) Delete(ctx context.Context, rec *T) error {
	key, err := s.keyField("delete")
	if err != nil {
		return err
	}
	query, values, err := DeleteSQL(rec, s.table, key.Name())
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("delete %s: %w", s.info.TypeName, err)
	}
	return nil
}

// Get retrieves the record whose key field equals keyValue, returning
// NotFoundError when no row matches.
func (s *Store[T]) Get(ctx context.Context, keyValue any) (*T, error) {
	key, err := s.keyField("get")
	if err != nil {
		return nil, err
	}

	columns, err := s.columnList()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1", columns, s.table, key.Name())

	rows, err := s.db.QueryContext(ctx, query, keyValue)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.info.TypeName, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get %s: %w", s.info.TypeName, err)
		}
		return nil, &NotFoundError{TypeName: s.info.TypeName}
	}
	return ScanRow[T](rows, nil)
}

// Select starts a chainable query against the store's table.
func (s *Store[T]) Select() *Query[T] {
	return &Query[T]{store: s}
}

func (s *Store[T]) keyField(operation string) (record.FieldInfo, error) {
	if len(s.info.KeyFields) != 1 {
		return record.FieldInfo{}, &MissingKeyError{TypeName: s.info.TypeName, Operation: operation}
	}
	return s.info.KeyFields[0], nil
}

// columnList renders the mappable columns in declaration order so scanned
// rows line up with the schema.
func (s *Store[T]) columnList() (string, error) {
	fields, err := sqlFields(s.info, nil)
	if err != nil {
		return "", err
	}
	names := make([]string, len(fields))
	for i, fi := range fields {
		names[i] = fi.Name()
	}
	return strings.Join(names, ", "), nil
}
