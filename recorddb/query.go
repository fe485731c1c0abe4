package recorddb

import (
	"context"
	"fmt"
	"strings"
)

// Query provides a chainable API for constructing and executing SELECT
// queries for a record type T.
type Query[T any] struct {
	store   *Store[T]
	wheres  []whereClause
	orderBy []OrderClause
	limit   int
	offset  int
}

type whereClause struct {
	field string
	op    string
	value any
}

// OrderClause specifies a field name and sort direction for query results.
type OrderClause struct {
	Field string
	Desc  bool
}

var validOps = map[string]bool{
	"=": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true,
}

// Where adds a filtering condition. Multiple conditions combine with AND.
// Supported operators: =, !=, <, <=, >, >=, LIKE.
func (q *Query[T]) Where(field, op string, value any) *Query[T] {
	q.wheres = append(q.wheres, whereClause{field: field, op: op, value: value})
	return q
}

// OrderAsc adds an ascending sort order on the specified field.
func (q *Query[T]) OrderAsc(field string) *Query[T] {
	q.orderBy = append(q.orderBy, OrderClause{Field: field})
	return q
}

// OrderDesc adds a descending sort order on the specified field.
func (q *Query[T]) OrderDesc(field string) *Query[T] {
	q.orderBy = append(q.orderBy, OrderClause{Field: field, Desc: true})
	return q
}

// Limit restricts the number of results returned by the query.
func (q *Query[T]) Limit(n int) *Query[T] {
	q.limit = n
	return q
}

// Offset skips the first n results returned by the query.
func (q *Query[T]) Offset(n int) *Query[T] {
	q.offset = n
	return q
}

// All executes the query and returns every matching record.
func (q *Query[T]) All(ctx context.Context) ([]*T, error) {
	columns, err := q.store.columnList()
	if err != nil {
		return nil, err
	}
	query, args, err := q.buildQuery("SELECT " + columns)
	if err != nil {
		return nil, err
	}

	rows, err := q.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.store.info.TypeName, err)
	}
	defer rows.Close()

	return ScanAll[T](rows, nil)
}

// First executes the query with a limit of 1 and returns the first result,
// or nil if none match.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	q.limit = 1
	results, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Count returns the number of rows matching the query.
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	query, args, err := q.buildQuery("SELECT COUNT(*)")
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", q.store.info.TypeName, err)
	}
	return count, nil
}

// Exists returns true if the query matches at least one row.
func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// buildQuery assembles the statement from the staged clauses, validating
// field names against the schema and operators against the supported set.
func (q *Query[T]) buildQuery(selectClause string) (string, []any, error) {
	var b strings.Builder
	b.WriteString(selectClause)
	b.WriteString(" FROM ")
	b.WriteString(q.store.table)

	var args []any
	if len(q.wheres) > 0 {
		conditions := make([]string, len(q.wheres))
		for i, w := range q.wheres {
			fi, ok := q.store.info.Field(w.field)
			if !ok {
				return "", nil, fmt.Errorf("query %s: unknown field %q", q.store.info.TypeName, w.field)
			}
			op := w.op
			if strings.EqualFold(op, "like") {
				op = "LIKE"
			}
			if !validOps[op] {
				return "", nil, &InvalidOpError{Op: w.op}
			}
			conditions[i] = fi.Name() + " " + op + " ?"
			args = append(args, w.value)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	if len(q.orderBy) > 0 {
		clauses := make([]string, len(q.orderBy))
		for i, oc := range q.orderBy {
			fi, ok := q.store.info.Field(oc.Field)
			if !ok {
				return "", nil, fmt.Errorf("query %s: unknown order field %q", q.store.info.TypeName, oc.Field)
			}
			direction := "ASC"
			if oc.Desc {
				direction = "DESC"
			}
			clauses[i] = fi.Name() + " " + direction
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(clauses, ", "))
	}

	if q.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.limit)
	} else if q.offset > 0 {
		// sqlite rejects OFFSET without a LIMIT clause; -1 means no limit
		b.WriteString(" LIMIT -1")
	}
	if q.offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.offset)
	}

	return b.String(), args, nil
}
