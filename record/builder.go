package record

import "context"

// Builder provides a chainable API for assembling the values of a record
// instance before running the construction pipeline.
//
//	point, err := record.NewBuilder[Point]().
//	    Set("x", 3).
//	    Set("y", 4).
//	    Build()
type Builder[T any] struct {
	values map[string]any
}

// NewBuilder creates a fluent builder for the record type T.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{values: make(map[string]any)}
}

// Set stages a value for the named field. Setting the same field again
// overwrites the staged value. Unknown field names surface at Build time.
func (b *Builder[T]) Set(field string, value any) *Builder[T] {
	b.values[field] = value
	return b
}

// Merge stages all values from the given map, overwriting staged values for
// the same fields.
func (b *Builder[T]) Merge(values map[string]any) *Builder[T] {
	for name, value := range values {
		b.values[name] = value
	}
	return b
}

// Values returns a copy of the currently staged values.
func (b *Builder[T]) Values() map[string]any {
	out := make(map[string]any, len(b.values))
	for name, value := range b.values {
		out[name] = value
	}
	return out
}

// Build constructs the record instance from the staged values.
func (b *Builder[T]) Build(opts ...Option) (*T, error) {
	return New[T](b.values, opts...)
}

// BuildContext constructs the record instance and runs context validators.
func (b *Builder[T]) BuildContext(ctx context.Context, opts ...Option) (*T, error) {
	return NewContext[T](ctx, b.values, opts...)
}
