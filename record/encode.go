package record

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes a record instance as msgpack over its recursive dict
// form, so nested registered records encode as nested maps.
func Marshal[T any](rec *T) ([]byte, error) {
	dict, err := ToDict(rec)
	if err != nil {
		return nil, err
	}
	data, err := msgpack.Marshal(dict)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// Unmarshal decodes msgpack data produced by Marshal into a new record
// instance of T. The decoded values pass through the full construction
// pipeline, so corrupt or out-of-range data is rejected.
func Unmarshal[T any](data []byte) (*T, error) {
	var dict map[string]any
	if err := msgpack.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return FromDict[T](dict)
}
