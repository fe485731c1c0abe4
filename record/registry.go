package record

import (
	"fmt"
	"reflect"
	"sync"
)

var globalRegistry = &Registry{
	byName: make(map[string]*RecordInfo),
	byType: make(map[reflect.Type]*RecordInfo),
}

// Registry maintains a mapping between Go struct types and record metadata.
// It is used to look up schema information during construction, validation,
// serialization, and SQL generation.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*RecordInfo
	byType map[reflect.Type]*RecordInfo
}

// Register adds a Go struct type to the global registry as a record type.
// The type T must embed record.Base. Re-registering the same Go type
// replaces its metadata and discards previously registered hooks.
func Register[T any]() error {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	info, err := ExtractRecordInfo(t)
	if err != nil {
		return fmt.Errorf("registering %s: %w", t.Name(), err)
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if existing, ok := globalRegistry.byName[info.TypeName]; ok {
		if existing.GoType != t {
			return fmt.Errorf("type name %q already registered to %s", info.TypeName, existing.GoType.Name())
		}
	}

	globalRegistry.byName[info.TypeName] = info
	globalRegistry.byType[t] = info
	return nil
}

// MustRegister is a helper that calls Register and panics if an error
// occurs. It is intended for use during application initialization.
func MustRegister[T any]() {
	if err := Register[T](); err != nil {
		panic(err)
	}
}

// Lookup retrieves RecordInfo for a given record type name.
func Lookup(typeName string) (*RecordInfo, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	info, ok := globalRegistry.byName[typeName]
	return info, ok
}

// LookupType retrieves RecordInfo for a given Go reflect.Type.
func LookupType(t reflect.Type) (*RecordInfo, bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	info, ok := globalRegistry.byType[t]
	return info, ok
}

// RegisteredTypes returns a slice containing RecordInfo for all registered
// types.
func RegisteredTypes() []*RecordInfo {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	result := make([]*RecordInfo, 0, len(globalRegistry.byType))
	for _, info := range globalRegistry.byType {
		result = append(result, info)
	}
	return result
}

// ClearRegistry resets the global registry, removing all registered types.
// This is primarily used for testing purposes.
func ClearRegistry() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.byName = make(map[string]*RecordInfo)
	globalRegistry.byType = make(map[reflect.Type]*RecordInfo)
}

// infoFor resolves RecordInfo for T or returns NotRegisteredError.
func infoFor[T any]() (*RecordInfo, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	info, ok := LookupType(t)
	if !ok {
		return nil, &NotRegisteredError{TypeName: t.Name()}
	}
	return info, nil
}
