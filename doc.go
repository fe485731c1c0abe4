// Package recordlite provides declarative, schema-carrying record types
// over plain Go structs.
//
// Declare fields with struct tags, and get per-field transformation,
// validation, type coercion, optional immutability, equality, ordering,
// hashing, dict and msgpack serialization, a fluent builder, and SQL
// convenience helpers, all driven by a runtime schema registry.
//
// The module is organized into three packages:
//
//   - [github.com/recordlite/recordlite/record]: registry, tags, construction pipeline, serialization, manifests
//   - [github.com/recordlite/recordlite/constraint]: the 'check' tag expression language and compiled rules
//   - [github.com/recordlite/recordlite/recorddb]: SQL statement generation, row scanning, and a generic store
//
// The record and constraint packages have no database dependency; only
// recorddb talks to database/sql.
package recordlite
