// Package record provides declarative, schema-carrying record types over
// plain Go structs.
package record

// Record is the marker interface for record types. Structs become records
// by embedding the Base type and registering via Register.
type Record interface {
	record()
	// IsFrozen reports whether the instance is frozen (immutable).
	IsFrozen() bool
	// Freeze marks the instance as frozen. Frozen instances reject Assign
	// and become hashable.
	Freeze()
}

// Base is an embeddable base type for all record structs. It carries the
// per-instance frozen bit and satisfies the Record interface.
//
// Freezing is enforced at the API level: Assign and Set reject mutation of
// a frozen instance. Direct writes to exported struct fields bypass the
// library, as with any reflection-based facility.
//
// Example usage:
//
//	type Point struct {
//	    record.Base
//	    X int `record:"x,key"`
//	    Y int `record:"y"`
//	}
type Base struct {
	frozen bool
}

func (Base) record() {}

// IsFrozen reports whether the instance is frozen.
func (b *Base) IsFrozen() bool { return b.frozen }

// Freeze marks the instance as frozen.
func (b *Base) Freeze() { b.frozen = true }

func (b *Base) setFrozen(frozen bool) { b.frozen = frozen }
