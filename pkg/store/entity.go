package store

import "github.com/mesh-intelligence/pantry/pkg/types"

// Entity is the codec contract a domain type implements to participate in
// storage: a stable record-type tag plus bidirectional conversion between
// the domain type and its record form.
type Entity interface {
	// RecordType returns the tag grouping records of this type. It must not
	// depend on instance state; the facade calls it on zero values.
	RecordType() string

	// MarshalRecord encodes the receiver into a record, carrying the
	// identifier when the receiver has been saved before.
	MarshalRecord() (*types.Record, error)

	// UnmarshalRecord reconstructs the receiver from a record. It must fail
	// when a required field is absent or of the wrong kind, never default.
	UnmarshalRecord(*types.Record) error
}

// EntityOf constrains a type parameter to pointers of T implementing
// Entity, so callers name only the value type: store.Get[todo.Todo].
type EntityOf[T any] interface {
	*T
	Entity
}
