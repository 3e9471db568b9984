// Package types provides nullable type implementations for handling optional values
// returned by the Odoo RPC surface, which encodes "no value" as JSON false rather
// than null for most scalar field types.
package types

// Nullable defines the interface for types that can represent null/nil values.
// Types implementing this interface can distinguish between a zero value and a null
// value, which matters when projecting Odoo read results where false, null, and a
// missing key all mean "unset".
type Nullable interface {
	// IsNil returns true if the value is null/nil, false otherwise.
	IsNil() bool
}
