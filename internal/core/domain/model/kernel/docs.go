// Package kernel contains shared value objects used across the domain model:
// identifiers, geographic coordinates, and monetary amounts.
//
// All value objects in this package are immutable and validated at
// construction. The zero value of each type is invalid; instances must be
// created through the provided constructor functions, which is enforced via
// the constructor guard pattern where the zero value cannot be told apart
// from a valid one by its fields alone.
package kernel
