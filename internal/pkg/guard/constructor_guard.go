// Package guard provides the constructor guard pattern used by value objects,
// entities and commands throughout the application.
//
// Embedding a ConstructorGuard in a struct makes it possible to distinguish a
// properly constructed instance from a zero value: the guard flag is only set
// by NewConstructorGuard, which should be called exclusively from designated
// constructor functions. Validate methods then reject zero-value instances,
// keeping domain invariants intact even when structs cross serialization or
// persistence boundaries.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller did not
// supply a more specific validation error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
// The zero value of ConstructorGuard fails validation.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as properly
// constructed. Call it only from constructor functions.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the enclosing object was created through its
// constructor. Otherwise it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
