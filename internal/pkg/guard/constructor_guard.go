// Package guard provides ConstructorGuard, a marker that lets value objects,
// commands and queries detect whether they were created through their
// constructor or used as a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into types whose zero value is not a valid instance.
//
// Example:
//
//	type AddItemCommand struct {
//	    boxID int
//	    guard guard.ConstructorGuard
//	}
//
//	func (c AddItemCommand) Validate() error {
//	    return c.guard.Validate(ErrAddItemCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
