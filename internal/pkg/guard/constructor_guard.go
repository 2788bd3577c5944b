// Package guard provides ConstructorGuard, a marker that lets commands, queries and
// value objects detect whether they were built through their constructor or appeared
// as a bare zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes no
// specific error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded as a private field. Only the owning constructor calls
// NewConstructorGuard, so a zero-value struct fails Validate.
//
// Example:
//
//	var ErrChangeOrderStatusCommandIsNotConstructed = errors.New("...")
//
//	type ChangeOrderStatusCommand struct {
//	    orderID kernel.ID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c ChangeOrderStatusCommand) Validate() error {
//	    return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
