// Package guard provides a marker that lets value objects, aggregates and
// commands tell a constructor-built instance apart from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard
// when the caller did not supply its own error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded as a field and set only by constructors.
//
// Example:
//
//	var ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel")
//
//	type Parcel struct {
//	    id    kernel.UUID
//	    guard guard.ConstructorGuard
//	}
//
//	func (p *Parcel) Validate() error {
//	    return p.guard.Validate(ErrParcelIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is
// nil) if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
