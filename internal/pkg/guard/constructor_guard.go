package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error
// is supplied and the guarded object was not created via its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as having been created through its
// designated constructor function. Embedding a ConstructorGuard in a struct
// makes the zero value detectable: a zero-value struct carries a zero-value
// guard and fails Validate.
//
// This keeps domain objects honest about their invariants - a struct literal
// bypassing the constructor is caught on first use rather than propagating
// a half-initialized value through the system.
//
// Example usage:
//
//	type AuthCode struct {
//	    code  string
//	    guard ConstructorGuard
//	}
//
//	func NewAuthCode(code string) (AuthCode, error) {
//	    if code == "" {
//	        return AuthCode{}, errors.New("code is required")
//	    }
//	    return AuthCode{code: code, guard: NewConstructorGuard()}, nil
//	}
//
//	func (a AuthCode) Validate() error {
//	    return a.guard.Validate(ErrAuthCodeIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed. Call it inside the object's constructor only.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the guarded object was created via its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
