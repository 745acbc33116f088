package courier

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const authCodeLength = 6

// Domain errors for session binding.
var (
	// ErrAuthCodeIsNotConstructed is returned when using an improperly initialized AuthCode.
	ErrAuthCodeIsNotConstructed = errors.New("AuthCode must be created via NewAuthCode constructor")
	// ErrAuthCodeMalformed is returned when a code is not six numeric digits.
	ErrAuthCodeMalformed = errs.NewValueIsInvalidError("auth code must be six digits")
	// ErrAuthCodeRejected is returned on exchange of an unknown, consumed, or
	// expired code. Deliberately indistinct: the channel learns nothing about
	// which of the three it hit.
	ErrAuthCodeRejected = errors.New("auth code rejected")
)

// AuthCode is a short-lived numeric code binding a courier record to a
// channel identity. It is single-use: a successful exchange consumes it, and
// regeneration replaces it wholesale.
type AuthCode struct {
	code      string
	expiresAt time.Time
	consumed  bool

	guard guard.ConstructorGuard
}

// NewAuthCode creates an unconsumed code valid until expiresAt.
func NewAuthCode(code string, expiresAt time.Time) (AuthCode, error) {
	if !isSixDigits(code) {
		return AuthCode{}, ErrAuthCodeMalformed
	}
	if expiresAt.IsZero() {
		return AuthCode{}, errs.NewValueIsRequiredError("auth code expiry")
	}

	return AuthCode{
		code:      code,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreAuthCode reconstructs a code from persistence, including its
// consumed flag.
func RestoreAuthCode(code string, expiresAt time.Time, consumed bool) (AuthCode, error) {
	a, err := NewAuthCode(code, expiresAt)
	if err != nil {
		return AuthCode{}, err
	}

	a.consumed = consumed
	return a, nil
}

// Validate ensures the AuthCode was created through a constructor.
func (a AuthCode) Validate() error {
	return a.guard.Validate(ErrAuthCodeIsNotConstructed)
}

// Code returns the numeric code string.
func (a AuthCode) Code() string {
	return a.code
}

// ExpiresAt returns the end of the code's validity window.
func (a AuthCode) ExpiresAt() time.Time {
	return a.expiresAt
}

// IsConsumed reports whether the code was already exchanged.
func (a AuthCode) IsConsumed() bool {
	return a.consumed
}

// IsExpired reports whether the validity window has passed.
func (a AuthCode) IsExpired(now time.Time) bool {
	return !now.Before(a.expiresAt)
}

// Matches reports whether the submitted code can be exchanged right now.
func (a AuthCode) Matches(submitted string, now time.Time) bool {
	return !a.consumed && !a.IsExpired(now) && a.code == submitted
}

func isSixDigits(s string) bool {
	if len(s) != authCodeLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
