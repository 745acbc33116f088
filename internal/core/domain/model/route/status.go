package route

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a route.
//
//	Active ──> Completed
//
// A route completes only when every member order reached a terminal status;
// there is no direct dispatcher action for it.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Active is the initial status: the route is being driven.
	Active

	// Completed indicates every member order is terminal. Terminal.
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Active:    "active",
		Completed: "completed",
	}
}

// StatusFromString maps a persisted status string back to a Status value.
func StatusFromString(s string) (Status, error) {
	switch s {
	case "active":
		return Active, nil
	case "completed":
		return Completed, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid route status", s))
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s != Active && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid route status", s))
	}
	return nil
}

// String returns the persisted/displayed name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
