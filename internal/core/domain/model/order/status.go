package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions:
//
//	Planned ──> InProgress ──┬──> Completed
//	   │                     └──> Failed
//	   └──────(deliver/fail directly; arrival is implied)──> Completed/Failed
//
// Completed and Failed are terminal. Repeating an action whose target status
// already holds is accepted (idempotent retries), but no transition ever
// leaves a terminal status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Planned is the initial status: the order awaits its visit,
	// either unassigned or sequenced into a route.
	Planned

	// InProgress indicates the courier has arrived or started the visit.
	InProgress

	// Completed indicates the order was delivered. Terminal.
	Completed

	// Failed indicates the delivery attempt failed. Terminal.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Planned:    "planned",
		InProgress: "in_progress",
		Completed:  "completed",
		Failed:     "failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Planned:    "planned",
		InProgress: "in_progress",
		Completed:  "completed",
		Failed:     "failed",
	}
}

// StatusFromString maps a persisted status string back to a Status value.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
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

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// Start transitions the status to InProgress.
//
// Valid from Planned, idempotent from InProgress. Rejected from a terminal
// status: a courier retrying "arrived" after a delivery confirmation must not
// reopen the order.
func (s Status) Start() (Status, error) {
	switch s {
	case Planned, InProgress:
		return InProgress, nil
	default:
		return Unknown, errs.NewInvalidTransitionError("order", "start", s.String())
	}
}

// Complete transitions the status to Completed.
//
// Valid from InProgress, and from Planned directly - a "delivered" action on
// a planned order implies arrival (out-of-order delivery is allowed, the
// route position is advisory). Idempotent from Completed; rejected from
// Failed.
func (s Status) Complete() (Status, error) {
	switch s {
	case Planned, InProgress, Completed:
		return Completed, nil
	default:
		return Unknown, errs.NewInvalidTransitionError("order", "complete", s.String())
	}
}

// Fail transitions the status to Failed, under the same rules as Complete.
func (s Status) Fail() (Status, error) {
	switch s {
	case Planned, InProgress, Failed:
		return Failed, nil
	default:
		return Unknown, errs.NewInvalidTransitionError("order", "fail", s.String())
	}
}
