package kernel

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

const minutesPerDay = 24 * 60

// TimeWindow represents an order's target visit window within its visit day,
// expressed as minutes from midnight. The zero value means "no window": any
// arrival time is feasible.
//
// Windows constrain the solver, not the courier: an arrival later than the
// window end (plus the configured slack) makes an insertion infeasible during
// planning, but a live courier action is never rejected because of it.
type TimeWindow struct {
	from int
	to   int
	set  bool
}

// NewTimeWindow creates a window spanning [from, to] minutes from midnight.
func NewTimeWindow(from, to int) (TimeWindow, error) {
	if from < 0 || from >= minutesPerDay {
		return TimeWindow{}, errs.NewValueIsOutOfRangeError("window start", from, 0, minutesPerDay-1)
	}
	if to <= 0 || to > minutesPerDay {
		return TimeWindow{}, errs.NewValueIsOutOfRangeError("window end", to, 1, minutesPerDay)
	}
	if from >= to {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("time window",
			fmt.Errorf("start %d is not before end %d", from, to))
	}

	return TimeWindow{from: from, to: to, set: true}, nil
}

// ParseTimeWindow parses "HH:MM-HH:MM" into a TimeWindow.
// An empty string yields the unconstrained zero window.
func ParseTimeWindow(s string) (TimeWindow, error) {
	if s == "" {
		return TimeWindow{}, nil
	}

	var fromH, fromM, toH, toM int
	if _, err := fmt.Sscanf(s, "%d:%d-%d:%d", &fromH, &fromM, &toH, &toM); err != nil {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("time window", err)
	}

	return NewTimeWindow(fromH*60+fromM, toH*60+toM)
}

// IsZero reports whether the window is unconstrained.
func (w TimeWindow) IsZero() bool {
	return !w.set
}

// From returns the window start in minutes from midnight.
func (w TimeWindow) From() int {
	return w.from
}

// To returns the window end in minutes from midnight.
func (w TimeWindow) To() int {
	return w.to
}

// FitsWithSlack reports whether an arrival at the given offset from midnight
// is feasible. Arrivals before the window start are feasible (the courier
// waits); arrivals after the end are tolerated up to slack.
func (w TimeWindow) FitsWithSlack(arrival, slack time.Duration) bool {
	if !w.set {
		return true
	}
	return arrival <= time.Duration(w.to)*time.Minute+slack
}

// EffectiveStart returns the service start for an arrival at the given offset:
// the arrival itself, or the window start if the courier arrives early.
func (w TimeWindow) EffectiveStart(arrival time.Duration) time.Duration {
	if !w.set {
		return arrival
	}
	if from := time.Duration(w.from) * time.Minute; arrival < from {
		return from
	}
	return arrival
}

// String renders the window as "HH:MM-HH:MM", or "" when unconstrained.
func (w TimeWindow) String() string {
	if !w.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.from/60, w.from%60, w.to/60, w.to%60)
}
