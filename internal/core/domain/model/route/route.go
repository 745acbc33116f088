package route

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for route operations.
var (
	// ErrRouteIsNotConstructed is returned when a Route was not created
	// through NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute constructor")
	// ErrStopsAreRequired is returned when creating a route without any stops.
	ErrStopsAreRequired = errs.NewValueIsRequiredError("at least one stop")
	// ErrDuplicateStops is returned when the stop sequence references an order twice.
	ErrDuplicateStops = errors.New("stop sequence contains duplicate orders")
	// ErrNotAPermutation is returned when a reorder does not cover exactly the current membership.
	ErrNotAPermutation = errors.New("new sequence is not a permutation of the route's orders")
)

// CostSummary holds the planned travel totals for a route.
type CostSummary struct {
	DistanceMeters float64
	Duration       time.Duration
}

// Route represents one courier's planned visit sequence for one day.
// It is the aggregate root owning the position ordering of its member orders:
// positions are implicitly the indices of the stop slice, so they are always
// exactly 0..n-1 with no gaps or duplicates.
//
// Orders are referenced by id only (weak references); the order rows carry
// the back-reference and position for lookup.
type Route struct {
	id        kernel.UUID
	tenantID  kernel.UUID
	courierID kernel.UUID
	date      string
	status    Status

	stops    []kernel.UUID
	geometry string
	cost     CostSummary

	guard guard.ConstructorGuard
}

// NewRoute creates an active route for a courier with the given ordered stops.
// The stop sequence must be non-empty and free of duplicates.
func NewRoute(
	id kernel.UUID,
	tenantID kernel.UUID,
	courierID kernel.UUID,
	date string,
	stops []kernel.UUID,
	geometry string,
	cost CostSummary,
) (*Route, error) {
	r := &Route{
		status: Active,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setTenantID(tenantID),
		r.setCourierID(courierID),
		r.setDate(date),
		r.setStops(stops),
	); err != nil {
		return nil, err
	}

	r.geometry = geometry
	r.cost = cost
	return r, nil
}

// RestoreRoute reconstructs a Route from persistent storage.
func RestoreRoute(
	id kernel.UUID,
	tenantID kernel.UUID,
	courierID kernel.UUID,
	date string,
	status Status,
	stops []kernel.UUID,
	geometry string,
	cost CostSummary,
) (*Route, error) {
	r := &Route{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setTenantID(tenantID),
		r.setCourierID(courierID),
		r.setDate(date),
		r.setStops(stops),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	r.status = status
	r.geometry = geometry
	r.cost = cost
	return r, nil
}

// Validate ensures the Route was created through a constructor.
func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// TenantID returns the owning tenant.
func (r *Route) TenantID() kernel.UUID {
	return r.tenantID
}

// CourierID returns the courier driving the route.
func (r *Route) CourierID() kernel.UUID {
	return r.courierID
}

// Date returns the route's date in YYYY-MM-DD form.
func (r *Route) Date() string {
	return r.date
}

// Status returns the route lifecycle status.
func (r *Route) Status() Status {
	return r.status
}

// Stops returns the ordered member order ids. The slice is a copy.
func (r *Route) Stops() []kernel.UUID {
	out := make([]kernel.UUID, len(r.stops))
	copy(out, r.stops)
	return out
}

// PositionOf returns the zero-based visit index of an order within the route.
func (r *Route) PositionOf(orderID kernel.UUID) (int, bool) {
	for i, id := range r.stops {
		if id.IsEqual(orderID) {
			return i, true
		}
	}
	return 0, false
}

// Geometry returns the encoded path polyline for the whole route.
func (r *Route) Geometry() string {
	return r.geometry
}

// Cost returns the planned travel totals.
func (r *Route) Cost() CostSummary {
	return r.cost
}

// Reorder replaces the visit sequence with a permutation of the current
// membership. Applying the same target sequence twice is a no-op. The caller
// is responsible for checking that no member order has left planned status;
// the aggregate only guards membership and its own lifecycle.
func (r *Route) Reorder(sequence []kernel.UUID) error {
	if r.status != Active {
		return errs.NewInvalidTransitionError("route", "reorder", r.status.String())
	}
	if len(sequence) != len(r.stops) {
		return ErrNotAPermutation
	}

	seen := make(map[kernel.UUID]bool, len(sequence))
	for _, id := range sequence {
		if _, ok := r.PositionOf(id); !ok {
			return ErrNotAPermutation
		}
		if seen[id] {
			return ErrNotAPermutation
		}
		seen[id] = true
	}

	r.stops = make([]kernel.UUID, len(sequence))
	copy(r.stops, sequence)
	return nil
}

// UpdatePath replaces the stored geometry and cost summary, e.g. after a
// reorder recomputed the path through the travel cost provider.
func (r *Route) UpdatePath(geometry string, cost CostSummary) {
	r.geometry = geometry
	r.cost = cost
}

// TryComplete transitions the route to Completed iff every member order has
// reached a terminal status. It reports whether the route is now completed.
// This is the only path to route completion. Calling it on an already
// completed route is a no-op.
func (r *Route) TryComplete(statuses map[kernel.UUID]order.Status) (bool, error) {
	if r.status == Completed {
		return true, nil
	}

	for _, id := range r.stops {
		s, ok := statuses[id]
		if !ok {
			return false, errs.NewObjectNotFoundError("order status", id.String())
		}
		if !s.IsTerminal() {
			return false, nil
		}
	}

	r.status = Completed
	return true, nil
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant", err)
	}
	r.tenantID = tenantID
	return nil
}

func (r *Route) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("courier", err)
	}
	r.courierID = courierID
	return nil
}

func (r *Route) setDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errs.NewValueIsRequiredError("date in YYYY-MM-DD format")
	}
	r.date = date
	return nil
}

func (r *Route) setStops(stops []kernel.UUID) error {
	if len(stops) == 0 {
		return ErrStopsAreRequired
	}

	seen := make(map[kernel.UUID]bool, len(stops))
	for _, id := range stops {
		if err := id.Validate(); err != nil {
			return err
		}
		if seen[id] {
			return ErrDuplicateStops
		}
		seen[id] = true
	}

	r.stops = make([]kernel.UUID, len(stops))
	copy(r.stops, stops)
	return nil
}
