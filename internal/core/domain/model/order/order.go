package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrNameIsRequired is returned when creating an order without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAddressIsRequired is returned when creating an order without a delivery address.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
	// ErrVisitDateIsRequired is returned when the target visit date is missing or malformed.
	ErrVisitDateIsRequired = errs.NewValueIsRequiredError("visit date in YYYY-MM-DD format")
	// ErrFailureReasonIsRequired is returned when failing an order without a reason code.
	ErrFailureReasonIsRequired = errs.NewValueIsRequiredError("failure reason")
	// ErrOrderAlreadyRouted is returned when assigning an order that already belongs to a route.
	ErrOrderAlreadyRouted = errors.New("order is already assigned to a route")
	// ErrOrderNotRouted is returned when a route-scoped operation hits an unrouted order.
	ErrOrderNotRouted = errors.New("order is not assigned to a route")
)

// Recipient holds the contact details handed to the courier for a stop.
type Recipient struct {
	Name  string
	Phone string
}

// Order represents a delivery order scoped to one tenant. It is the aggregate
// root for the order lifecycle: created by the dispatcher, sequenced into a
// route by the optimizer, then driven to a terminal status by courier actions.
//
// Invariants:
//   - courier and route references are either both nil or both set
//   - routePosition is set iff the order belongs to a route
//   - a terminal status is never left, but terminal retries are idempotent
//   - the destination may be absent (ungeocoded); such orders are skipped by
//     the clusterer, never silently dropped
type Order struct {
	id       kernel.UUID
	tenantID kernel.UUID
	name     string

	pointID     kernel.UUID
	address     string
	destination *kernel.GeoPoint

	visitDate       string
	window          kernel.TimeWindow
	serviceDuration time.Duration
	recipient       Recipient

	courierID     *kernel.UUID
	routeID       *kernel.UUID
	routePosition *int

	status        Status
	failureReason string
	proofRef      string

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Planned status with no route assignment.
//
// The address text is kept alongside the geocoded destination; the destination
// may be nil when the address could not be geocoded yet. Everything else is
// mandatory except the time window (zero value means unconstrained) and the
// recipient contact.
func NewOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	name string,
	pointID kernel.UUID,
	address string,
	destination *kernel.GeoPoint,
	visitDate string,
	window kernel.TimeWindow,
	serviceDuration time.Duration,
	recipient Recipient,
) (*Order, error) {
	o := &Order{
		status: Planned,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setName(name),
		o.setPointID(pointID),
		o.setAddress(address),
		o.setDestination(destination),
		o.setVisitDate(visitDate),
		o.setServiceDuration(serviceDuration),
	); err != nil {
		return nil, err
	}

	o.window = window
	o.recipient = recipient
	return o, nil
}

// RestoreOrder reconstructs an Order from persistent storage, including its
// route linkage and terminal details. Unlike NewOrder it accepts any valid
// status but still enforces the courier/route lockstep invariant.
func RestoreOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	name string,
	pointID kernel.UUID,
	address string,
	destination *kernel.GeoPoint,
	visitDate string,
	window kernel.TimeWindow,
	serviceDuration time.Duration,
	recipient Recipient,
	status Status,
	courierID *kernel.UUID,
	routeID *kernel.UUID,
	routePosition *int,
	failureReason string,
	proofRef string,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setName(name),
		o.setPointID(pointID),
		o.setAddress(address),
		o.setDestination(destination),
		o.setVisitDate(visitDate),
		o.setServiceDuration(serviceDuration),
		status.Validate(),
		validateRouteLinkage(courierID, routeID, routePosition),
	); err != nil {
		return nil, err
	}

	o.window = window
	o.recipient = recipient
	o.status = status
	o.courierID = courierID
	o.routeID = routeID
	o.routePosition = routePosition
	o.failureReason = failureReason
	o.proofRef = proofRef
	return o, nil
}

func validateRouteLinkage(courierID, routeID *kernel.UUID, position *int) error {
	if (courierID == nil) != (routeID == nil) {
		return errs.NewValueIsInvalidErrorWithCause("route linkage",
			errors.New("courier and route references must be both nil or both set"))
	}
	if (routeID == nil) != (position == nil) {
		return errs.NewValueIsInvalidErrorWithCause("route linkage",
			errors.New("route position must be set iff the order belongs to a route"))
	}
	if position != nil && *position < 0 {
		return errs.NewValueIsInvalidErrorWithCause("route position",
			fmt.Errorf("%d is negative", *position))
	}
	return nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TenantID returns the owning tenant.
func (o *Order) TenantID() kernel.UUID {
	return o.tenantID
}

// Name returns the dispatcher-facing order name.
func (o *Order) Name() string {
	return o.name
}

// PointID returns the dispatch point the order originates from.
func (o *Order) PointID() kernel.UUID {
	return o.pointID
}

// Address returns the delivery address text as entered by the dispatcher.
func (o *Order) Address() string {
	return o.address
}

// Destination returns the delivery coordinates, or nil if ungeocoded.
func (o *Order) Destination() *kernel.GeoPoint {
	return o.destination
}

// HasCoordinates reports whether the order is geocoded and thus routable.
func (o *Order) HasCoordinates() bool {
	return o.destination != nil
}

// VisitDate returns the target visit date in YYYY-MM-DD form.
func (o *Order) VisitDate() string {
	return o.visitDate
}

// Window returns the target visit time window (zero when unconstrained).
func (o *Order) Window() kernel.TimeWindow {
	return o.window
}

// ServiceDuration returns the expected time spent at the stop.
func (o *Order) ServiceDuration() time.Duration {
	return o.serviceDuration
}

// RecipientContact returns the contact details for the stop.
func (o *Order) RecipientContact() Recipient {
	return o.recipient
}

// CourierID returns the assigned courier, or nil if unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// RouteID returns the owning route, or nil if unassigned.
func (o *Order) RouteID() *kernel.UUID {
	return o.routeID
}

// RoutePosition returns the zero-based visit index within the route,
// or nil if the order is not routed.
func (o *Order) RoutePosition() *int {
	return o.routePosition
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// FailureReason returns the reason code recorded when the order failed.
func (o *Order) FailureReason() string {
	return o.failureReason
}

// ProofRef returns the delivery proof handle, if one was attached.
func (o *Order) ProofRef() string {
	return o.proofRef
}

// AssignToRoute links the order to a courier's route at the given position.
// Only a planned, not-yet-routed order may be assigned; the courier and route
// references move in lockstep so the both-nil-or-both-set invariant holds.
func (o *Order) AssignToRoute(courierID, routeID kernel.UUID, position int) error {
	if err := errors.Join(courierID.Validate(), routeID.Validate()); err != nil {
		return err
	}
	if o.status != Planned {
		return errs.NewInvalidTransitionError("order", "assign", o.status.String())
	}
	if o.routeID != nil {
		return ErrOrderAlreadyRouted
	}
	if position < 0 {
		return errs.NewValueIsInvalidError("route position")
	}

	o.courierID = &courierID
	o.routeID = &routeID
	o.routePosition = &position
	return nil
}

// MoveToPosition updates the order's visit index during a route reorder.
// The route aggregate owns the sequence; this only accepts the new slot.
func (o *Order) MoveToPosition(routeID kernel.UUID, position int) error {
	if o.routeID == nil || !o.routeID.IsEqual(routeID) {
		return ErrOrderNotRouted
	}
	if position < 0 {
		return errs.NewValueIsInvalidError("route position")
	}

	o.routePosition = &position
	return nil
}

// Detach removes the order from its route, returning it to the unassigned
// pool. Only planned orders may be detached; an order that is already being
// delivered stays bound to its route for history.
func (o *Order) Detach() error {
	if o.status != Planned {
		return errs.NewInvalidTransitionError("order", "detach", o.status.String())
	}

	o.courierID = nil
	o.routeID = nil
	o.routePosition = nil
	return nil
}

// Start records the courier's arrival, moving the order to InProgress.
// Out-of-order starts are allowed: the position sequence is advisory.
func (o *Order) Start() error {
	newStatus, err := o.status.Start()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Complete marks the order delivered, optionally attaching a proof reference
// supplied by the courier channel. Retrying a delivery confirmation is
// accepted; a proof supplied on the retry is kept if none was recorded yet.
func (o *Order) Complete(proofRef string) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	if o.proofRef == "" {
		o.proofRef = proofRef
	}
	return nil
}

// Fail marks the delivery attempt failed with a mandatory reason code.
func (o *Order) Fail(reason string) error {
	if reason == "" {
		return ErrFailureReasonIsRequired
	}

	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}

	o.status = newStatus
	if o.failureReason == "" {
		o.failureReason = reason
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenant", err)
	}
	o.tenantID = tenantID
	return nil
}

func (o *Order) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	o.name = name
	return nil
}

func (o *Order) setPointID(pointID kernel.UUID) error {
	if err := pointID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("dispatch point", err)
	}
	o.pointID = pointID
	return nil
}

func (o *Order) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	o.address = address
	return nil
}

func (o *Order) setDestination(destination *kernel.GeoPoint) error {
	if destination != nil {
		if err := destination.Validate(); err != nil {
			return err
		}
	}
	o.destination = destination
	return nil
}

func (o *Order) setVisitDate(visitDate string) error {
	if _, err := time.Parse("2006-01-02", visitDate); err != nil {
		return ErrVisitDateIsRequired
	}
	o.visitDate = visitDate
	return nil
}

func (o *Order) setServiceDuration(d time.Duration) error {
	if d < 0 {
		return errs.NewValueIsInvalidError("service duration")
	}
	o.serviceDuration = d
	return nil
}
