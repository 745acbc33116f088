package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNameIsRequired = errors.New("order name is required")
)

// CreateOrderCommand registers a delivery order for a visit date. The
// destination address is geocoded best effort: an order whose address cannot
// be resolved is still created and sits out planning runs until fixed.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	tenantID        kernel.UUID
	name            string
	pointID         kernel.UUID
	address         string
	visitDate       string
	window          kernel.TimeWindow
	serviceDuration time.Duration
	recipient       order.Recipient

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates an order registration command. The window
// string uses "HH:MM-HH:MM" form, empty for unconstrained.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	tenantID kernel.UUID,
	name string,
	pointID kernel.UUID,
	address string,
	visitDate string,
	window string,
	serviceDuration time.Duration,
	recipient order.Recipient,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTenantID(tenantID),
		cmd.setName(name),
		cmd.setPointID(pointID),
		cmd.setAddress(address),
		cmd.setVisitDate(visitDate),
		cmd.setWindow(window),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.serviceDuration = serviceDuration
	cmd.recipient = recipient
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the new order's identifier.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TenantID returns the owning tenant.
func (c CreateOrderCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// Name returns the order's display name.
func (c CreateOrderCommand) Name() string {
	return c.name
}

// PointID returns the pickup point the order ships from.
func (c CreateOrderCommand) PointID() kernel.UUID {
	return c.pointID
}

// Address returns the destination street address.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// VisitDate returns the target visit date.
func (c CreateOrderCommand) VisitDate() string {
	return c.visitDate
}

// Window returns the parsed visit window.
func (c CreateOrderCommand) Window() kernel.TimeWindow {
	return c.window
}

// ServiceDuration returns the expected on-site handling time.
func (c CreateOrderCommand) ServiceDuration() time.Duration {
	return c.serviceDuration
}

// Recipient returns the contact details for the stop.
func (c CreateOrderCommand) Recipient() order.Recipient {
	return c.recipient
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *CreateOrderCommand) setName(name string) error {
	if name == "" {
		return ErrOrderNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateOrderCommand) setPointID(pointID kernel.UUID) error {
	if err := pointID.Validate(); err != nil {
		return err
	}

	c.pointID = pointID
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setVisitDate(visitDate string) error {
	if _, err := time.Parse("2006-01-02", visitDate); err != nil {
		return ErrDateIsRequired
	}

	c.visitDate = visitDate
	return nil
}

func (c *CreateOrderCommand) setWindow(window string) error {
	parsed, err := kernel.ParseTimeWindow(window)
	if err != nil {
		return err
	}

	c.window = parsed
	return nil
}
