package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrCourierNameIsRequired = errors.New("courier name is required")
	ErrCapacityIsInvalid     = errors.New("capacity must be greater than 0")
)

// CreateCourierCommand registers a courier with their planning identity.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	tenantID  kernel.UUID
	name      string
	vehicle   courier.VehicleClass
	capacity  int
	home      kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a courier registration command.
func NewCreateCourierCommand(
	courierID kernel.UUID,
	tenantID kernel.UUID,
	name string,
	vehicle courier.VehicleClass,
	capacity int,
	home kernel.GeoPoint,
) (CreateCourierCommand, error) {
	cmd := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setTenantID(tenantID),
		cmd.setName(name),
		cmd.setVehicle(vehicle),
		cmd.setCapacity(capacity),
		cmd.setHome(home),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the new courier's identifier.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// TenantID returns the owning tenant.
func (c CreateCourierCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// Name returns the courier's name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Vehicle returns the courier's vehicle class.
func (c CreateCourierCommand) Vehicle() courier.VehicleClass {
	return c.vehicle
}

// Capacity returns the courier's capacity in order units.
func (c CreateCourierCommand) Capacity() int {
	return c.capacity
}

// Home returns the courier's home coordinates.
func (c CreateCourierCommand) Home() kernel.GeoPoint {
	return c.home
}

func (c *CreateCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *CreateCourierCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return ErrCourierNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setVehicle(vehicle courier.VehicleClass) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}

	c.vehicle = vehicle
	return nil
}

func (c *CreateCourierCommand) setCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrCapacityIsInvalid
	}

	c.capacity = capacity
	return nil
}

func (c *CreateCourierCommand) setHome(home kernel.GeoPoint) error {
	if err := home.Validate(); err != nil {
		return err
	}

	c.home = home
	return nil
}
