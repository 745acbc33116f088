package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreatePointCommandIsNotConstructed = errors.New(
		"CreatePointCommand must be created via NewCreatePointCommand constructor",
	)
	ErrPointNameIsRequired = errors.New("point name is required")
	ErrAddressIsRequired   = errors.New("address is required")
)

// CreatePointCommand registers a pickup point. Coordinates are optional; when
// absent the handler geocodes the address.
type CreatePointCommand struct { //nolint:recvcheck //using for validation
	pointID  kernel.UUID
	tenantID kernel.UUID
	name     string
	address  string
	location *kernel.GeoPoint
	primary  bool

	guard guard.ConstructorGuard
}

// NewCreatePointCommand creates a point registration command.
func NewCreatePointCommand(
	pointID kernel.UUID,
	tenantID kernel.UUID,
	name string,
	address string,
	location *kernel.GeoPoint,
	primary bool,
) (CreatePointCommand, error) {
	cmd := CreatePointCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPointID(pointID),
		cmd.setTenantID(tenantID),
		cmd.setName(name),
		cmd.setAddress(address),
		cmd.setLocation(location),
	); err != nil {
		return CreatePointCommand{}, err
	}

	cmd.primary = primary
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreatePointCommand) Validate() error {
	return c.guard.Validate(ErrCreatePointCommandIsNotConstructed)
}

// PointID returns the new point's identifier.
func (c CreatePointCommand) PointID() kernel.UUID {
	return c.pointID
}

// TenantID returns the owning tenant.
func (c CreatePointCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// Name returns the point's display name.
func (c CreatePointCommand) Name() string {
	return c.name
}

// Address returns the point's street address.
func (c CreatePointCommand) Address() string {
	return c.address
}

// Location returns the explicit coordinates, nil to geocode the address.
func (c CreatePointCommand) Location() *kernel.GeoPoint {
	return c.location
}

// Primary reports whether the point becomes the tenant's default depot.
func (c CreatePointCommand) Primary() bool {
	return c.primary
}

func (c *CreatePointCommand) setPointID(pointID kernel.UUID) error {
	if err := pointID.Validate(); err != nil {
		return err
	}

	c.pointID = pointID
	return nil
}

func (c *CreatePointCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *CreatePointCommand) setName(name string) error {
	if name == "" {
		return ErrPointNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreatePointCommand) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *CreatePointCommand) setLocation(location *kernel.GeoPoint) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	c.location = location
	return nil
}
