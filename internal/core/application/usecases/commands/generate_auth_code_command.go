package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGenerateAuthCodeCommandIsNotConstructed = errors.New(
	"GenerateAuthCodeCommand must be created via NewGenerateAuthCodeCommand constructor",
)

// GenerateAuthCodeCommand requests a fresh binding code for a courier. The
// dispatcher relays the code to the courier out of band; regenerating is the
// recovery path for a lost or expired code.
type GenerateAuthCodeCommand struct { //nolint:recvcheck //using for validation
	tenantID  kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGenerateAuthCodeCommand creates a code generation command.
func NewGenerateAuthCodeCommand(tenantID, courierID kernel.UUID) (GenerateAuthCodeCommand, error) {
	cmd := GenerateAuthCodeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setCourierID(courierID),
	); err != nil {
		return GenerateAuthCodeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c GenerateAuthCodeCommand) Validate() error {
	return c.guard.Validate(ErrGenerateAuthCodeCommandIsNotConstructed)
}

// TenantID returns the owning tenant.
func (c GenerateAuthCodeCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// CourierID returns the courier the code is issued for.
func (c GenerateAuthCodeCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *GenerateAuthCodeCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *GenerateAuthCodeCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
