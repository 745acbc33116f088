package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrOptimizeRoutesCommandIsNotConstructed = errors.New(
		"OptimizeRoutesCommand must be created via NewOptimizeRoutesCommand constructor",
	)
	ErrDateIsRequired = errors.New("date is required in YYYY-MM-DD format")
)

// OptimizeRoutesCommand requests a planning run: build routes for every
// eligible order of the tenant's visit date.
type OptimizeRoutesCommand struct { //nolint:recvcheck //using for validation
	tenantID kernel.UUID
	date     string
	timeout  time.Duration

	guard guard.ConstructorGuard
}

// NewOptimizeRoutesCommand creates a planning run command. A zero timeout
// means the caller's context bounds the run on its own.
func NewOptimizeRoutesCommand(tenantID kernel.UUID, date string, timeout time.Duration) (OptimizeRoutesCommand, error) {
	cmd := OptimizeRoutesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setDate(date),
	); err != nil {
		return OptimizeRoutesCommand{}, err
	}

	cmd.timeout = timeout
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OptimizeRoutesCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRoutesCommandIsNotConstructed)
}

// TenantID returns the tenant the run plans for.
func (c OptimizeRoutesCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// Date returns the visit date being planned.
func (c OptimizeRoutesCommand) Date() string {
	return c.date
}

// Timeout returns the per-run deadline, zero for none.
func (c OptimizeRoutesCommand) Timeout() time.Duration {
	return c.timeout
}

func (c *OptimizeRoutesCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *OptimizeRoutesCommand) setDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrDateIsRequired
	}

	c.date = date
	return nil
}
