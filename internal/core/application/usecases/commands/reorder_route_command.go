package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrReorderRouteCommandIsNotConstructed = errors.New(
		"ReorderRouteCommand must be created via NewReorderRouteCommand constructor",
	)
	ErrSequenceIsRequired = errors.New("stop sequence is required")
)

// ReorderRouteCommand replaces a route's visit sequence with a dispatcher
// supplied permutation of its current membership.
type ReorderRouteCommand struct { //nolint:recvcheck //using for validation
	tenantID kernel.UUID
	routeID  kernel.UUID
	sequence []kernel.UUID

	guard guard.ConstructorGuard
}

// NewReorderRouteCommand creates a reorder command.
func NewReorderRouteCommand(tenantID, routeID kernel.UUID, sequence []kernel.UUID) (ReorderRouteCommand, error) {
	cmd := ReorderRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTenantID(tenantID),
		cmd.setRouteID(routeID),
		cmd.setSequence(sequence),
	); err != nil {
		return ReorderRouteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReorderRouteCommand) Validate() error {
	return c.guard.Validate(ErrReorderRouteCommandIsNotConstructed)
}

// TenantID returns the owning tenant.
func (c ReorderRouteCommand) TenantID() kernel.UUID {
	return c.tenantID
}

// RouteID returns the route being reordered.
func (c ReorderRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Sequence returns the requested visit order.
func (c ReorderRouteCommand) Sequence() []kernel.UUID {
	out := make([]kernel.UUID, len(c.sequence))
	copy(out, c.sequence)
	return out
}

func (c *ReorderRouteCommand) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}

	c.tenantID = tenantID
	return nil
}

func (c *ReorderRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *ReorderRouteCommand) setSequence(sequence []kernel.UUID) error {
	if len(sequence) == 0 {
		return ErrSequenceIsRequired
	}
	for _, id := range sequence {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.sequence = append([]kernel.UUID(nil), sequence...)
	return nil
}
