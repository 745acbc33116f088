package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrCleanupAuthCodesCommandIsNotConstructed = errors.New(
	"CleanupAuthCodesCommand must be created via NewCleanupAuthCodesCommand constructor",
)

// CleanupAuthCodesCommand requests an expiry sweep over all pending auth
// codes, across tenants.
type CleanupAuthCodesCommand struct {
	guard guard.ConstructorGuard
}

// NewCleanupAuthCodesCommand creates a sweep command.
func NewCleanupAuthCodesCommand() CleanupAuthCodesCommand {
	return CleanupAuthCodesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c CleanupAuthCodesCommand) Validate() error {
	return c.guard.Validate(ErrCleanupAuthCodesCommandIsNotConstructed)
}
