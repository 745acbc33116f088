// Package ports defines the contracts between the domain layer and
// infrastructure: repositories, the unit of work, the travel cost provider,
// and the outbound dispatch notifier. Tenant scoping is part of every
// repository key; there is no fetch-by-id-alone API.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate, including
	// session binding and live state.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by id within the tenant. Returns
	// ObjectNotFoundError when absent or owned by another tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*courier.Courier, error)

	// GetByChannel resolves the courier bound to a channel identity. Channel
	// identities are globally unique, so this is the one lookup not keyed by
	// tenant: inbound channel events carry no tenant context.
	GetByChannel(ctx context.Context, channelID string) (*courier.Courier, error)

	// GetByPendingCode resolves the courier holding an unconsumed auth code.
	// Returns ObjectNotFoundError for unknown codes; the caller maps that to
	// the indistinct rejection the channel sees.
	GetByPendingCode(ctx context.Context, code string) (*courier.Courier, error)

	// GetAllOnShift retrieves the tenant's couriers currently accepting work.
	GetAllOnShift(ctx context.Context, tenantID kernel.UUID) ([]*courier.Courier, error)

	// GetAllWithPendingCodes retrieves couriers across all tenants that hold
	// an unconsumed auth code. Used by the expiry sweep.
	GetAllWithPendingCodes(ctx context.Context) ([]*courier.Courier, error)

	// Delete removes a courier. Rejected while the courier owns an active
	// route.
	Delete(ctx context.Context, tenantID, id kernel.UUID) error
}
