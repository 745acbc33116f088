package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route aggregates.
type RouteRepository interface {
	// Add persists a new route aggregate to storage.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists changes to an existing route aggregate, stop sequence
	// included.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route by id within the tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*route.Route, error)

	// GetAllActive retrieves the tenant's active routes for a date.
	GetAllActive(ctx context.Context, tenantID kernel.UUID, date string) ([]*route.Route, error)

	// GetActiveByCourier retrieves the courier's active route for a date, or
	// ObjectNotFoundError when there is none. Used to compute the capacity
	// still available before solving.
	GetActiveByCourier(ctx context.Context, tenantID, courierID kernel.UUID, date string) (*route.Route, error)

	// Delete removes a route. Members must be detached first; rejected while
	// any member order is non-terminal.
	Delete(ctx context.Context, tenantID, id kernel.UUID) error
}
