package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id within the tenant. Returns
	// ObjectNotFoundError when absent or owned by another tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error)

	// GetAllByRoute retrieves a route's member orders sorted by position.
	GetAllByRoute(ctx context.Context, tenantID, routeID kernel.UUID) ([]*order.Order, error)

	// GetAllUnassigned retrieves the tenant's planned, unrouted orders for a
	// visit date.
	GetAllUnassigned(ctx context.Context, tenantID kernel.UUID, visitDate string) ([]*order.Order, error)

	// ClaimPlannable atomically stamps the claim token on every planned,
	// unrouted, unclaimed order of the tenant for the visit date, and returns
	// the claimed orders. A concurrent optimize run claiming the same date
	// gets the remainder, which may be empty. The conditional UPDATE is the
	// exclusivity mechanism; callers must not pre-read and claim in two steps.
	ClaimPlannable(ctx context.Context, tenantID kernel.UUID, visitDate, claim string) ([]*order.Order, error)

	// ReleaseClaim clears the claim token from any orders still carrying it.
	// Called when solving or persisting fails so the orders return to the
	// eligible pool.
	ReleaseClaim(ctx context.Context, tenantID kernel.UUID, claim string) error
}
