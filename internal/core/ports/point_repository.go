package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/point"
)

// PointRepository defines the persistence contract for pickup points.
type PointRepository interface {
	// Add persists a new point. When the point is marked primary the previous
	// primary of the tenant is cleared in the same transaction.
	Add(ctx context.Context, aggregate *point.Point) error

	// Update persists changes to an existing point, with the same primary
	// swap semantics as Add.
	Update(ctx context.Context, aggregate *point.Point) error

	// Get retrieves a point by id within the tenant.
	Get(ctx context.Context, tenantID, id kernel.UUID) (*point.Point, error)

	// GetAll retrieves all of the tenant's points.
	GetAll(ctx context.Context, tenantID kernel.UUID) ([]*point.Point, error)

	// GetPrimary retrieves the tenant's default depot. Returns
	// ObjectNotFoundError when the tenant has none.
	GetPrimary(ctx context.Context, tenantID kernel.UUID) (*point.Point, error)

	// Delete removes a point. Rejected while any active route starts from it.
	Delete(ctx context.Context, tenantID, id kernel.UUID) error
}
