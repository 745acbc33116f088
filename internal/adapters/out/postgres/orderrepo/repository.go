package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM. Every
// read and write is scoped to a tenant; a foreign tenant's orders are
// indistinguishable from absent ones.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker records aggregates touched within a unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order. All columns are written, including nulls:
// an order routed while under a planning claim has its claim cleared here,
// and a detached order loses its route linkage columns.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID within the tenant.
func (r *GormOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByRoute retrieves a route's member orders in stop position order.
func (r *GormOrderRepository) GetAllByRoute(ctx context.Context, tenantID, routeID kernel.UUID) ([]*order.Order, error) {
	if err := errors.Join(tenantID.Validate(), routeID.Validate()); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND route_id = ?", tenantID.Bytes(), routeID.Bytes()).
		Order("route_position").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllUnassigned retrieves planned orders for a visit date that no route
// has picked up, sorted by ID.
func (r *GormOrderRepository) GetAllUnassigned(ctx context.Context, tenantID kernel.UUID, visitDate string) ([]*order.Order, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND visit_date = ? AND status = ? AND route_id IS NULL",
			tenantID.Bytes(), visitDate, order.Planned.String()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// ClaimPlannable stamps the claim token onto every unclaimed plannable order
// for the visit date and returns the claimed set sorted by ID. If another
// run's claim is found on the backlog afterwards, the stamp is contested and
// ErrConcurrencyConflict is returned so the caller can roll back and retry.
func (r *GormOrderRepository) ClaimPlannable(ctx context.Context, tenantID kernel.UUID, visitDate, claim string) ([]*order.Order, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}
	if claim == "" {
		return nil, errs.NewValueIsRequiredError("claim")
	}

	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("tenant_id = ? AND visit_date = ? AND status = ? AND route_id IS NULL AND claim IS NULL",
			tenantID.Bytes(), visitDate, order.Planned.String()).
		Update("claim", claim).Error
	if err != nil {
		return nil, err
	}

	var contested int64
	err = r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("tenant_id = ? AND visit_date = ? AND status = ? AND route_id IS NULL AND claim IS NOT NULL AND claim <> ?",
			tenantID.Bytes(), visitDate, order.Planned.String(), claim).
		Count(&contested).Error
	if err != nil {
		return nil, err
	}
	if contested > 0 {
		return nil, errs.NewConcurrencyConflictError("orders")
	}

	var dtos []OrderDTO
	err = r.db.WithContext(ctx).
		Where("tenant_id = ? AND claim = ?", tenantID.Bytes(), claim).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// ReleaseClaim clears the claim token from any orders still holding it.
func (r *GormOrderRepository) ReleaseClaim(ctx context.Context, tenantID kernel.UUID, claim string) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}
	if claim == "" {
		return errs.NewValueIsRequiredError("claim")
	}

	return r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("tenant_id = ? AND claim = ?", tenantID.Bytes(), claim).
		Update("claim", nil).Error
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
