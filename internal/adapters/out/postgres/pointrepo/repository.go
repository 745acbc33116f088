package pointrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/point"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPointRepository implements ports.PointRepository using GORM. Saving a
// primary point demotes the tenant's previous primary in the same statement
// batch, keeping at most one primary per tenant.
type GormPointRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPointRepository creates a new GORM point repository.
func NewGormPointRepository(db *gorm.DB, tracker aggregateTracker) *GormPointRepository {
	return &GormPointRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new point.
func (r *GormPointRepository) Add(ctx context.Context, aggregate *point.Point) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if dto.Primary {
		if err := r.demoteOthers(ctx, dto); err != nil {
			return err
		}
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing point.
func (r *GormPointRepository) Update(ctx context.Context, aggregate *point.Point) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if dto.Primary {
		if err := r.demoteOthers(ctx, dto); err != nil {
			return err
		}
	}

	result := r.db.WithContext(ctx).Model(&PointDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("point", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a point by ID within the tenant.
func (r *GormPointRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*point.Point, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto PointDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("point", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves the tenant's points sorted by ID.
func (r *GormPointRepository) GetAll(ctx context.Context, tenantID kernel.UUID) ([]*point.Point, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PointDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID.Bytes()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	points := make([]*point.Point, 0, len(dtos))
	for _, dto := range dtos {
		p, pErr := toDomain(dto)
		if pErr != nil {
			return nil, pErr
		}
		points = append(points, p)
	}

	return points, nil
}

// GetPrimary retrieves the tenant's primary point.
func (r *GormPointRepository) GetPrimary(ctx context.Context, tenantID kernel.UUID) (*point.Point, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dto PointDTO
	err := r.db.WithContext(ctx).
		First(&dto, "tenant_id = ? AND is_primary", tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("point", "primary")
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes a point. Refused while unfinished orders ship from it.
func (r *GormPointRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return err
	}

	var pending int64
	err := r.db.WithContext(ctx).Table("orders").
		Where("tenant_id = ? AND point_id = ? AND status IN ?",
			tenantID.Bytes(), id.Bytes(),
			[]string{order.Planned.String(), order.InProgress.String()}).
		Count(&pending).Error
	if err != nil {
		return err
	}
	if pending > 0 {
		return errs.NewValueIsInvalidErrorWithCause("point",
			fmt.Errorf("point %s has %d unfinished orders", id.String(), pending))
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		Delete(&PointDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("point", id.String())
	}

	return nil
}

func (r *GormPointRepository) demoteOthers(ctx context.Context, dto PointDTO) error {
	return r.db.WithContext(ctx).Model(&PointDTO{}).
		Where("tenant_id = ? AND id <> ? AND is_primary", dto.TenantID, dto.ID).
		Update("is_primary", false).Error
}
