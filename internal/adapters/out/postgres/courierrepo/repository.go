package courierrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
//
// Two lookups are deliberately unscoped by tenant: GetByChannel and
// GetByPendingCode resolve an inbound channel identity or auth code to its
// courier, and the tenant is only known once the courier is found.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
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

// Update saves an existing courier. All columns are written, including
// nulls, so an expired auth code dropped by the cleanup sweep clears its
// columns too.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ? AND tenant_id = ?", dto.ID, dto.TenantID).
		Select("*").Omit("id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID within the tenant.
func (r *GormCourierRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*courier.Courier, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByChannel resolves a bound channel identity to its courier.
func (r *GormCourierRepository) GetByChannel(ctx context.Context, channelID string) (*courier.Courier, error) {
	if channelID == "" {
		return nil, errs.NewValueIsRequiredError("channel identity")
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).First(&dto, "channel_id = ?", channelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", channelID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPendingCode finds the courier holding the given auth code, consumed or
// not. The caller decides whether the code still redeems.
func (r *GormCourierRepository) GetByPendingCode(ctx context.Context, code string) (*courier.Courier, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("auth code")
	}

	var dto CourierDTO
	err := r.db.WithContext(ctx).First(&dto, "auth_code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", "by pending code")
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllOnShift retrieves the tenant's couriers currently accepting work,
// sorted by ID.
func (r *GormCourierRepository) GetAllOnShift(ctx context.Context, tenantID kernel.UUID) ([]*courier.Courier, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND on_shift", tenantID.Bytes()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllWithPendingCodes retrieves couriers holding an unconsumed auth code,
// across all tenants. Feeds the expiry sweep.
func (r *GormCourierRepository) GetAllWithPendingCodes(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Where("auth_code IS NOT NULL AND NOT auth_code_consumed").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// Delete removes a courier. Refused while an active route references them.
func (r *GormCourierRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return err
	}

	var active int64
	err := r.db.WithContext(ctx).Table("routes").
		Where("tenant_id = ? AND courier_id = ? AND status = ?",
			tenantID.Bytes(), id.Bytes(), route.Active.String()).
		Count(&active).Error
	if err != nil {
		return err
	}
	if active > 0 {
		return errs.NewValueIsInvalidErrorWithCause("courier",
			fmt.Errorf("courier %s has an active route", id.String()))
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id.Bytes(), tenantID.Bytes()).
		Delete(&CourierDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}

	return nil
}

func toDomainAll(dtos []CourierDTO) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}
