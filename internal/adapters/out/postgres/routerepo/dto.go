// Package routerepo persists route aggregates with GORM. The stop sequence is
// stored denormalized as a text array; the authoritative per-order linkage
// lives on the orders table.
package routerepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RouteDTO is the database representation of a route aggregate. Duration is
// stored in nanoseconds.
type RouteDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;index"`
	CourierID uuid.UUID `gorm:"type:uuid;index"`
	Date      string    `gorm:"index"`
	Status    string    `gorm:"index"`

	Stops pq.StringArray `gorm:"type:text[]"`

	Geometry       string
	DistanceMeters float64
	Duration       int64
}

// TableName overrides GORM's default naming to use "routes".
func (RouteDTO) TableName() string {
	return "routes"
}

func fromDomain(aggregate *route.Route) RouteDTO {
	stops := aggregate.Stops()
	rawStops := make(pq.StringArray, 0, len(stops))
	for _, id := range stops {
		rawStops = append(rawStops, id.String())
	}

	return RouteDTO{
		ID:             aggregate.ID().Bytes(),
		TenantID:       aggregate.TenantID().Bytes(),
		CourierID:      aggregate.CourierID().Bytes(),
		Date:           aggregate.Date(),
		Status:         aggregate.Status().String(),
		Stops:          rawStops,
		Geometry:       aggregate.Geometry(),
		DistanceMeters: aggregate.Cost().DistanceMeters,
		Duration:       int64(aggregate.Cost().Duration),
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	status, err := route.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	stops := make([]kernel.UUID, 0, len(dto.Stops))
	for _, raw := range dto.Stops {
		stop, stopErr := kernel.UUIDFromString(raw)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return route.RestoreRoute(
		id, tenantID, courierID, dto.Date, status, stops,
		dto.Geometry, route.CostSummary{
			DistanceMeters: dto.DistanceMeters,
			Duration:       time.Duration(dto.Duration),
		},
	)
}
