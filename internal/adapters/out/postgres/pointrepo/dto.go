// Package pointrepo persists pickup point aggregates with GORM.
package pointrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/point"

	"github.com/google/uuid"
)

// PointDTO is the database representation of a pickup point.
type PointDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`
	Name     string
	Address  string
	Location GeoPointDTO `gorm:"embedded;embeddedPrefix:location_"`
	Primary  bool        `gorm:"column:is_primary"`
}

// TableName overrides GORM's default naming to use "points".
func (PointDTO) TableName() string {
	return "points"
}

// GeoPointDTO holds embedded WGS84 coordinates.
type GeoPointDTO struct {
	Lat float64
	Lon float64
}

func fromDomain(aggregate *point.Point) PointDTO {
	return PointDTO{
		ID:       aggregate.ID().Bytes(),
		TenantID: aggregate.TenantID().Bytes(),
		Name:     aggregate.Name(),
		Address:  aggregate.Address(),
		Location: GeoPointDTO{
			Lat: aggregate.Location().Latitude(),
			Lon: aggregate.Location().Longitude(),
		},
		Primary: aggregate.IsPrimary(),
	}
}

func toDomain(dto PointDTO) (*point.Point, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Location.Lat, dto.Location.Lon)
	if err != nil {
		return nil, err
	}

	return point.RestorePoint(id, tenantID, dto.Name, dto.Address, location, dto.Primary)
}
