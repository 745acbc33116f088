// Package courierrepo persists courier aggregates with GORM, including their
// session binding and live location state.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is the database representation of a courier aggregate. The auth
// code columns stay populated after consumption so a redeemed code can be
// told apart from an unknown one without leaking which to the caller.
type CourierDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`
	Name     string

	Vehicle  string
	Capacity int
	Home     GeoPointDTO `gorm:"embedded;embeddedPrefix:home_"`

	ChannelID        string `gorm:"index"`
	AuthCode         *string
	AuthCodeExpires  *time.Time
	AuthCodeConsumed bool

	OnShift     bool
	LastSeenLat *float64
	LastSeenLon *float64
	LastSeenAt  *time.Time
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// GeoPointDTO holds embedded WGS84 coordinates.
type GeoPointDTO struct {
	Lat float64
	Lon float64
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:       aggregate.ID().Bytes(),
		TenantID: aggregate.TenantID().Bytes(),
		Name:     aggregate.Name(),
		Vehicle:  aggregate.Vehicle().String(),
		Capacity: aggregate.Capacity(),
		Home: GeoPointDTO{
			Lat: aggregate.Home().Latitude(),
			Lon: aggregate.Home().Longitude(),
		},
		ChannelID: aggregate.ChannelID(),
		OnShift:   aggregate.IsOnShift(),
	}

	if code := aggregate.AuthCode(); code != nil {
		value := code.Code()
		expires := code.ExpiresAt()
		dto.AuthCode = &value
		dto.AuthCodeExpires = &expires
		dto.AuthCodeConsumed = code.IsConsumed()
	}

	if lastSeen, at := aggregate.LastSeen(); lastSeen != nil {
		lat, lon := lastSeen.Latitude(), lastSeen.Longitude()
		dto.LastSeenLat = &lat
		dto.LastSeenLon = &lon
		dto.LastSeenAt = &at
	}

	return dto
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}

	vehicle, err := courier.VehicleClassFromString(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	home, err := kernel.NewGeoPoint(dto.Home.Lat, dto.Home.Lon)
	if err != nil {
		return nil, err
	}

	var authCode *courier.AuthCode
	if dto.AuthCode != nil && dto.AuthCodeExpires != nil {
		code, codeErr := courier.RestoreAuthCode(*dto.AuthCode, *dto.AuthCodeExpires, dto.AuthCodeConsumed)
		if codeErr != nil {
			return nil, codeErr
		}
		authCode = &code
	}

	var lastSeen *kernel.GeoPoint
	var lastSeenAt time.Time
	if dto.LastSeenLat != nil && dto.LastSeenLon != nil {
		seen, seenErr := kernel.NewGeoPoint(*dto.LastSeenLat, *dto.LastSeenLon)
		if seenErr != nil {
			return nil, seenErr
		}
		lastSeen = &seen
		if dto.LastSeenAt != nil {
			lastSeenAt = *dto.LastSeenAt
		}
	}

	return courier.RestoreCourier(
		id, tenantID, dto.Name, vehicle, dto.Capacity, home,
		dto.ChannelID, authCode, dto.OnShift, lastSeen, lastSeenAt,
	)
}
