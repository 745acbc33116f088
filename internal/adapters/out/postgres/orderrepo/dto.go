// Package orderrepo persists order aggregates with GORM, mapping between the
// domain model and the relational orders table.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database representation of an order aggregate. Destination
// coordinates are nullable: an order whose address never geocoded has none
// and sits out planning. The claim column is a storage concern invisible to
// the domain; planning runs stamp it to take exclusive hold of the backlog.
type OrderDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;index"`
	Name     string
	PointID  uuid.UUID `gorm:"type:uuid;index"`
	Address  string

	DestLat *float64
	DestLon *float64

	VisitDate       string `gorm:"index"`
	WindowFrom      int
	WindowTo        int
	ServiceDuration int64

	RecipientName  string
	RecipientPhone string

	Status        string     `gorm:"index"`
	CourierID     *uuid.UUID `gorm:"type:uuid;index"`
	RouteID       *uuid.UUID `gorm:"type:uuid;index"`
	RoutePosition *int
	FailureReason string
	ProofRef      string

	Claim *string `gorm:"index"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:              aggregate.ID().Bytes(),
		TenantID:        aggregate.TenantID().Bytes(),
		Name:            aggregate.Name(),
		PointID:         aggregate.PointID().Bytes(),
		Address:         aggregate.Address(),
		VisitDate:       aggregate.VisitDate(),
		ServiceDuration: int64(aggregate.ServiceDuration()),
		RecipientName:   aggregate.RecipientContact().Name,
		RecipientPhone:  aggregate.RecipientContact().Phone,
		Status:          aggregate.Status().String(),
		FailureReason:   aggregate.FailureReason(),
		ProofRef:        aggregate.ProofRef(),
	}

	if dest := aggregate.Destination(); dest != nil {
		lat, lon := dest.Latitude(), dest.Longitude()
		dto.DestLat = &lat
		dto.DestLon = &lon
	}

	if window := aggregate.Window(); !window.IsZero() {
		dto.WindowFrom = window.From()
		dto.WindowTo = window.To()
	}

	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		dto.CourierID = &raw
	}
	if id := aggregate.RouteID(); id != nil {
		raw := id.Bytes()
		dto.RouteID = &raw
	}
	if pos := aggregate.RoutePosition(); pos != nil {
		value := *pos
		dto.RoutePosition = &value
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	pointID, err := kernel.UUIDFromBytes(dto.PointID[:])
	if err != nil {
		return nil, err
	}

	var destination *kernel.GeoPoint
	if dto.DestLat != nil && dto.DestLon != nil {
		dest, destErr := kernel.NewGeoPoint(*dto.DestLat, *dto.DestLon)
		if destErr != nil {
			return nil, destErr
		}
		destination = &dest
	}

	var window kernel.TimeWindow
	if dto.WindowTo > 0 {
		window, err = kernel.NewTimeWindow(dto.WindowFrom, dto.WindowTo)
		if err != nil {
			return nil, err
		}
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var courierID, routeID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}
	if dto.RouteID != nil {
		rID, rErr := kernel.UUIDFromBytes((*dto.RouteID)[:])
		if rErr != nil {
			return nil, rErr
		}
		routeID = &rID
	}

	return order.RestoreOrder(
		id, tenantID, dto.Name, pointID, dto.Address, destination,
		dto.VisitDate, window, time.Duration(dto.ServiceDuration),
		order.Recipient{Name: dto.RecipientName, Phone: dto.RecipientPhone},
		status, courierID, routeID, dto.RoutePosition,
		dto.FailureReason, dto.ProofRef,
	)
}
