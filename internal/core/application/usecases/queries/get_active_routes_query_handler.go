package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveRoutesQueryHandler reads active routes straight off the database,
// bypassing the aggregates. One row per stop, folded into routes in order.
type GetActiveRoutesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveRoutesQueryHandler creates a handler for active route queries.
func NewGetActiveRoutesQueryHandler(db *gorm.DB) GetActiveRoutesQueryHandler {
	return GetActiveRoutesQueryHandler{db: db}
}

// Handle executes the query. Routes come back sorted by ID, stops by their
// position within the route.
func (h GetActiveRoutesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveRoutesQuery,
) ([]GetActiveRoutesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.id,
			r.courier_id,
			c.name,
			r.distance_meters,
			r.duration,
			r.geometry,
			o.id,
			o.route_position,
			o.name,
			o.status,
			o.window_from,
			o.window_to
		FROM routes r
		JOIN couriers c ON c.id = r.courier_id AND c.tenant_id = r.tenant_id
		LEFT JOIN orders o ON o.route_id = r.id AND o.tenant_id = r.tenant_id
		WHERE r.tenant_id = ? AND r.date = ? AND r.status = ?
		ORDER BY r.id, o.route_position
	`, query.TenantID().Bytes(), query.Date(), route.Active.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]GetActiveRoutesQueryResponse, 0)
	var current *GetActiveRoutesQueryResponse

	for rows.Next() {
		var (
			routeID        uuid.UUID
			courierID      uuid.UUID
			courierName    string
			distanceMeters float64
			durationNanos  int64
			geometry       string
			orderID        uuid.NullUUID
			position       *int
			orderName      *string
			orderStatus    *string
			windowFrom     *int
			windowTo       *int
		)

		err = rows.Scan(
			&routeID, &courierID, &courierName, &distanceMeters, &durationNanos,
			&geometry, &orderID, &position, &orderName, &orderStatus,
			&windowFrom, &windowTo,
		)
		if err != nil {
			return nil, err
		}

		if current == nil || current.ID.String() != routeID.String() {
			id, idErr := kernel.UUIDFromBytes(routeID[:])
			if idErr != nil {
				return nil, idErr
			}
			cID, idErr := kernel.UUIDFromBytes(courierID[:])
			if idErr != nil {
				return nil, idErr
			}

			routes = append(routes, GetActiveRoutesQueryResponse{
				ID:             id,
				CourierID:      cID,
				CourierName:    courierName,
				Date:           query.Date(),
				DistanceMeters: distanceMeters,
				Duration:       time.Duration(durationNanos),
				Geometry:       geometry,
				Stops:          make([]RouteStopResponse, 0),
			})
			current = &routes[len(routes)-1]
		}

		if !orderID.Valid {
			continue
		}

		stopID, idErr := kernel.UUIDFromBytes(orderID.UUID[:])
		if idErr != nil {
			return nil, idErr
		}

		stop := RouteStopResponse{OrderID: stopID}
		if position != nil {
			stop.Position = *position
		}
		if orderName != nil {
			stop.Name = *orderName
		}
		if orderStatus != nil {
			stop.Status = *orderStatus
		}
		if windowFrom != nil && windowTo != nil && *windowTo > 0 {
			if window, wErr := kernel.NewTimeWindow(*windowFrom, *windowTo); wErr == nil {
				stop.Window = window.String()
			}
		}
		current.Stops = append(current.Stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}
