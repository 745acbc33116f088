package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnassignedOrdersQueryHandler reads the planning backlog straight off the
// database.
type GetUnassignedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedOrdersQueryHandler creates a handler for backlog queries.
func NewGetUnassignedOrdersQueryHandler(db *gorm.DB) GetUnassignedOrdersQueryHandler {
	return GetUnassignedOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by order ID for consistent
// output.
func (h GetUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedOrdersQuery,
) ([]GetUnassignedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			point_id,
			address,
			dest_lat,
			dest_lon,
			window_from,
			window_to
		FROM orders
		WHERE tenant_id = ? AND visit_date = ? AND route_id IS NULL AND status = ?
		ORDER BY id
	`, query.TenantID().Bytes(), query.Date(), order.Planned.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetUnassignedOrdersQueryResponse, 0)

	for rows.Next() {
		var (
			id         uuid.UUID
			name       string
			pointID    uuid.UUID
			address    string
			lat        *float64
			lon        *float64
			windowFrom int
			windowTo   int
		)

		err = rows.Scan(&id, &name, &pointID, &address, &lat, &lon, &windowFrom, &windowTo)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderPointID, idErr := kernel.UUIDFromBytes(pointID[:])
		if idErr != nil {
			return nil, idErr
		}

		resp := GetUnassignedOrdersQueryResponse{
			ID:      orderID,
			Name:    name,
			PointID: orderPointID,
			Address: address,
		}

		if lat != nil && lon != nil {
			location, locErr := kernel.NewGeoPoint(*lat, *lon)
			if locErr != nil {
				return nil, locErr
			}
			resp.Location = &location
		}

		if windowTo > 0 {
			if window, wErr := kernel.NewTimeWindow(windowFrom, windowTo); wErr == nil {
				resp.Window = window.String()
			}
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
