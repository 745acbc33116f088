package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetActiveRoutesQueryIsNotConstructed = errors.New(
		"GetActiveRoutesQuery must be created via NewGetActiveRoutesQuery constructor",
	)
	ErrQueryDateIsRequired = errors.New("date in YYYY-MM-DD form is required")
)

// GetActiveRoutesQuery retrieves a tenant's active routes for a planning date
// together with their ordered stops. Backs the dispatcher's route board.
//
// Example:
//
//	query, err := NewGetActiveRoutesQuery(tenantID, "2024-06-01")
//	if err != nil {
//	    return err
//	}
//
//	routes, err := handler.Handle(ctx, query)
//	for _, r := range routes {
//	    fmt.Printf("%s: %d stops, %.1f km\n", r.CourierName, len(r.Stops), r.DistanceMeters/1000)
//	}
type GetActiveRoutesQuery struct {
	tenantID kernel.UUID
	date     string

	guard guard.ConstructorGuard
}

// NewGetActiveRoutesQuery creates a query for the tenant's active routes on
// the given date (YYYY-MM-DD).
func NewGetActiveRoutesQuery(tenantID kernel.UUID, date string) (GetActiveRoutesQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetActiveRoutesQuery{}, err
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return GetActiveRoutesQuery{}, ErrQueryDateIsRequired
	}

	return GetActiveRoutesQuery{
		tenantID: tenantID,
		date:     date,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveRoutesQueryIsNotConstructed)
}

// TenantID returns the tenant scope of the query.
func (q GetActiveRoutesQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// Date returns the planning date.
func (q GetActiveRoutesQuery) Date() string {
	return q.date
}

// GetActiveRoutesQueryResponse is one active route with its stops in visiting
// order.
type GetActiveRoutesQueryResponse struct {
	ID             kernel.UUID
	CourierID      kernel.UUID
	CourierName    string
	Date           string
	DistanceMeters float64
	Duration       time.Duration
	Geometry       string
	Stops          []RouteStopResponse
}

// RouteStopResponse is a single stop on an active route.
type RouteStopResponse struct {
	OrderID  kernel.UUID
	Position int
	Name     string
	Status   string
	Window   string
}
