package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetUnassignedOrdersQueryIsNotConstructed = errors.New(
		"GetUnassignedOrdersQuery must be created via NewGetUnassignedOrdersQuery constructor",
	)
)

// GetUnassignedOrdersQuery retrieves planned orders for a visit date that no
// route has picked up yet, the backlog a planning run would work on.
type GetUnassignedOrdersQuery struct {
	tenantID kernel.UUID
	date     string

	guard guard.ConstructorGuard
}

// NewGetUnassignedOrdersQuery creates a query for the tenant's unassigned
// orders on the given visit date (YYYY-MM-DD).
func NewGetUnassignedOrdersQuery(tenantID kernel.UUID, date string) (GetUnassignedOrdersQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetUnassignedOrdersQuery{}, err
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return GetUnassignedOrdersQuery{}, ErrQueryDateIsRequired
	}

	return GetUnassignedOrdersQuery{
		tenantID: tenantID,
		date:     date,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedOrdersQueryIsNotConstructed)
}

// TenantID returns the tenant scope of the query.
func (q GetUnassignedOrdersQuery) TenantID() kernel.UUID {
	return q.tenantID
}

// Date returns the visit date.
func (q GetUnassignedOrdersQuery) Date() string {
	return q.date
}

// GetUnassignedOrdersQueryResponse is one order awaiting planning. Location
// is nil for orders whose address never geocoded; those sit out planning runs
// until fixed.
type GetUnassignedOrdersQueryResponse struct {
	ID       kernel.UUID
	Name     string
	PointID  kernel.UUID
	Address  string
	Location *kernel.GeoPoint
	Window   string
}
