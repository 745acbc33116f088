package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/point"
	"dispatch/internal/core/ports"
)

// CreatePointCommandHandler registers a pickup point, geocoding its address
// through the travel cost provider when no explicit coordinates were given.
// Unlike orders, a point cannot exist ungeocoded: a failed geocode fails the
// command.
type CreatePointCommandHandler struct {
	uowFactory PointUoWFactory
	geocoder   ports.TravelCostProvider
}

// NewCreatePointCommandHandler creates a handler for point registration.
func NewCreatePointCommandHandler(uowFactory PointUoWFactory, geocoder ports.TravelCostProvider) CreatePointCommandHandler {
	return CreatePointCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
	}
}

// Handle registers the point. Marking it primary demotes the previous primary
// in the same transaction, which the repository performs.
func (h *CreatePointCommandHandler) Handle(ctx context.Context, cmd CreatePointCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var location kernel.GeoPoint
	if cmd.Location() != nil {
		location = *cmd.Location()
	} else {
		geocoded, err := h.geocoder.Geocode(ctx, cmd.Address())
		if err != nil {
			return err
		}
		location = geocoded
	}

	aggregate, err := point.NewPoint(cmd.PointID(), cmd.TenantID(), cmd.Name(), cmd.Address(), location)
	if err != nil {
		return err
	}
	if cmd.Primary() {
		aggregate.MarkPrimary()
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PointRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
