package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler registers a delivery order, geocoding its
// destination through the travel cost provider. Geocoding is best effort: on
// failure the order is created without coordinates, the clusterer reports it
// skipped, and a later address fix brings it back into planning.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.TravelCostProvider
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order registration.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, geocoder ports.TravelCostProvider, logger *slog.Logger) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle registers the order in planned status.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var destination *kernel.GeoPoint
	if geocoded, err := h.geocoder.Geocode(ctx, cmd.Address()); err != nil {
		h.logger.Warn("geocoding failed, order created without coordinates",
			"order_id", cmd.OrderID().String(), "error", err)
	} else {
		destination = &geocoded
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.TenantID(), cmd.Name(), cmd.PointID(), cmd.Address(),
		destination, cmd.VisitDate(), cmd.Window(), cmd.ServiceDuration(), cmd.Recipient(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
