package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// loadCourierOrder resolves the courier bound to the reporting channel and
// the order the report targets. Reports about another courier's order come
// back as not-found: the channel learns nothing about foreign orders.
func loadCourierOrder(
	ctx context.Context,
	uow CourierActionUoW,
	channelID string,
	orderID kernel.UUID,
) (*order.Order, error) {
	courier, err := uow.CourierRepository().GetByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, courier.TenantID(), orderID)
	if err != nil {
		return nil, err
	}

	if o.CourierID() == nil || !o.CourierID().IsEqual(courier.ID()) {
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}

	return o, nil
}

// completeRouteIfDone checks whether the order's route has all members in a
// terminal status and completes it if so. The order itself must already be
// updated in the same transaction.
func completeRouteIfDone(ctx context.Context, uow CourierActionUoW, o *order.Order) error {
	if o.RouteID() == nil {
		return nil
	}

	routeRepo := uow.RouteRepository()
	r, err := routeRepo.Get(ctx, o.TenantID(), *o.RouteID())
	if err != nil {
		return err
	}

	members, err := uow.OrderRepository().GetAllByRoute(ctx, o.TenantID(), r.ID())
	if err != nil {
		return err
	}

	statuses := make(map[kernel.UUID]order.Status, len(members))
	for _, m := range members {
		statuses[m.ID()] = m.Status()
	}

	completed, err := r.TryComplete(statuses)
	if err != nil {
		return err
	}
	if !completed {
		return nil
	}

	return routeRepo.Update(ctx, r)
}
