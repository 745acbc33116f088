package commands

import (
	"context"
)

// MarkDeliveredCommandHandler completes an order on a courier's delivery
// report and completes the route once its last member turns terminal.
type MarkDeliveredCommandHandler struct {
	uowFactory CourierActionUoWFactory
}

// NewMarkDeliveredCommandHandler creates a handler for delivery reports.
func NewMarkDeliveredCommandHandler(uowFactory CourierActionUoWFactory) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes a delivery report. Repeating the report for an already
// completed order is an idempotent success; the first proof reference is
// kept.
func (h *MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := loadCourierOrder(ctx, uow, cmd.ChannelID(), cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Complete(cmd.ProofRef()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = completeRouteIfDone(ctx, uow, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
