package commands

import (
	"context"
)

// MarkArrivedCommandHandler moves an order to in-progress when its courier
// reports arrival. Positions are advisory: arriving at a later stop first is
// accepted.
type MarkArrivedCommandHandler struct {
	uowFactory CourierActionUoWFactory
}

// NewMarkArrivedCommandHandler creates a handler for arrival reports.
func NewMarkArrivedCommandHandler(uowFactory CourierActionUoWFactory) MarkArrivedCommandHandler {
	return MarkArrivedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes an arrival report. Repeating the report for an order
// already in progress is an idempotent success.
func (h *MarkArrivedCommandHandler) Handle(ctx context.Context, cmd MarkArrivedCommand) error {
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

	if err = o.Start(); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
