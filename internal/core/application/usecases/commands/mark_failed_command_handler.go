package commands

import (
	"context"
)

// MarkFailedCommandHandler fails an order on a courier's failure report and
// completes the route once its last member turns terminal. A failed stop
// counts toward route completion the same as a delivered one.
type MarkFailedCommandHandler struct {
	uowFactory CourierActionUoWFactory
}

// NewMarkFailedCommandHandler creates a handler for failure reports.
func NewMarkFailedCommandHandler(uowFactory CourierActionUoWFactory) MarkFailedCommandHandler {
	return MarkFailedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes a failure report. Repeating the report for an already
// failed order is an idempotent success; the first reason is kept.
func (h *MarkFailedCommandHandler) Handle(ctx context.Context, cmd MarkFailedCommand) error {
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

	if err = o.Fail(cmd.Reason()); err != nil {
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
