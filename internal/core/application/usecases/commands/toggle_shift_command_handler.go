package commands

import (
	"context"
)

// ToggleShiftCommandHandler applies a shift toggle arriving from a bound
// channel. Only on-shift couriers are considered by planning runs.
type ToggleShiftCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewToggleShiftCommandHandler creates a handler for shift toggles.
func NewToggleShiftCommandHandler(uowFactory CourierUoWFactory) ToggleShiftCommandHandler {
	return ToggleShiftCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes a shift toggle.
func (h *ToggleShiftCommandHandler) Handle(ctx context.Context, cmd ToggleShiftCommand) error {
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

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.GetByChannel(ctx, cmd.ChannelID())
	if err != nil {
		return err
	}

	if err = c.SetOnShift(cmd.ChannelID(), cmd.OnShift()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
