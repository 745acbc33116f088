package commands

import (
	"context"
)

// UpdateLocationCommandHandler records a courier's live location sample.
type UpdateLocationCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewUpdateLocationCommandHandler creates a handler for location updates.
func NewUpdateLocationCommandHandler(uowFactory CourierUoWFactory) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle overwrites the courier's last known location.
func (h *UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) error {
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

	if err = c.RecordLocation(cmd.ChannelID(), cmd.Location(), cmd.ReportedAt()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
