package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/pkg/errs"
)

// ExchangeAuthCodeCommandHandler performs the one-shot code exchange binding
// a channel identity to a courier. Unknown, consumed, and expired codes all
// fail with the same ErrAuthCodeRejected so the channel cannot probe which.
type ExchangeAuthCodeCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewExchangeAuthCodeCommandHandler creates a handler for code exchanges.
func NewExchangeAuthCodeCommandHandler(uowFactory CourierUoWFactory) ExchangeAuthCodeCommandHandler {
	return ExchangeAuthCodeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle redeems a code and returns the courier now bound to the channel.
func (h *ExchangeAuthCodeCommandHandler) Handle(ctx context.Context, cmd ExchangeAuthCodeCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.GetByPendingCode(ctx, cmd.Code())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, courier.ErrAuthCodeRejected
		}
		return nil, err
	}

	if err = c.BindChannel(cmd.Code(), cmd.ChannelID(), time.Now()); err != nil {
		return nil, err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
