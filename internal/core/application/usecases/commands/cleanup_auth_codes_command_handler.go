package commands

import (
	"context"
	"time"
)

// CleanupAuthCodesCommandHandler drops auth codes whose exchange window has
// passed. Expired codes are cleared rather than consumed, so the next
// GenerateAuthCode starts clean.
type CleanupAuthCodesCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCleanupAuthCodesCommandHandler creates a handler for the expiry sweep.
func NewCleanupAuthCodesCommandHandler(uowFactory CourierUoWFactory) CleanupAuthCodesCommandHandler {
	return CleanupAuthCodesCommandHandler{uowFactory: uowFactory}
}

// Handle expires stale codes and reports how many couriers were touched.
func (h *CleanupAuthCodesCommandHandler) Handle(ctx context.Context, cmd CleanupAuthCodesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	pending, err := courierRepo.GetAllWithPendingCodes(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	expired := 0
	for _, c := range pending {
		if !c.ExpireAuthCode(now) {
			continue
		}
		if err = courierRepo.Update(ctx, c); err != nil {
			return 0, err
		}
		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return expired, nil
}
