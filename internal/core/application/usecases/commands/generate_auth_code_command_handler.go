package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateAuthCodeCommandHandler issues a fresh six digit binding code for a
// courier, replacing any previous one.
type GenerateAuthCodeCommandHandler struct {
	uowFactory CourierUoWFactory
	codeTTL    time.Duration
}

// NewGenerateAuthCodeCommandHandler creates a handler for code generation.
// codeTTL bounds how long an issued code stays exchangeable.
func NewGenerateAuthCodeCommandHandler(uowFactory CourierUoWFactory, codeTTL time.Duration) GenerateAuthCodeCommandHandler {
	return GenerateAuthCodeCommandHandler{
		uowFactory: uowFactory,
		codeTTL:    codeTTL,
	}
}

// Handle issues a new code and returns it for the dispatcher to relay.
func (h *GenerateAuthCodeCommandHandler) Handle(ctx context.Context, cmd GenerateAuthCodeCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	code, err := randomCode()
	if err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, cmd.TenantID(), cmd.CourierID())
	if err != nil {
		return "", err
	}

	if err = c.IssueAuthCode(code, h.codeTTL, time.Now()); err != nil {
		return "", err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return code, nil
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
