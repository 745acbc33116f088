package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand records a successful delivery, optionally with a proof
// reference such as a photo handle from the channel.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	channelID string
	orderID   kernel.UUID
	proofRef  string

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a delivery report command. proofRef may be
// empty.
func NewMarkDeliveredCommand(channelID string, orderID kernel.UUID, proofRef string) (MarkDeliveredCommand, error) {
	cmd := MarkDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setChannelID(channelID),
		cmd.setOrderID(orderID),
	); err != nil {
		return MarkDeliveredCommand{}, err
	}

	cmd.proofRef = proofRef
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// ChannelID returns the reporting channel identity.
func (c MarkDeliveredCommand) ChannelID() string {
	return c.channelID
}

// OrderID returns the order being reported on.
func (c MarkDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProofRef returns the optional delivery proof handle.
func (c MarkDeliveredCommand) ProofRef() string {
	return c.proofRef
}

func (c *MarkDeliveredCommand) setChannelID(channelID string) error {
	if channelID == "" {
		return ErrChannelIDIsRequired
	}

	c.channelID = channelID
	return nil
}

func (c *MarkDeliveredCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
