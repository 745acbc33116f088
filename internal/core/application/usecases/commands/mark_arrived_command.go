package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrMarkArrivedCommandIsNotConstructed = errors.New(
		"MarkArrivedCommand must be created via NewMarkArrivedCommand constructor",
	)
	ErrChannelIDIsRequired = errors.New("channel identity is required")
)

// MarkArrivedCommand records a courier reporting arrival at a stop. The
// courier is identified by the channel the report came from, never by a
// client-supplied courier id.
type MarkArrivedCommand struct { //nolint:recvcheck //using for validation
	channelID string
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkArrivedCommand creates an arrival report command.
func NewMarkArrivedCommand(channelID string, orderID kernel.UUID) (MarkArrivedCommand, error) {
	cmd := MarkArrivedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setChannelID(channelID),
		cmd.setOrderID(orderID),
	); err != nil {
		return MarkArrivedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkArrivedCommandIsNotConstructed)
}

// ChannelID returns the reporting channel identity.
func (c MarkArrivedCommand) ChannelID() string {
	return c.channelID
}

// OrderID returns the order being reported on.
func (c MarkArrivedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *MarkArrivedCommand) setChannelID(channelID string) error {
	if channelID == "" {
		return ErrChannelIDIsRequired
	}

	c.channelID = channelID
	return nil
}

func (c *MarkArrivedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
