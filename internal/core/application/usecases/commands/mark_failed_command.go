package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrMarkFailedCommandIsNotConstructed = errors.New(
		"MarkFailedCommand must be created via NewMarkFailedCommand constructor",
	)
	ErrReasonIsRequired = errors.New("failure reason is required")
)

// MarkFailedCommand records a failed delivery attempt. The reason is
// mandatory; it is what the dispatcher sees when triaging the day.
type MarkFailedCommand struct { //nolint:recvcheck //using for validation
	channelID string
	orderID   kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

// NewMarkFailedCommand creates a failure report command.
func NewMarkFailedCommand(channelID string, orderID kernel.UUID, reason string) (MarkFailedCommand, error) {
	cmd := MarkFailedCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setChannelID(channelID),
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return MarkFailedCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkFailedCommand) Validate() error {
	return c.guard.Validate(ErrMarkFailedCommandIsNotConstructed)
}

// ChannelID returns the reporting channel identity.
func (c MarkFailedCommand) ChannelID() string {
	return c.channelID
}

// OrderID returns the order being reported on.
func (c MarkFailedCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the failure reason.
func (c MarkFailedCommand) Reason() string {
	return c.reason
}

func (c *MarkFailedCommand) setChannelID(channelID string) error {
	if channelID == "" {
		return ErrChannelIDIsRequired
	}

	c.channelID = channelID
	return nil
}

func (c *MarkFailedCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkFailedCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}
