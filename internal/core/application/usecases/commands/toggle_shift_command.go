package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrToggleShiftCommandIsNotConstructed = errors.New(
	"ToggleShiftCommand must be created via NewToggleShiftCommand constructor",
)

// ToggleShiftCommand flips a courier's on-shift flag from their channel.
type ToggleShiftCommand struct { //nolint:recvcheck //using for validation
	channelID string
	onShift   bool

	guard guard.ConstructorGuard
}

// NewToggleShiftCommand creates a shift toggle command.
func NewToggleShiftCommand(channelID string, onShift bool) (ToggleShiftCommand, error) {
	cmd := ToggleShiftCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setChannelID(channelID); err != nil {
		return ToggleShiftCommand{}, err
	}

	cmd.onShift = onShift
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ToggleShiftCommand) Validate() error {
	return c.guard.Validate(ErrToggleShiftCommandIsNotConstructed)
}

// ChannelID returns the reporting channel identity.
func (c ToggleShiftCommand) ChannelID() string {
	return c.channelID
}

// OnShift returns the requested shift state.
func (c ToggleShiftCommand) OnShift() bool {
	return c.onShift
}

func (c *ToggleShiftCommand) setChannelID(channelID string) error {
	if channelID == "" {
		return ErrChannelIDIsRequired
	}

	c.channelID = channelID
	return nil
}
