package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var (
	ErrExchangeAuthCodeCommandIsNotConstructed = errors.New(
		"ExchangeAuthCodeCommand must be created via NewExchangeAuthCodeCommand constructor",
	)
	ErrCodeIsRequired = errors.New("auth code is required")
)

// ExchangeAuthCodeCommand is a channel's attempt to redeem a binding code.
type ExchangeAuthCodeCommand struct { //nolint:recvcheck //using for validation
	code      string
	channelID string

	guard guard.ConstructorGuard
}

// NewExchangeAuthCodeCommand creates an exchange command.
func NewExchangeAuthCodeCommand(code, channelID string) (ExchangeAuthCodeCommand, error) {
	cmd := ExchangeAuthCodeCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCode(code),
		cmd.setChannelID(channelID),
	); err != nil {
		return ExchangeAuthCodeCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ExchangeAuthCodeCommand) Validate() error {
	return c.guard.Validate(ErrExchangeAuthCodeCommandIsNotConstructed)
}

// Code returns the submitted code.
func (c ExchangeAuthCodeCommand) Code() string {
	return c.code
}

// ChannelID returns the channel requesting the binding.
func (c ExchangeAuthCodeCommand) ChannelID() string {
	return c.channelID
}

func (c *ExchangeAuthCodeCommand) setCode(code string) error {
	if code == "" {
		return ErrCodeIsRequired
	}

	c.code = code
	return nil
}

func (c *ExchangeAuthCodeCommand) setChannelID(channelID string) error {
	if channelID == "" {
		return ErrChannelIDIsRequired
	}

	c.channelID = channelID
	return nil
}
