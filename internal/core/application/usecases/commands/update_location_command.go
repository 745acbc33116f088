package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errors.New(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand carries a live location sample from a courier's
// channel. Samples overwrite each other; no movement history is kept.
type UpdateLocationCommand struct { //nolint:recvcheck //using for validation
	channelID  string
	location   kernel.GeoPoint
	reportedAt time.Time

	guard guard.ConstructorGuard
}

// NewUpdateLocationCommand creates a location update command.
func NewUpdateLocationCommand(channelID string, location kernel.GeoPoint, reportedAt time.Time) (UpdateLocationCommand, error) {
	cmd := UpdateLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setChannelID(channelID),
		cmd.setLocation(location),
		cmd.setReportedAt(reportedAt),
	); err != nil {
		return UpdateLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}

// ChannelID returns the reporting channel identity.
func (c UpdateLocationCommand) ChannelID() string {
	return c.channelID
}

// Location returns the reported coordinates.
func (c UpdateLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

// ReportedAt returns the sample timestamp.
func (c UpdateLocationCommand) ReportedAt() time.Time {
	return c.reportedAt
}

func (c *UpdateLocationCommand) setChannelID(channelID string) error {
	if channelID == "" {
		return ErrChannelIDIsRequired
	}

	c.channelID = channelID
	return nil
}

func (c *UpdateLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *UpdateLocationCommand) setReportedAt(reportedAt time.Time) error {
	if reportedAt.IsZero() {
		c.reportedAt = time.Now()
		return nil
	}

	c.reportedAt = reportedAt
	return nil
}
