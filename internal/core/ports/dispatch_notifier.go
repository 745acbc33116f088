package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// StopNotice is one stop of a planned route as pushed to the courier channel.
// Actions lists the action buttons the channel renders for the stop, such as
// "deliver", "fail", "navigate" and "call".
type StopNotice struct {
	Position  int
	OrderID   kernel.UUID
	Name      string
	Address   string
	Window    string
	Recipient order.Recipient
	Actions   []string
}

// RouteNotice is the payload pushed to a courier channel when a route is
// planned for them.
type RouteNotice struct {
	RouteID        kernel.UUID
	Date           string
	DistanceMeters float64
	Duration       time.Duration
	Stops          []StopNotice
}

// DispatchNotifier pushes planning results out to courier channels. Delivery
// is best effort: a notification failure never rolls back a persisted route.
type DispatchNotifier interface {
	RoutePlanned(ctx context.Context, channelID string, notice RouteNotice) error
}
