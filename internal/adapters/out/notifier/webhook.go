// Package notifier pushes planning results to courier channels over a
// webhook. The channel backend (bot platform, push gateway) sits behind a
// single configured URL.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// WebhookNotifier implements ports.DispatchNotifier by POSTing a JSON payload
// per planned route. Safe for concurrent use.
type WebhookNotifier struct {
	session *http.Client
	url     string
}

// NewWebhookNotifier creates a notifier against the given webhook URL.
func NewWebhookNotifier(url string, timeout time.Duration) (*WebhookNotifier, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("webhook URL")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &WebhookNotifier{
		session: &http.Client{Timeout: timeout},
		url:     strings.TrimRight(url, "/"),
	}, nil
}

type stopPayload struct {
	Position  int      `json:"position"`
	OrderID   string   `json:"orderId"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Window    string   `json:"window,omitempty"`
	Recipient string   `json:"recipient,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Actions   []string `json:"actions"`
}

type routePlannedPayload struct {
	Event          string        `json:"event"`
	ChannelID      string        `json:"channelId"`
	RouteID        string        `json:"routeId"`
	Date           string        `json:"date"`
	DistanceMeters float64       `json:"distanceMeters"`
	DurationSec    int64         `json:"durationSec"`
	Stops          []stopPayload `json:"stops"`
}

// RoutePlanned pushes a planned route to the courier's channel.
func (n *WebhookNotifier) RoutePlanned(ctx context.Context, channelID string, notice ports.RouteNotice) error {
	if channelID == "" {
		return errs.NewValueIsRequiredError("channelID")
	}

	payload := routePlannedPayload{
		Event:          "route_planned",
		ChannelID:      channelID,
		RouteID:        notice.RouteID.String(),
		Date:           notice.Date,
		DistanceMeters: notice.DistanceMeters,
		DurationSec:    int64(notice.Duration / time.Second),
		Stops:          make([]stopPayload, 0, len(notice.Stops)),
	}
	for _, stop := range notice.Stops {
		payload.Stops = append(payload.Stops, stopPayload{
			Position:  stop.Position,
			OrderID:   stop.OrderID.String(),
			Name:      stop.Name,
			Address:   stop.Address,
			Window:    stop.Window,
			Recipient: stop.Recipient.Name,
			Phone:     stop.Recipient.Phone,
			Actions:   stop.Actions,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal route notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.session.Do(req)
	if err != nil {
		return errs.NewProviderUnavailableError("notify", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return errs.NewProviderUnavailableError("notify",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	return nil
}

// NoopNotifier discards notifications. Used when no webhook is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) RoutePlanned(_ context.Context, _ string, _ ports.RouteNotice) error {
	return nil
}
