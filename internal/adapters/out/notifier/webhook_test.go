package notifier_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNotice() ports.RouteNotice {
	return ports.RouteNotice{
		RouteID:        kernel.NewUUID(),
		Date:           "2024-06-01",
		DistanceMeters: 12500,
		Duration:       95 * time.Minute,
		Stops: []ports.StopNotice{
			{
				Position:  0,
				OrderID:   kernel.NewUUID(),
				Name:      "Parcel",
				Address:   "Tverskaya 7",
				Window:    "10:00-12:00",
				Recipient: order.Recipient{Name: "Anna", Phone: "+79001234567"},
				Actions:   []string{"deliver", "fail", "navigate", "call"},
			},
		},
	}
}

func TestWebhookNotifier_RoutePlanned(t *testing.T) {
	t.Run("should post the route payload to the webhook", func(t *testing.T) {
		var received map[string]any

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		}))
		defer server.Close()

		n, err := notifier.NewWebhookNotifier(server.URL, time.Second)
		require.NoError(t, err)

		notice := sampleNotice()
		err = n.RoutePlanned(t.Context(), "chan-1", notice)

		require.NoError(t, err)
		assert.Equal(t, "route_planned", received["event"])
		assert.Equal(t, "chan-1", received["channelId"])
		assert.Equal(t, notice.RouteID.String(), received["routeId"])
		assert.Equal(t, "2024-06-01", received["date"])
		assert.InDelta(t, float64(95*60), received["durationSec"].(float64), 0.001)

		stops := received["stops"].([]any)
		require.Len(t, stops, 1)
		stop := stops[0].(map[string]any)
		assert.Equal(t, "Parcel", stop["name"])
		assert.Equal(t, "Tverskaya 7", stop["address"])
		assert.Equal(t, "10:00-12:00", stop["window"])
		assert.Equal(t, "Anna", stop["recipient"])
		assert.Equal(t, "+79001234567", stop["phone"])
		assert.Equal(t, []any{"deliver", "fail", "navigate", "call"}, stop["actions"])
	})

	t.Run("should report an error response as provider unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		n, err := notifier.NewWebhookNotifier(server.URL, time.Second)
		require.NoError(t, err)

		err = n.RoutePlanned(t.Context(), "chan-1", sampleNotice())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
	})

	t.Run("should reject empty channel", func(t *testing.T) {
		n, err := notifier.NewWebhookNotifier("http://localhost", time.Second)
		require.NoError(t, err)

		err = n.RoutePlanned(t.Context(), "", sampleNotice())

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestNewWebhookNotifier(t *testing.T) {
	t.Run("should require URL", func(t *testing.T) {
		_, err := notifier.NewWebhookNotifier("", time.Second)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestNoopNotifier(t *testing.T) {
	n := notifier.NewNoopNotifier()
	assert.NoError(t, n.RoutePlanned(t.Context(), "chan-1", sampleNotice()))
}
