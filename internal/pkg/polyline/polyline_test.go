package polyline_test

import (
	"testing"

	"dispatch/internal/pkg/polyline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("matches the reference example", func(t *testing.T) {
		points := []polyline.Point{
			{Lat: 38.5, Lon: -120.2},
			{Lat: 40.7, Lon: -120.95},
			{Lat: 43.252, Lon: -126.453},
		}

		assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", polyline.Encode(points))
	})

	t.Run("empty input encodes to empty string", func(t *testing.T) {
		assert.Equal(t, "", polyline.Encode(nil))
	})
}

func TestDecode(t *testing.T) {
	t.Run("matches the reference example", func(t *testing.T) {
		points := polyline.Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

		require.Len(t, points, 3)
		assert.InDelta(t, 38.5, points[0].Lat, 1e-5)
		assert.InDelta(t, -120.2, points[0].Lon, 1e-5)
		assert.InDelta(t, 43.252, points[2].Lat, 1e-5)
		assert.InDelta(t, -126.453, points[2].Lon, 1e-5)
	})

	t.Run("round-trips arbitrary paths", func(t *testing.T) {
		points := []polyline.Point{
			{Lat: 55.7558, Lon: 37.6173},
			{Lat: 55.7601, Lon: 37.6185},
			{Lat: 55.7702, Lon: 37.5955},
		}

		decoded := polyline.Decode(polyline.Encode(points))

		require.Len(t, decoded, len(points))
		for i := range points {
			assert.InDelta(t, points[i].Lat, decoded[i].Lat, 1e-5)
			assert.InDelta(t, points[i].Lon, decoded[i].Lon, 1e-5)
		}
	})
}

func TestJoin(t *testing.T) {
	a := []polyline.Point{
		{Lat: 55.75, Lon: 37.61},
		{Lat: 55.76, Lon: 37.62},
	}
	b := []polyline.Point{
		{Lat: 55.76, Lon: 37.62},
		{Lat: 55.77, Lon: 37.63},
	}

	t.Run("drops the shared vertex between legs", func(t *testing.T) {
		joined := polyline.Decode(polyline.Join([]string{
			polyline.Encode(a), polyline.Encode(b),
		}))

		require.Len(t, joined, 3)
		assert.InDelta(t, 55.75, joined[0].Lat, 1e-5)
		assert.InDelta(t, 55.77, joined[2].Lat, 1e-5)
	})

	t.Run("skips empty legs", func(t *testing.T) {
		joined := polyline.Decode(polyline.Join([]string{
			"", polyline.Encode(a), "",
		}))

		require.Len(t, joined, 2)
	})
}
