package kernel_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeWindow(t *testing.T) {
	t.Run("should create valid window", func(t *testing.T) {
		w, err := kernel.NewTimeWindow(9*60, 12*60)

		require.NoError(t, err)
		assert.False(t, w.IsZero())
		assert.Equal(t, 540, w.From())
		assert.Equal(t, 720, w.To())
		assert.Equal(t, "09:00-12:00", w.String())
	})

	t.Run("should reject inverted window", func(t *testing.T) {
		_, err := kernel.NewTimeWindow(12*60, 9*60)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject out of range bounds", func(t *testing.T) {
		_, err := kernel.NewTimeWindow(-1, 60)
		require.Error(t, err)

		_, err = kernel.NewTimeWindow(0, 25*60)
		require.Error(t, err)
	})
}

func TestParseTimeWindow(t *testing.T) {
	t.Run("parses HH:MM-HH:MM", func(t *testing.T) {
		w, err := kernel.ParseTimeWindow("09:30-17:00")

		require.NoError(t, err)
		assert.Equal(t, 570, w.From())
		assert.Equal(t, 1020, w.To())
	})

	t.Run("empty string is unconstrained", func(t *testing.T) {
		w, err := kernel.ParseTimeWindow("")

		require.NoError(t, err)
		assert.True(t, w.IsZero())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := kernel.ParseTimeWindow("whenever")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestTimeWindow_FitsWithSlack(t *testing.T) {
	w, err := kernel.NewTimeWindow(9*60, 12*60)
	require.NoError(t, err)

	t.Run("arrival inside window fits", func(t *testing.T) {
		assert.True(t, w.FitsWithSlack(10*time.Hour, 0))
	})

	t.Run("early arrival fits", func(t *testing.T) {
		assert.True(t, w.FitsWithSlack(7*time.Hour, 0))
	})

	t.Run("arrival after end fits only within slack", func(t *testing.T) {
		assert.False(t, w.FitsWithSlack(12*time.Hour+20*time.Minute, 0))
		assert.True(t, w.FitsWithSlack(12*time.Hour+20*time.Minute, 30*time.Minute))
	})

	t.Run("zero window fits everything", func(t *testing.T) {
		var unconstrained kernel.TimeWindow
		assert.True(t, unconstrained.FitsWithSlack(23*time.Hour, 0))
	})
}

func TestTimeWindow_EffectiveStart(t *testing.T) {
	w, err := kernel.NewTimeWindow(9*60, 12*60)
	require.NoError(t, err)

	t.Run("early arrival waits for window start", func(t *testing.T) {
		assert.Equal(t, 9*time.Hour, w.EffectiveStart(8*time.Hour))
	})

	t.Run("arrival inside window starts immediately", func(t *testing.T) {
		assert.Equal(t, 10*time.Hour, w.EffectiveStart(10*time.Hour))
	})

	t.Run("zero window never waits", func(t *testing.T) {
		var unconstrained kernel.TimeWindow
		assert.Equal(t, 8*time.Hour, unconstrained.EffectiveStart(8*time.Hour))
	})
}
