package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("valid statuses pass", func(t *testing.T) {
		for _, s := range []order.Status{order.Planned, order.InProgress, order.Completed, order.Failed} {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("unknown and out-of-range fail", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(42).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "planned", order.Planned.String())
	assert.Equal(t, "in_progress", order.InProgress.String())
	assert.Equal(t, "completed", order.Completed.String())
	assert.Equal(t, "failed", order.Failed.String())
	assert.Equal(t, "unknown", order.Status(42).String())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round-trips all valid statuses", func(t *testing.T) {
		for _, s := range []order.Status{order.Planned, order.InProgress, order.Completed, order.Failed} {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		_, err := order.StatusFromString("delivering")
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, order.Planned.IsTerminal())
	assert.False(t, order.InProgress.IsTerminal())
	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Failed.IsTerminal())
}

func TestStatus_Start(t *testing.T) {
	t.Run("planned starts", func(t *testing.T) {
		s, err := order.Planned.Start()
		require.NoError(t, err)
		assert.Equal(t, order.InProgress, s)
	})

	t.Run("in_progress start is idempotent", func(t *testing.T) {
		s, err := order.InProgress.Start()
		require.NoError(t, err)
		assert.Equal(t, order.InProgress, s)
	})

	t.Run("terminal statuses reject start", func(t *testing.T) {
		for _, s := range []order.Status{order.Completed, order.Failed} {
			_, err := s.Start()
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		}
	})
}

func TestStatus_Complete(t *testing.T) {
	t.Run("completes from planned and in_progress", func(t *testing.T) {
		for _, from := range []order.Status{order.Planned, order.InProgress} {
			s, err := from.Complete()
			require.NoError(t, err)
			assert.Equal(t, order.Completed, s)
		}
	})

	t.Run("completed retry is idempotent", func(t *testing.T) {
		s, err := order.Completed.Complete()
		require.NoError(t, err)
		assert.Equal(t, order.Completed, s)
	})

	t.Run("failed rejects complete", func(t *testing.T) {
		_, err := order.Failed.Complete()
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestStatus_Fail(t *testing.T) {
	t.Run("fails from planned and in_progress", func(t *testing.T) {
		for _, from := range []order.Status{order.Planned, order.InProgress} {
			s, err := from.Fail()
			require.NoError(t, err)
			assert.Equal(t, order.Failed, s)
		}
	})

	t.Run("failed retry is idempotent", func(t *testing.T) {
		s, err := order.Failed.Fail()
		require.NoError(t, err)
		assert.Equal(t, order.Failed, s)
	})

	t.Run("completed rejects fail", func(t *testing.T) {
		_, err := order.Completed.Fail()
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}
