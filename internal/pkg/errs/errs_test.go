package errs_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("name")
		assert.Equal(t, "name", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: name", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing field")
		err := errs.NewValueIsRequiredErrorWithCause("name", cause)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: name (cause: missing field)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("capacity")
		assert.Equal(t, "capacity", err.ParamName)
		assert.Equal(t, "value is invalid: capacity", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("0 is not greater than 0")
		err := errs.NewValueIsInvalidErrorWithCause("capacity", cause)
		assert.Equal(t, "value is invalid: capacity (cause: 0 is not greater than 0)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("latitude", 95.0, -90.0, 90.0)
	assert.Equal(t, "latitude", err.ParamName)
	assert.Equal(t, 95.0, err.Value)
	assert.Equal(t, "value is out of range: 95 is latitude, min value is -90, max value is 90", err.Error())
	assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
}

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("courier", "123")
		assert.Equal(t, "courier", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := errs.NewObjectNotFoundErrorWithCause("courier", "123", cause)
		assert.Equal(t,
			"object not found: param is: courier, ID is: 123 (cause: connection refused)",
			err.Error())
	})
}

func TestProviderUnavailableError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := errs.NewProviderUnavailableError("matrix", cause)
	assert.Equal(t, "matrix", err.Operation)
	assert.Equal(t,
		"travel cost provider unavailable: matrix (cause: dial tcp: timeout)",
		err.Error())
	assert.Equal(t, errs.ErrProviderUnavailable, err.Unwrap())
}

func TestConcurrencyConflictError(t *testing.T) {
	err := errs.NewConcurrencyConflictError("orders for 2024-06-01")
	assert.Equal(t, "concurrency conflict: orders for 2024-06-01", err.Error())
	assert.Equal(t, errs.ErrConcurrencyConflict, err.Unwrap())
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("order", "fail", "completed")
	assert.Equal(t, "completed", err.CurrentStatus)
	assert.Equal(t, "invalid status transition: cannot fail order in status completed", err.Error())
	assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewValueIsRequiredError("x"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewValueIsInvalidError("x"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("x", 1, 2, 3), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, errs.NewObjectNotFoundError("x", 1), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewProviderUnavailableError("matrix", nil), errs.ErrProviderUnavailable)
	require.ErrorIs(t, errs.NewConcurrencyConflictError("x"), errs.ErrConcurrencyConflict)
	require.ErrorIs(t, errs.NewInvalidTransitionError("order", "start", "failed"), errs.ErrInvalidTransition)
}

func TestSanitizeNewlines(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
	assert.Contains(t, err.Error(), "hello world")
	assert.NotContains(t, err.Error(), "\n")
}
