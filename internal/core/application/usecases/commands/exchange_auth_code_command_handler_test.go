package commands_test

import (
	"regexp"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type courierFixture struct {
	repo    *MockCourierRepository
	uow     *MockUoW
	factory *MockCourierUoWFactory
}

func newCourierFixture() *courierFixture {
	f := &courierFixture{
		repo:    new(MockCourierRepository),
		uow:     new(MockUoW),
		factory: new(MockCourierUoWFactory),
	}
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("CourierRepository").Return(f.repo)
	f.factory.On("Create").Return(f.uow)
	return f
}

func pendingCourier(t *testing.T, code string) *courier.Courier {
	t.Helper()
	home, err := kernel.NewGeoPoint(55.7558, 37.6173)
	require.NoError(t, err)
	c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), "Rider", courier.VehicleCar, 10, home)
	require.NoError(t, err)
	require.NoError(t, c.IssueAuthCode(code, 10*time.Minute, time.Now()))
	return c
}

func TestGenerateAuthCodeCommandHandler_Handle(t *testing.T) {
	t.Run("issues a six digit code and persists the courier", func(t *testing.T) {
		f := newCourierFixture()
		c := pendingCourier(t, "000000")
		f.repo.On("Get", mock.Anything, c.TenantID(), c.ID()).Return(c, nil)
		f.repo.On("Update", mock.Anything, c).Return(nil)

		cmd, err := commands.NewGenerateAuthCodeCommand(c.TenantID(), c.ID())
		require.NoError(t, err)
		handler := commands.NewGenerateAuthCodeCommandHandler(f.factory, 10*time.Minute)

		code, err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
		f.repo.AssertCalled(t, "Update", mock.Anything, c)
		f.uow.AssertCalled(t, "Commit", mock.Anything)
	})

	t.Run("fails when the courier is unknown", func(t *testing.T) {
		f := newCourierFixture()
		tenantID := kernel.NewUUID()
		courierID := kernel.NewUUID()
		f.repo.On("Get", mock.Anything, tenantID, courierID).
			Return(nil, errs.NewObjectNotFoundError("courier", courierID.String()))

		cmd, err := commands.NewGenerateAuthCodeCommand(tenantID, courierID)
		require.NoError(t, err)
		handler := commands.NewGenerateAuthCodeCommandHandler(f.factory, 10*time.Minute)

		_, err = handler.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestExchangeAuthCodeCommandHandler_Handle(t *testing.T) {
	t.Run("binds the channel on a valid code", func(t *testing.T) {
		f := newCourierFixture()
		c := pendingCourier(t, "482913")
		f.repo.On("GetByPendingCode", mock.Anything, "482913").Return(c, nil)
		f.repo.On("Update", mock.Anything, c).Return(nil)

		cmd, err := commands.NewExchangeAuthCodeCommand("482913", "chan-7")
		require.NoError(t, err)
		handler := commands.NewExchangeAuthCodeCommandHandler(f.factory)

		bound, err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, c.ID(), bound.ID())
		assert.True(t, bound.IsBound())
		assert.Equal(t, "chan-7", bound.ChannelID())
	})

	t.Run("unknown codes are rejected indistinctly", func(t *testing.T) {
		f := newCourierFixture()
		f.repo.On("GetByPendingCode", mock.Anything, "111111").
			Return(nil, errs.NewObjectNotFoundError("courier", "111111"))

		cmd, err := commands.NewExchangeAuthCodeCommand("111111", "chan-7")
		require.NoError(t, err)
		handler := commands.NewExchangeAuthCodeCommandHandler(f.factory)

		_, err = handler.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrAuthCodeRejected)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("a code works exactly once", func(t *testing.T) {
		f := newCourierFixture()
		c := pendingCourier(t, "482913")
		f.repo.On("GetByPendingCode", mock.Anything, "482913").Return(c, nil)
		f.repo.On("Update", mock.Anything, c).Return(nil)

		cmd, err := commands.NewExchangeAuthCodeCommand("482913", "chan-7")
		require.NoError(t, err)
		handler := commands.NewExchangeAuthCodeCommandHandler(f.factory)

		_, err = handler.Handle(t.Context(), cmd)
		require.NoError(t, err)

		// The storage lookup still finds the row, but the consumed code no
		// longer redeems.
		_, err = handler.Handle(t.Context(), cmd)
		require.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrAuthCodeRejected)
		assert.Equal(t, "chan-7", c.ChannelID())
	})

	t.Run("expired codes are rejected", func(t *testing.T) {
		f := newCourierFixture()
		home, err := kernel.NewGeoPoint(55.7558, 37.6173)
		require.NoError(t, err)
		c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), "Rider", courier.VehicleCar, 10, home)
		require.NoError(t, err)
		require.NoError(t, c.IssueAuthCode("482913", time.Minute, time.Now().Add(-2*time.Minute)))
		f.repo.On("GetByPendingCode", mock.Anything, "482913").Return(c, nil)

		cmd, err := commands.NewExchangeAuthCodeCommand("482913", "chan-7")
		require.NoError(t, err)
		handler := commands.NewExchangeAuthCodeCommandHandler(f.factory)

		_, err = handler.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrAuthCodeRejected)
		assert.False(t, c.IsBound())
	})

	t.Run("requires a channel id", func(t *testing.T) {
		_, err := commands.NewExchangeAuthCodeCommand("482913", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrChannelIDIsRequired)
	})
}
