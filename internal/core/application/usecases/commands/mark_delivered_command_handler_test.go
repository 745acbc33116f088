package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type routeFixture struct {
	rider  *courier.Courier
	route  *route.Route
	orders []*order.Order

	courierRepo *MockCourierRepository
	orderRepo   *MockOrderRepository
	routeRepo   *MockRouteRepository
	uow         *MockUoW
	factory     *MockCourierActionUoWFactory
}

// newRouteFixture builds a bound courier with an active two-stop route and
// wires permissive mocks around it.
func newRouteFixture(t *testing.T) *routeFixture {
	t.Helper()
	tenantID := kernel.NewUUID()
	rider := boundCourier(t, tenantID, 10)
	routeID := kernel.NewUUID()
	riderID := rider.ID()

	var orders []*order.Order
	var stops []kernel.UUID
	for position := 0; position < 2; position++ {
		dest, err := kernel.NewGeoPoint(55.70+float64(position)/100, 37.60)
		require.NoError(t, err)
		pos := position
		o, err := order.RestoreOrder(
			kernel.NewUUID(), tenantID, "Parcel", kernel.NewUUID(), "Lenina 5", &dest,
			planDate, kernel.TimeWindow{}, 5*time.Minute, order.Recipient{},
			order.Planned, &riderID, &routeID, &pos, "", "",
		)
		require.NoError(t, err)
		orders = append(orders, o)
		stops = append(stops, o.ID())
	}

	r, err := route.RestoreRoute(
		routeID, tenantID, riderID, planDate, route.Active, stops, "",
		route.CostSummary{},
	)
	require.NoError(t, err)

	f := &routeFixture{
		rider:       rider,
		route:       r,
		orders:      orders,
		courierRepo: new(MockCourierRepository),
		orderRepo:   new(MockOrderRepository),
		routeRepo:   new(MockRouteRepository),
		uow:         new(MockUoW),
		factory:     new(MockCourierActionUoWFactory),
	}

	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("CourierRepository").Return(f.courierRepo)
	f.uow.On("OrderRepository").Return(f.orderRepo)
	f.uow.On("RouteRepository").Return(f.routeRepo)
	f.factory.On("Create").Return(f.uow)

	f.courierRepo.On("GetByChannel", mock.Anything, "chan-1").Return(rider, nil)
	for _, o := range orders {
		f.orderRepo.On("Get", mock.Anything, tenantID, o.ID()).Return(o, nil)
	}
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
	f.routeRepo.On("Get", mock.Anything, tenantID, routeID).Return(r, nil)
	f.orderRepo.On("GetAllByRoute", mock.Anything, tenantID, routeID).Return(orders, nil)
	f.routeRepo.On("Update", mock.Anything, mock.AnythingOfType("*route.Route")).Return(nil)

	return f
}

func deliver(t *testing.T, f *routeFixture, orderID kernel.UUID, proofRef string) error {
	t.Helper()
	cmd, err := commands.NewMarkDeliveredCommand("chan-1", orderID, proofRef)
	require.NoError(t, err)
	handler := commands.NewMarkDeliveredCommandHandler(f.factory)
	return handler.Handle(t.Context(), cmd)
}

func TestMarkDeliveredCommandHandler_Handle(t *testing.T) {
	t.Run("completes the order and keeps the route active", func(t *testing.T) {
		f := newRouteFixture(t)

		require.NoError(t, deliver(t, f, f.orders[1].ID(), "photo-42"))

		// Out-of-order delivery: the second stop completed while the first is
		// still planned, the route stays active.
		assert.Equal(t, order.Completed, f.orders[1].Status())
		assert.Equal(t, "photo-42", f.orders[1].ProofRef())
		assert.Equal(t, order.Planned, f.orders[0].Status())
		assert.Equal(t, route.Active, f.route.Status())
		f.routeRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completes the route when the last member turns terminal", func(t *testing.T) {
		f := newRouteFixture(t)

		require.NoError(t, deliver(t, f, f.orders[0].ID(), ""))
		require.NoError(t, deliver(t, f, f.orders[1].ID(), ""))

		assert.Equal(t, route.Completed, f.route.Status())
		f.routeRepo.AssertCalled(t, "Update", mock.Anything, mock.AnythingOfType("*route.Route"))
	})

	t.Run("repeating a delivery report is an idempotent success", func(t *testing.T) {
		f := newRouteFixture(t)

		require.NoError(t, deliver(t, f, f.orders[0].ID(), "first-proof"))
		require.NoError(t, deliver(t, f, f.orders[0].ID(), "second-proof"))

		assert.Equal(t, order.Completed, f.orders[0].Status())
		assert.Equal(t, "first-proof", f.orders[0].ProofRef())
	})

	t.Run("rejects delivery of a failed order", func(t *testing.T) {
		f := newRouteFixture(t)
		require.NoError(t, f.orders[0].Start())
		require.NoError(t, f.orders[0].Fail("recipient absent"))

		err := deliver(t, f, f.orders[0].ID(), "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Failed, f.orders[0].Status())
	})

	t.Run("rejects a report about another courier's order", func(t *testing.T) {
		f := newRouteFixture(t)
		foreignID := kernel.NewUUID()
		foreignCourier := kernel.NewUUID()
		foreignRoute := kernel.NewUUID()
		pos := 0
		dest, err := kernel.NewGeoPoint(55.70, 37.60)
		require.NoError(t, err)
		foreign, err := order.RestoreOrder(
			foreignID, f.rider.TenantID(), "Parcel", kernel.NewUUID(), "Lenina 5", &dest,
			planDate, kernel.TimeWindow{}, 0, order.Recipient{},
			order.Planned, &foreignCourier, &foreignRoute, &pos, "", "",
		)
		require.NoError(t, err)
		f.orderRepo.On("Get", mock.Anything, f.rider.TenantID(), foreignID).Return(foreign, nil)

		err = deliver(t, f, foreignID, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Equal(t, order.Planned, foreign.Status())
	})

	t.Run("rejects reports from unbound channels", func(t *testing.T) {
		f := newRouteFixture(t)
		f.courierRepo.On("GetByChannel", mock.Anything, "stranger").
			Return(nil, errs.NewObjectNotFoundError("courier", "stranger"))

		cmd, err := commands.NewMarkDeliveredCommand("stranger", f.orders[0].ID(), "")
		require.NoError(t, err)
		handler := commands.NewMarkDeliveredCommandHandler(f.factory)

		require.Error(t, handler.Handle(t.Context(), cmd))
	})
}

func TestMarkFailedCommandHandler_Handle(t *testing.T) {
	t.Run("fails the order with the reason", func(t *testing.T) {
		f := newRouteFixture(t)

		cmd, err := commands.NewMarkFailedCommand("chan-1", f.orders[0].ID(), "recipient absent")
		require.NoError(t, err)
		handler := commands.NewMarkFailedCommandHandler(f.factory)

		require.NoError(t, handler.Handle(t.Context(), cmd))
		assert.Equal(t, order.Failed, f.orders[0].Status())
		assert.Equal(t, "recipient absent", f.orders[0].FailureReason())
	})

	t.Run("a failed stop counts toward route completion", func(t *testing.T) {
		f := newRouteFixture(t)

		require.NoError(t, deliver(t, f, f.orders[0].ID(), ""))

		cmd, err := commands.NewMarkFailedCommand("chan-1", f.orders[1].ID(), "address not found")
		require.NoError(t, err)
		handler := commands.NewMarkFailedCommandHandler(f.factory)
		require.NoError(t, handler.Handle(t.Context(), cmd))

		assert.Equal(t, route.Completed, f.route.Status())
	})

	t.Run("requires a reason", func(t *testing.T) {
		_, err := commands.NewMarkFailedCommand("chan-1", kernel.NewUUID(), "")

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrReasonIsRequired)
	})
}

func TestMarkArrivedCommandHandler_Handle(t *testing.T) {
	t.Run("moves the order to in progress", func(t *testing.T) {
		f := newRouteFixture(t)

		cmd, err := commands.NewMarkArrivedCommand("chan-1", f.orders[0].ID())
		require.NoError(t, err)
		handler := commands.NewMarkArrivedCommandHandler(f.factory)

		require.NoError(t, handler.Handle(t.Context(), cmd))
		assert.Equal(t, order.InProgress, f.orders[0].Status())
	})

	t.Run("arriving at a later stop first is accepted", func(t *testing.T) {
		f := newRouteFixture(t)

		cmd, err := commands.NewMarkArrivedCommand("chan-1", f.orders[1].ID())
		require.NoError(t, err)
		handler := commands.NewMarkArrivedCommandHandler(f.factory)

		require.NoError(t, handler.Handle(t.Context(), cmd))
		assert.Equal(t, order.InProgress, f.orders[1].Status())
		assert.Equal(t, order.Planned, f.orders[0].Status())
	})
}
