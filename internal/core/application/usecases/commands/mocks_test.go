package commands_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/point"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPointRepository struct{ mock.Mock }

func (m *MockPointRepository) Add(ctx context.Context, p *point.Point) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPointRepository) Update(ctx context.Context, p *point.Point) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPointRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*point.Point, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*point.Point), args.Error(1)
}

func (m *MockPointRepository) GetAll(ctx context.Context, tenantID kernel.UUID) ([]*point.Point, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*point.Point), args.Error(1)
}

func (m *MockPointRepository) GetPrimary(ctx context.Context, tenantID kernel.UUID) (*point.Point, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*point.Point), args.Error(1)
}

func (m *MockPointRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetByChannel(ctx context.Context, channelID string) (*courier.Courier, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetByPendingCode(ctx context.Context, code string) (*courier.Courier, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllOnShift(ctx context.Context, tenantID kernel.UUID) ([]*courier.Courier, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllWithPendingCodes(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllByRoute(ctx context.Context, tenantID, routeID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, tenantID, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllUnassigned(ctx context.Context, tenantID kernel.UUID, visitDate string) ([]*order.Order, error) {
	args := m.Called(ctx, tenantID, visitDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ClaimPlannable(ctx context.Context, tenantID kernel.UUID, visitDate, claim string) ([]*order.Order, error) {
	args := m.Called(ctx, tenantID, visitDate, claim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ReleaseClaim(ctx context.Context, tenantID kernel.UUID, claim string) error {
	args := m.Called(ctx, tenantID, claim)
	return args.Error(0)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, tenantID, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetAllActive(ctx context.Context, tenantID kernel.UUID, date string) ([]*route.Route, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*route.Route), args.Error(1)
}

func (m *MockRouteRepository) GetActiveByCourier(ctx context.Context, tenantID, courierID kernel.UUID, date string) (*route.Route, error) {
	args := m.Called(ctx, tenantID, courierID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

func (m *MockRouteRepository) Delete(ctx context.Context, tenantID, id kernel.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface in the package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) PointRepository() ports.PointRepository {
	args := m.Called()
	return args.Get(0).(ports.PointRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPointUoWFactory struct{ mock.Mock }

func (m *MockPointUoWFactory) Create() commands.PointUoW {
	args := m.Called()
	return args.Get(0).(commands.PointUoW)
}

type MockCourierActionUoWFactory struct{ mock.Mock }

func (m *MockCourierActionUoWFactory) Create() commands.CourierActionUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierActionUoW)
}

type MockTravelCostProvider struct{ mock.Mock }

func (m *MockTravelCostProvider) Matrix(ctx context.Context, profile string, depot kernel.GeoPoint, destinations []kernel.GeoPoint) (services.CostMatrix, error) {
	args := m.Called(ctx, profile, depot, destinations)
	return args.Get(0).(services.CostMatrix), args.Error(1)
}

func (m *MockTravelCostProvider) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockDispatchNotifier struct{ mock.Mock }

func (m *MockDispatchNotifier) RoutePlanned(ctx context.Context, channelID string, notice ports.RouteNotice) error {
	args := m.Called(ctx, channelID, notice)
	return args.Error(0)
}
