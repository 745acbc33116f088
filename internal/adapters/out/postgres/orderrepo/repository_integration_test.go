package orderrepo_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	tenantID   kernel.UUID
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
	suite.tenantID = kernel.NewUUID()
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(visitDate string) *order.Order {
	dest, err := kernel.NewGeoPoint(55.7558, 37.6173)
	suite.Require().NoError(err)
	window, err := kernel.ParseTimeWindow("10:00-14:00")
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), suite.tenantID, "Parcel", kernel.NewUUID(), "Tverskaya 7", &dest,
		visitDate, window, 5*time.Minute,
		order.Recipient{Name: "Anna", Phone: "+79001234567"},
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTripsAllFields() {
	ctx := context.Background()
	o := suite.newOrder("2024-06-01")

	suite.Require().NoError(suite.repository.Add(ctx, o))

	restored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(o.ID()))
	suite.True(restored.TenantID().IsEqual(suite.tenantID))
	suite.Equal("Parcel", restored.Name())
	suite.Equal("Tverskaya 7", restored.Address())
	suite.Require().NotNil(restored.Destination())
	suite.True(restored.Destination().IsEqual(*o.Destination()))
	suite.Equal("2024-06-01", restored.VisitDate())
	suite.Equal("10:00-14:00", restored.Window().String())
	suite.Equal(5*time.Minute, restored.ServiceDuration())
	suite.Equal(order.Recipient{Name: "Anna", Phone: "+79001234567"}, restored.RecipientContact())
	suite.Equal(order.Planned, restored.Status())
	suite.Nil(restored.RouteID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_WithoutCoordinates_RoundTrips() {
	ctx := context.Background()
	o, err := order.NewOrder(
		kernel.NewUUID(), suite.tenantID, "Ungeocoded", kernel.NewUUID(), "Nowhere 1", nil,
		"2024-06-01", kernel.TimeWindow{}, 0, order.Recipient{},
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, o))

	restored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.False(restored.HasCoordinates())
	suite.True(restored.Window().IsZero())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ForeignTenant_ReturnsNotFound() {
	ctx := context.Background()
	o := suite.newOrder("2024-06-01")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := suite.repository.Get(ctx, kernel.NewUUID(), o.ID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsRouteLinkageAndClearsClaim() {
	ctx := context.Background()
	o := suite.newOrder("2024-06-01")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	claimed, err := suite.repository.ClaimPlannable(ctx, suite.tenantID, "2024-06-01", "run-1")
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 1)

	courierID, routeID := kernel.NewUUID(), kernel.NewUUID()
	member := claimed[0]
	suite.Require().NoError(member.AssignToRoute(courierID, routeID, 0))
	suite.Require().NoError(suite.repository.Update(ctx, member))

	restored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(restored.RouteID())
	suite.True(restored.RouteID().IsEqual(routeID))
	suite.Require().NotNil(restored.CourierID())
	suite.True(restored.CourierID().IsEqual(courierID))
	suite.Require().NotNil(restored.RoutePosition())
	suite.Equal(0, *restored.RoutePosition())

	var claim sql.NullString
	err = suite.db.Raw("SELECT claim FROM orders WHERE id = ?", o.ID().Bytes()).Scan(&claim).Error
	suite.Require().NoError(err)
	suite.False(claim.Valid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaimPlannable_SkipsRoutedAndOtherDates() {
	ctx := context.Background()

	plannable := suite.newOrder("2024-06-01")
	otherDate := suite.newOrder("2024-06-02")
	routed := suite.newOrder("2024-06-01")
	suite.Require().NoError(routed.AssignToRoute(kernel.NewUUID(), kernel.NewUUID(), 0))

	for _, o := range []*order.Order{plannable, otherDate, routed} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	claimed, err := suite.repository.ClaimPlannable(ctx, suite.tenantID, "2024-06-01", "run-1")
	suite.Require().NoError(err)
	suite.Require().Len(claimed, 1)
	suite.True(claimed[0].ID().IsEqual(plannable.ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaimPlannable_ContestedBacklog_ReturnsConflict() {
	ctx := context.Background()
	mine := suite.newOrder("2024-06-01")
	theirs := suite.newOrder("2024-06-01")
	suite.Require().NoError(suite.repository.Add(ctx, mine))
	suite.Require().NoError(suite.repository.Add(ctx, theirs))

	err := suite.db.Exec("UPDATE orders SET claim = ? WHERE id = ?", "run-other", theirs.ID().Bytes()).Error
	suite.Require().NoError(err)

	_, err = suite.repository.ClaimPlannable(ctx, suite.tenantID, "2024-06-01", "run-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrConcurrencyConflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestReleaseClaim_ClearsOnlyOwnClaim() {
	ctx := context.Background()
	o := suite.newOrder("2024-06-01")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := suite.repository.ClaimPlannable(ctx, suite.tenantID, "2024-06-01", "run-1")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.ReleaseClaim(ctx, suite.tenantID, "run-1"))

	claimed, err := suite.repository.ClaimPlannable(ctx, suite.tenantID, "2024-06-01", "run-2")
	suite.Require().NoError(err)
	suite.Len(claimed, 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllByRoute_ReturnsMembersInPositionOrder() {
	ctx := context.Background()
	courierID, routeID := kernel.NewUUID(), kernel.NewUUID()

	first := suite.newOrder("2024-06-01")
	second := suite.newOrder("2024-06-01")
	suite.Require().NoError(second.AssignToRoute(courierID, routeID, 1))
	suite.Require().NoError(first.AssignToRoute(courierID, routeID, 0))
	suite.Require().NoError(suite.repository.Add(ctx, second))
	suite.Require().NoError(suite.repository.Add(ctx, first))

	members, err := suite.repository.GetAllByRoute(ctx, suite.tenantID, routeID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 2)
	suite.True(members[0].ID().IsEqual(first.ID()))
	suite.True(members[1].ID().IsEqual(second.ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllUnassigned_ExcludesRouted() {
	ctx := context.Background()
	backlog := suite.newOrder("2024-06-01")
	routed := suite.newOrder("2024-06-01")
	suite.Require().NoError(routed.AssignToRoute(kernel.NewUUID(), kernel.NewUUID(), 0))
	suite.Require().NoError(suite.repository.Add(ctx, backlog))
	suite.Require().NoError(suite.repository.Add(ctx, routed))

	unassigned, err := suite.repository.GetAllUnassigned(ctx, suite.tenantID, "2024-06-01")
	suite.Require().NoError(err)
	suite.Require().Len(unassigned, 1)
	suite.True(unassigned[0].ID().IsEqual(backlog.ID()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_TerminalDetailsRoundTrip() {
	ctx := context.Background()
	o := suite.newOrder("2024-06-01")
	suite.Require().NoError(o.AssignToRoute(kernel.NewUUID(), kernel.NewUUID(), 0))
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.Start())
	suite.Require().NoError(o.Fail("recipient absent"))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	restored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Failed, restored.Status())
	suite.Equal("recipient absent", restored.FailureReason())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
