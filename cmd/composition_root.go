package cmd

import (
	"log/slog"
	"os"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/routing"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. All wiring failures
// are fatal: a service that cannot assemble has nothing to serve.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	provider   ports.TravelCostProvider
	notifier   ports.DispatchNotifier
	solver     services.AssignmentSolver
	profiles   courier.ProfileMap
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	provider, err := routing.NewORSProvider(config.RoutingBaseURL, config.RoutingAPIKey, config.RoutingTimeout)
	if err != nil {
		log.Fatalf("cannot create routing provider: %v", err)
	}

	var dispatchNotifier ports.DispatchNotifier = notifier.NewNoopNotifier()
	if config.NotifierURL != "" {
		dispatchNotifier, err = notifier.NewWebhookNotifier(config.NotifierURL, config.NotifierTimeout)
		if err != nil {
			log.Fatalf("cannot create notifier: %v", err)
		}
	}

	profiles := courier.DefaultProfileMap()
	for class, profile := range config.ProfileOverrides {
		vehicle, classErr := courier.VehicleClassFromString(class)
		if classErr != nil {
			log.Fatalf("invalid profile override %q: %v", class, classErr)
		}
		profiles[vehicle] = profile
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		provider:   provider,
		notifier:   dispatchNotifier,
		solver: services.NewAssignmentSolver(services.SolverConfig{
			RouteStart:            config.RouteStart,
			WindowSlack:           config.WindowSlack,
			ImprovementIterations: config.ImprovementIterations,
		}),
		profiles: profiles,
		logger:   slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

// Logger returns the process-wide structured logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

// HTTPHandlers assembles the full handler set for the HTTP server.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreatePoint:      c.CreateCreatePointCommandHandler(),
		CreateCourier:    c.CreateCreateCourierCommandHandler(),
		CreateOrder:      c.CreateCreateOrderCommandHandler(),
		GenerateAuthCode: c.CreateGenerateAuthCodeCommandHandler(),
		OptimizeRoutes:   c.CreateOptimizeRoutesCommandHandler(),
		ReorderRoute:     c.CreateReorderRouteCommandHandler(),

		ExchangeAuthCode: c.CreateExchangeAuthCodeCommandHandler(),
		ToggleShift:      c.CreateToggleShiftCommandHandler(),
		UpdateLocation:   c.CreateUpdateLocationCommandHandler(),
		MarkArrived:      c.CreateMarkArrivedCommandHandler(),
		MarkDelivered:    c.CreateMarkDeliveredCommandHandler(),
		MarkFailed:       c.CreateMarkFailedCommandHandler(),

		GetActiveRoutes:     c.CreateGetActiveRoutesQueryHandler(),
		GetUnassignedOrders: c.CreateGetUnassignedOrdersQueryHandler(),
	}
}

// CreateJobManager wires the scheduled background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	cleanupHandler := c.CreateCleanupAuthCodesCommandHandler()
	cleanup := jobs.NewAuthCodeCleanupJob(cleanupHandler, c.logger)

	tenants := make([]kernel.UUID, 0, len(c.config.DailyOptimizeTenants))
	for _, raw := range c.config.DailyOptimizeTenants {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			log.Fatalf("invalid tenant id %q in daily optimize list: %v", raw, err)
		}
		tenants = append(tenants, id)
	}

	optimize := jobs.NewDailyOptimizeJob(
		c.CreateOptimizeRoutesCommandHandler(),
		tenants,
		c.config.DailyOptimizeSchedule,
		c.config.OptimizeTimeout,
		c.logger,
	)

	return jobs.NewJobManager(cleanup, optimize)
}

func (c *CompositionRoot) CreateCreatePointCommandHandler() commands.CreatePointCommandHandler {
	var f commands.PointUoWFactory = FuncPointUoWFactory(func() commands.PointUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePointCommandHandler(f, c.provider)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.provider, c.logger)
}

func (c *CompositionRoot) CreateGenerateAuthCodeCommandHandler() commands.GenerateAuthCodeCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewGenerateAuthCodeCommandHandler(f, c.config.AuthCodeTTL)
}

func (c *CompositionRoot) CreateCleanupAuthCodesCommandHandler() commands.CleanupAuthCodesCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCleanupAuthCodesCommandHandler(f)
}

func (c *CompositionRoot) CreateOptimizeRoutesCommandHandler() *commands.OptimizeRoutesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewOptimizeRoutesCommandHandler(f, c.provider, c.notifier, c.solver, c.profiles, c.logger)
	return &handler
}

func (c *CompositionRoot) CreateReorderRouteCommandHandler() commands.ReorderRouteCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReorderRouteCommandHandler(f, c.provider, c.profiles, c.logger)
}

func (c *CompositionRoot) CreateExchangeAuthCodeCommandHandler() commands.ExchangeAuthCodeCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExchangeAuthCodeCommandHandler(f)
}

func (c *CompositionRoot) CreateToggleShiftCommandHandler() commands.ToggleShiftCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewToggleShiftCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateLocationCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkArrivedCommandHandler() commands.MarkArrivedCommandHandler {
	var f commands.CourierActionUoWFactory = FuncCourierActionUoWFactory(func() commands.CourierActionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkArrivedCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	var f commands.CourierActionUoWFactory = FuncCourierActionUoWFactory(func() commands.CourierActionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkDeliveredCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkFailedCommandHandler() commands.MarkFailedCommandHandler {
	var f commands.CourierActionUoWFactory = FuncCourierActionUoWFactory(func() commands.CourierActionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkFailedCommandHandler(f)
}

func (c *CompositionRoot) CreateGetActiveRoutesQueryHandler() queries.GetActiveRoutesQueryHandler {
	return queries.NewGetActiveRoutesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnassignedOrdersQueryHandler() queries.GetUnassignedOrdersQueryHandler {
	return queries.NewGetUnassignedOrdersQueryHandler(c.gormDB)
}

// Func adapters narrow the concrete unit of work factory to the role
// interfaces each handler asks for.

type FuncPointUoWFactory func() commands.PointUoW

func (f FuncPointUoWFactory) Create() commands.PointUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierActionUoWFactory func() commands.CourierActionUoW

func (f FuncCourierActionUoWFactory) Create() commands.CourierActionUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
