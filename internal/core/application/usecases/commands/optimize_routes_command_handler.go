package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/point"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/polyline"
)

// FailedCluster reports one pickup point whose orders could not be planned
// this run. Its orders return to the eligible pool when the claim is released.
type FailedCluster struct {
	PointID kernel.UUID
	Reason  string
}

// OptimizeRoutesResult summarizes one planning run for the dispatcher.
type OptimizeRoutesResult struct {
	CreatedRouteIDs    []kernel.UUID
	UnassignedOrderIDs []kernel.UUID
	Skipped            []services.SkippedOrder
	FailedClusters     []FailedCluster
}

// OptimizeRoutesCommandHandler runs the planning pipeline: claim the date's
// eligible orders, cluster them by pickup point, price each cluster through
// the travel cost provider, solve, and persist one transaction per route.
//
// Cluster failures are isolated: a provider outage for one pickup point fails
// only that cluster, and the claim release at the end of the run returns its
// orders to the eligible pool.
type OptimizeRoutesCommandHandler struct {
	uowFactory UoWFactory
	provider   ports.TravelCostProvider
	notifier   ports.DispatchNotifier
	solver     services.AssignmentSolver
	profiles   courier.ProfileMap
	logger     *slog.Logger
}

// NewOptimizeRoutesCommandHandler creates a handler for planning runs.
func NewOptimizeRoutesCommandHandler(
	uowFactory UoWFactory,
	provider ports.TravelCostProvider,
	notifier ports.DispatchNotifier,
	solver services.AssignmentSolver,
	profiles courier.ProfileMap,
	logger *slog.Logger,
) OptimizeRoutesCommandHandler {
	return OptimizeRoutesCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		notifier:   notifier,
		solver:     solver,
		profiles:   profiles,
		logger:     logger.With("component", "optimize_routes"),
	}
}

// Handle executes one planning run.
func (h *OptimizeRoutesCommandHandler) Handle(ctx context.Context, cmd OptimizeRoutesCommand) (OptimizeRoutesResult, error) {
	if err := cmd.Validate(); err != nil {
		return OptimizeRoutesResult{}, err
	}

	if cmd.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout())
		defer cancel()
	}

	claim := kernel.NewUUID().String()

	claimed, points, couriers, err := h.claimEligible(ctx, cmd, claim)
	if err != nil {
		return OptimizeRoutesResult{}, err
	}
	if len(claimed) == 0 {
		return OptimizeRoutesResult{}, nil
	}

	// Orders that end up routed have their claim cleared by the per-route
	// transaction; this sweep returns everything else to the eligible pool,
	// including on timeout.
	defer h.releaseClaim(context.WithoutCancel(ctx), cmd.TenantID(), claim)

	committed, err := h.committedStops(ctx, cmd)
	if err != nil {
		return OptimizeRoutesResult{}, err
	}

	clusters, skipped := services.ClusterOrders(points, claimed)
	result := OptimizeRoutesResult{Skipped: skipped}

	for _, cluster := range clusters {
		createdIDs, unassignedIDs, clusterErr := h.planCluster(ctx, cmd, cluster, couriers, committed)
		if clusterErr != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			h.logger.Warn("cluster planning failed",
				"point_id", cluster.Point.ID().String(),
				"orders", len(cluster.Orders),
				"error", clusterErr)
			result.FailedClusters = append(result.FailedClusters, FailedCluster{
				PointID: cluster.Point.ID(),
				Reason:  clusterErr.Error(),
			})
			continue
		}

		result.CreatedRouteIDs = append(result.CreatedRouteIDs, createdIDs...)
		result.UnassignedOrderIDs = append(result.UnassignedOrderIDs, unassignedIDs...)
	}

	return result, nil
}

// claimEligible stamps the claim token on the date's plannable orders and
// loads the planning inputs in the same transaction. A concurrency conflict
// with a parallel run is retried once.
func (h *OptimizeRoutesCommandHandler) claimEligible(
	ctx context.Context,
	cmd OptimizeRoutesCommand,
	claim string,
) ([]*order.Order, []*point.Point, []*courier.Courier, error) {
	for attempt := 0; ; attempt++ {
		claimed, points, couriers, err := h.claimOnce(ctx, cmd, claim)
		if err == nil {
			return claimed, points, couriers, nil
		}
		if attempt == 0 && errors.Is(err, errs.ErrConcurrencyConflict) {
			h.logger.Info("claim conflict with a concurrent run, retrying once",
				"tenant_id", cmd.TenantID().String(), "date", cmd.Date())
			continue
		}
		return nil, nil, nil, err
	}
}

func (h *OptimizeRoutesCommandHandler) claimOnce(
	ctx context.Context,
	cmd OptimizeRoutesCommand,
	claim string,
) ([]*order.Order, []*point.Point, []*courier.Courier, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claimed, err := uow.OrderRepository().ClaimPlannable(ctx, cmd.TenantID(), cmd.Date(), claim)
	if err != nil {
		return nil, nil, nil, err
	}

	points, err := uow.PointRepository().GetAll(ctx, cmd.TenantID())
	if err != nil {
		return nil, nil, nil, err
	}

	couriers, err := uow.CourierRepository().GetAllOnShift(ctx, cmd.TenantID())
	if err != nil {
		return nil, nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, nil, err
	}

	return claimed, points, couriers, nil
}

// planCluster prices one cluster, solves it, and persists the resulting
// routes. Any error before persistence fails the whole cluster; no partial
// route output is produced from a failed solve.
func (h *OptimizeRoutesCommandHandler) planCluster(
	ctx context.Context,
	cmd OptimizeRoutesCommand,
	cluster services.Cluster,
	couriers []*courier.Courier,
	committed map[kernel.UUID]int,
) ([]kernel.UUID, []kernel.UUID, error) {
	solverCouriers := availableCouriers(couriers, committed)

	matrices, err := h.fetchMatrices(ctx, cluster, solverCouriers)
	if err != nil {
		return nil, nil, err
	}

	solved, err := h.solver.Solve(cluster.Orders, solverCouriers, matrices, h.profiles)
	if err != nil {
		return nil, nil, err
	}

	var createdIDs []kernel.UUID
	for _, planned := range solved.Routes {
		routeID, persistErr := h.persistRoute(ctx, cmd, planned)
		if persistErr != nil {
			if ctx.Err() != nil {
				return createdIDs, nil, persistErr
			}
			// The failed route's orders stay planned and return to the pool
			// with the claim release; other routes of the cluster stand.
			h.logger.Error("route persistence failed",
				"courier_id", planned.Courier.ID().String(),
				"error", persistErr)
			continue
		}

		createdIDs = append(createdIDs, routeID)
		committed[planned.Courier.ID()] += len(planned.Orders)
		h.notify(ctx, routeID, cmd.Date(), planned)
	}

	unassignedIDs := make([]kernel.UUID, 0, len(solved.Unassigned))
	for _, o := range solved.Unassigned {
		unassignedIDs = append(unassignedIDs, o.ID())
	}

	return createdIDs, unassignedIDs, nil
}

// committedStops counts, per courier, the stops already bound to an active
// route for the date. The run increments the counts as it persists routes, so
// a courier planned in one cluster enters the next with what is left.
func (h *OptimizeRoutesCommandHandler) committedStops(
	ctx context.Context,
	cmd OptimizeRoutesCommand,
) (map[kernel.UUID]int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	active, err := uow.RouteRepository().GetAllActive(ctx, cmd.TenantID(), cmd.Date())
	if err != nil {
		return nil, err
	}

	committed := make(map[kernel.UUID]int, len(active))
	for _, r := range active {
		committed[r.CourierID()] += len(r.Stops())
	}

	return committed, nil
}

// availableCouriers subtracts each courier's committed stop count from their
// vehicle capacity.
func availableCouriers(couriers []*courier.Courier, committed map[kernel.UUID]int) []services.SolverCourier {
	out := make([]services.SolverCourier, 0, len(couriers))
	for _, c := range couriers {
		out = append(out, services.SolverCourier{
			Courier:  c,
			Capacity: c.Capacity() - committed[c.ID()],
		})
	}
	return out
}

// fetchMatrices prices the cluster once per distinct routing profile,
// concurrently. One failed fetch cancels the rest and fails the cluster.
func (h *OptimizeRoutesCommandHandler) fetchMatrices(
	ctx context.Context,
	cluster services.Cluster,
	couriers []services.SolverCourier,
) (map[string]services.CostMatrix, error) {
	destinations := make([]kernel.GeoPoint, len(cluster.Orders))
	for i, o := range cluster.Orders {
		destinations[i] = *o.Destination()
	}

	profiles := make(map[string]struct{})
	for _, sc := range couriers {
		if sc.Capacity > 0 {
			profiles[sc.Courier.Profile(h.profiles)] = struct{}{}
		}
	}

	var mu sync.Mutex
	matrices := make(map[string]services.CostMatrix, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	for profile := range profiles {
		g.Go(func() error {
			m, err := h.provider.Matrix(gctx, profile, cluster.Point.Location(), destinations)
			if err != nil {
				return err
			}

			mu.Lock()
			matrices[profile] = m
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return matrices, nil
}

// persistRoute writes one planned route and its member order links in a
// single transaction.
func (h *OptimizeRoutesCommandHandler) persistRoute(
	ctx context.Context,
	cmd OptimizeRoutesCommand,
	planned services.PlannedRoute,
) (kernel.UUID, error) {
	routeID := kernel.NewUUID()

	stops := make([]kernel.UUID, 0, len(planned.Orders))
	legGeometries := make([]string, 0, len(planned.Legs))
	for _, o := range planned.Orders {
		stops = append(stops, o.ID())
	}
	for _, leg := range planned.Legs {
		legGeometries = append(legGeometries, leg.Geometry)
	}

	aggregate, err := route.NewRoute(
		routeID, cmd.TenantID(), planned.Courier.ID(), cmd.Date(), stops,
		polyline.Join(legGeometries),
		route.CostSummary{
			DistanceMeters: planned.DistanceMeters,
			Duration:       planned.Duration,
		},
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RouteRepository().Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	orderRepo := uow.OrderRepository()
	for position, o := range planned.Orders {
		if err = o.AssignToRoute(planned.Courier.ID(), routeID, position); err != nil {
			return kernel.UUID{}, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return kernel.UUID{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return routeID, nil
}

// notify pushes the planned route to the courier's channel. Best effort: the
// route is already committed, a push failure is only logged.
func (h *OptimizeRoutesCommandHandler) notify(ctx context.Context, routeID kernel.UUID, date string, planned services.PlannedRoute) {
	if !planned.Courier.IsBound() {
		return
	}

	notice := ports.RouteNotice{
		RouteID:        routeID,
		Date:           date,
		DistanceMeters: planned.DistanceMeters,
		Duration:       planned.Duration,
	}
	for position, o := range planned.Orders {
		notice.Stops = append(notice.Stops, ports.StopNotice{
			Position:  position,
			OrderID:   o.ID(),
			Name:      o.Name(),
			Address:   o.Address(),
			Window:    o.Window().String(),
			Recipient: o.RecipientContact(),
			Actions:   stopActions(o),
		})
	}

	if err := h.notifier.RoutePlanned(ctx, planned.Courier.ChannelID(), notice); err != nil {
		h.logger.Warn("route notification failed",
			"route_id", routeID.String(),
			"channel_id", planned.Courier.ChannelID(),
			"error", err)
	}
}

// stopActions lists the action buttons the channel renders for a stop. Every
// routed stop gets deliver, fail and navigate; call only when the recipient
// left a phone number.
func stopActions(o *order.Order) []string {
	actions := []string{"deliver", "fail", "navigate"}
	if o.RecipientContact().Phone != "" {
		actions = append(actions, "call")
	}
	return actions
}

func (h *OptimizeRoutesCommandHandler) releaseClaim(ctx context.Context, tenantID kernel.UUID, claim string) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.Error("claim release failed", "claim", claim, "error", err)
		return
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().ReleaseClaim(ctx, tenantID, claim); err != nil {
		h.logger.Error("claim release failed", "claim", claim, "error", err)
		return
	}
	if err := uow.Commit(ctx); err != nil {
		h.logger.Error("claim release failed", "claim", claim, "error", err)
	}
}
