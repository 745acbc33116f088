package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/polyline"
)

// ReorderRouteCommandHandler applies a dispatcher's manual stop resequencing.
// Allowed only while every member order is still planned: once a courier has
// started working the route, the sequence is theirs.
//
// Path geometry and cost are recomputed through the travel cost provider on a
// best effort basis. If the provider is down the reorder still succeeds and
// the persisted geometry goes stale until the next recompute.
type ReorderRouteCommandHandler struct {
	uowFactory UoWFactory
	provider   ports.TravelCostProvider
	profiles   courier.ProfileMap
	logger     *slog.Logger
}

// NewReorderRouteCommandHandler creates a handler for manual reorders.
func NewReorderRouteCommandHandler(
	uowFactory UoWFactory,
	provider ports.TravelCostProvider,
	profiles courier.ProfileMap,
	logger *slog.Logger,
) ReorderRouteCommandHandler {
	return ReorderRouteCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		profiles:   profiles,
		logger:     logger.With("component", "reorder_route"),
	}
}

// Handle processes a reorder. Applying a sequence identical to the current
// one is an idempotent success.
func (h *ReorderRouteCommandHandler) Handle(ctx context.Context, cmd ReorderRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.RouteRepository().Get(ctx, cmd.TenantID(), cmd.RouteID())
	if err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	members, err := orderRepo.GetAllByRoute(ctx, cmd.TenantID(), r.ID())
	if err != nil {
		return err
	}

	for _, m := range members {
		if m.Status() != order.Planned {
			return errs.NewInvalidTransitionError("route", "reorder", m.Status().String())
		}
	}

	if err = r.Reorder(cmd.Sequence()); err != nil {
		return err
	}

	byID := make(map[kernel.UUID]*order.Order, len(members))
	for _, m := range members {
		byID[m.ID()] = m
	}
	for position, id := range r.Stops() {
		m := byID[id]
		if err = m.MoveToPosition(r.ID(), position); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, m); err != nil {
			return err
		}
	}

	h.recomputePath(ctx, uow, r, byID)

	if err = uow.RouteRepository().Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// recomputePath refreshes the route's geometry and totals for the new
// sequence. Failures are logged and swallowed.
func (h *ReorderRouteCommandHandler) recomputePath(
	ctx context.Context,
	uow UoW,
	r *route.Route,
	members map[kernel.UUID]*order.Order,
) {
	stops := r.Stops()
	first := members[stops[0]]

	depot, err := uow.PointRepository().Get(ctx, r.TenantID(), first.PointID())
	if err != nil {
		h.logger.Warn("path recompute skipped", "route_id", r.ID().String(), "error", err)
		return
	}

	c, err := uow.CourierRepository().Get(ctx, r.TenantID(), r.CourierID())
	if err != nil {
		h.logger.Warn("path recompute skipped", "route_id", r.ID().String(), "error", err)
		return
	}

	destinations := make([]kernel.GeoPoint, 0, len(stops))
	for _, id := range stops {
		m := members[id]
		if !m.HasCoordinates() {
			h.logger.Warn("path recompute skipped", "route_id", r.ID().String(),
				"order_id", m.ID().String(), "error", "order has no coordinates")
			return
		}
		destinations = append(destinations, *m.Destination())
	}

	matrix, err := h.provider.Matrix(ctx, c.Profile(h.profiles), depot.Location(), destinations)
	if err != nil {
		h.logger.Warn("path recompute skipped", "route_id", r.ID().String(), "error", err)
		return
	}

	var distance float64
	var duration time.Duration
	geometries := make([]string, 0, len(stops)+1)

	prev := 0
	for i := range stops {
		distance += matrix.Distances[prev][i+1]
		duration += matrix.Durations[prev][i+1]
		geometries = append(geometries, matrix.Geometry(prev, i+1))
		prev = i + 1
	}
	distance += matrix.Distances[prev][0]
	duration += matrix.Durations[prev][0]
	geometries = append(geometries, matrix.Geometry(prev, 0))

	r.UpdatePath(polyline.Join(geometries), route.CostSummary{
		DistanceMeters: distance,
		Duration:       duration,
	})
}
