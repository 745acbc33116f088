// Package http exposes the dispatch service over echo: the admin surface for
// registering points, couriers and orders, triggering planning runs and
// reading routes, plus the single webhook endpoint that courier channel
// events arrive on.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the use case handlers the server dispatches to.
type Handlers struct {
	CreatePoint      commands.CreatePointCommandHandler
	CreateCourier    commands.CreateCourierCommandHandler
	CreateOrder      commands.CreateOrderCommandHandler
	GenerateAuthCode commands.GenerateAuthCodeCommandHandler
	OptimizeRoutes   *commands.OptimizeRoutesCommandHandler
	ReorderRoute     commands.ReorderRouteCommandHandler

	ExchangeAuthCode commands.ExchangeAuthCodeCommandHandler
	ToggleShift      commands.ToggleShiftCommandHandler
	UpdateLocation   commands.UpdateLocationCommandHandler
	MarkArrived      commands.MarkArrivedCommandHandler
	MarkDelivered    commands.MarkDeliveredCommandHandler
	MarkFailed       commands.MarkFailedCommandHandler

	GetActiveRoutes     queries.GetActiveRoutesQueryHandler
	GetUnassignedOrders queries.GetUnassignedOrdersQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
}

// NewServer creates the HTTP server over the given use case handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	tenant := api.Group("/tenants/:tenantId")
	tenant.POST("/points", s.createPoint)
	tenant.POST("/couriers", s.createCourier)
	tenant.POST("/couriers/:courierId/auth-code", s.generateAuthCode)
	tenant.POST("/orders", s.createOrder)
	tenant.POST("/optimize", s.optimizeRoutes)
	tenant.POST("/routes/:routeId/reorder", s.reorderRoute)
	tenant.GET("/routes", s.getActiveRoutes)
	tenant.GET("/orders/unassigned", s.getUnassignedOrders)

	api.POST("/channel/events", s.channelEvent)
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, apiError{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// writeError maps domain failures onto HTTP statuses. Auth code rejections
// stay indistinct on purpose.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrencyConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrProviderUnavailable):
		code = http.StatusBadGateway
	case errors.Is(err, courier.ErrAuthCodeRejected):
		code = http.StatusUnauthorized
	case errors.Is(err, courier.ErrChannelNotBound),
		errors.Is(err, courier.ErrChannelMismatch),
		errors.Is(err, errs.ErrTenantAccessForbidden):
		code = http.StatusForbidden
	}

	return ctx.JSON(code, apiError{Code: code, Message: err.Error()})
}

func tenantID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("tenantId"))
}

type createPointRequest struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Primary bool     `json:"primary"`
}

func (s *Server) createPoint(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req createPointRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	var location *kernel.GeoPoint
	if req.Lat != nil && req.Lon != nil {
		point, locErr := kernel.NewGeoPoint(*req.Lat, *req.Lon)
		if locErr != nil {
			return badRequest(ctx, locErr)
		}
		location = &point
	}

	pointID := kernel.NewUUID()
	cmd, err := commands.NewCreatePointCommand(pointID, tenant, req.Name, req.Address, location, req.Primary)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CreatePoint.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": pointID.String()})
}

type createCourierRequest struct {
	Name     string  `json:"name"`
	Vehicle  string  `json:"vehicle"`
	Capacity int     `json:"capacity"`
	HomeLat  float64 `json:"homeLat"`
	HomeLon  float64 `json:"homeLon"`
}

func (s *Server) createCourier(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req createCourierRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	vehicle, err := courier.VehicleClassFromString(req.Vehicle)
	if err != nil {
		return badRequest(ctx, err)
	}

	home, err := kernel.NewGeoPoint(req.HomeLat, req.HomeLon)
	if err != nil {
		return badRequest(ctx, err)
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, tenant, req.Name, vehicle, req.Capacity, home)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CreateCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": courierID.String()})
}

func (s *Server) generateAuthCode(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	courierID, err := kernel.UUIDFromString(ctx.Param("courierId"))
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewGenerateAuthCodeCommand(tenant, courierID)
	if err != nil {
		return badRequest(ctx, err)
	}

	code, err := s.handlers.GenerateAuthCode.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"code": code})
}

type createOrderRequest struct {
	Name           string `json:"name"`
	PointID        string `json:"pointId"`
	Address        string `json:"address"`
	VisitDate      string `json:"visitDate"`
	Window         string `json:"window"`
	ServiceMinutes int    `json:"serviceMinutes"`
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
}

func (s *Server) createOrder(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req createOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	pointID, err := kernel.UUIDFromString(req.PointID)
	if err != nil {
		return badRequest(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, tenant, req.Name, pointID, req.Address, req.VisitDate, req.Window,
		time.Duration(req.ServiceMinutes)*time.Minute,
		order.Recipient{Name: req.RecipientName, Phone: req.RecipientPhone},
	)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

type optimizeRequest struct {
	Date       string `json:"date"`
	TimeoutSec int    `json:"timeoutSec"`
}

type optimizeResponse struct {
	CreatedRouteIDs    []string                `json:"createdRouteIds"`
	UnassignedOrderIDs []string                `json:"unassignedOrderIds"`
	SkippedOrderIDs    []string                `json:"skippedOrderIds"`
	FailedClusters     []failedClusterResponse `json:"failedClusters"`
}

type failedClusterResponse struct {
	PointID string `json:"pointId"`
	Reason  string `json:"reason"`
}

func (s *Server) optimizeRoutes(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req optimizeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewOptimizeRoutesCommand(tenant, req.Date, time.Duration(req.TimeoutSec)*time.Second)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.handlers.OptimizeRoutes.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := optimizeResponse{
		CreatedRouteIDs:    make([]string, 0, len(result.CreatedRouteIDs)),
		UnassignedOrderIDs: make([]string, 0, len(result.UnassignedOrderIDs)),
		SkippedOrderIDs:    make([]string, 0, len(result.Skipped)),
		FailedClusters:     make([]failedClusterResponse, 0, len(result.FailedClusters)),
	}
	for _, id := range result.CreatedRouteIDs {
		resp.CreatedRouteIDs = append(resp.CreatedRouteIDs, id.String())
	}
	for _, id := range result.UnassignedOrderIDs {
		resp.UnassignedOrderIDs = append(resp.UnassignedOrderIDs, id.String())
	}
	for _, skipped := range result.Skipped {
		resp.SkippedOrderIDs = append(resp.SkippedOrderIDs, skipped.OrderID.String())
	}
	for _, failed := range result.FailedClusters {
		resp.FailedClusters = append(resp.FailedClusters, failedClusterResponse{
			PointID: failed.PointID.String(),
			Reason:  failed.Reason,
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

type reorderRequest struct {
	Sequence []string `json:"sequence"`
}

func (s *Server) reorderRoute(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, err)
	}

	var req reorderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	sequence := make([]kernel.UUID, 0, len(req.Sequence))
	for _, raw := range req.Sequence {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, idErr)
		}
		sequence = append(sequence, id)
	}

	cmd, err := commands.NewReorderRouteCommand(tenant, routeID, sequence)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.ReorderRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type routeStopResponse struct {
	OrderID  string `json:"orderId"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Window   string `json:"window,omitempty"`
}

type routeResponse struct {
	ID             string              `json:"id"`
	CourierID      string              `json:"courierId"`
	CourierName    string              `json:"courierName"`
	Date           string              `json:"date"`
	DistanceMeters float64             `json:"distanceMeters"`
	DurationSec    int64               `json:"durationSec"`
	Geometry       string              `json:"geometry"`
	Stops          []routeStopResponse `json:"stops"`
}

func (s *Server) getActiveRoutes(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetActiveRoutesQuery(tenant, ctx.QueryParam("date"))
	if err != nil {
		return badRequest(ctx, err)
	}

	routes, err := s.handlers.GetActiveRoutes.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		item := routeResponse{
			ID:             r.ID.String(),
			CourierID:      r.CourierID.String(),
			CourierName:    r.CourierName,
			Date:           r.Date,
			DistanceMeters: r.DistanceMeters,
			DurationSec:    int64(r.Duration / time.Second),
			Geometry:       r.Geometry,
			Stops:          make([]routeStopResponse, 0, len(r.Stops)),
		}
		for _, stop := range r.Stops {
			item.Stops = append(item.Stops, routeStopResponse{
				OrderID:  stop.OrderID.String(),
				Position: stop.Position,
				Name:     stop.Name,
				Status:   stop.Status,
				Window:   stop.Window,
			})
		}
		resp = append(resp, item)
	}

	return ctx.JSON(http.StatusOK, resp)
}

type unassignedOrderResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	PointID string   `json:"pointId"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Window  string   `json:"window,omitempty"`
}

func (s *Server) getUnassignedOrders(ctx echo.Context) error {
	tenant, err := tenantID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetUnassignedOrdersQuery(tenant, ctx.QueryParam("date"))
	if err != nil {
		return badRequest(ctx, err)
	}

	orders, err := s.handlers.GetUnassignedOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := make([]unassignedOrderResponse, 0, len(orders))
	for _, o := range orders {
		item := unassignedOrderResponse{
			ID:      o.ID.String(),
			Name:    o.Name,
			PointID: o.PointID.String(),
			Address: o.Address,
			Window:  o.Window,
		}
		if o.Location != nil {
			lat := o.Location.Latitude()
			lon := o.Location.Longitude()
			item.Lat = &lat
			item.Lon = &lon
		}
		resp = append(resp, item)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// channelEvent is the single webhook endpoint courier channel events arrive
// on. The event type selects the command; everything is keyed by the channel
// identity, never by courier id.
type channelEventRequest struct {
	ChannelID  string   `json:"channelId"`
	Type       string   `json:"type"`
	Code       string   `json:"code"`
	OnShift    bool     `json:"onShift"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	ReportedAt string   `json:"reportedAt"`
	OrderID    string   `json:"orderId"`
	ProofRef   string   `json:"proofRef"`
	Reason     string   `json:"reason"`
}

func (s *Server) channelEvent(ctx echo.Context) error {
	var req channelEventRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}

	switch req.Type {
	case "exchange_code":
		return s.exchangeCode(ctx, req)
	case "shift":
		return s.toggleShift(ctx, req)
	case "location":
		return s.updateLocation(ctx, req)
	case "arrived":
		return s.orderAction(ctx, req, s.markArrived)
	case "delivered":
		return s.orderAction(ctx, req, s.markDelivered)
	case "failed":
		return s.orderAction(ctx, req, s.markFailed)
	default:
		return badRequest(ctx, errors.New("unknown event type: "+req.Type))
	}
}

func (s *Server) exchangeCode(ctx echo.Context, req channelEventRequest) error {
	cmd, err := commands.NewExchangeAuthCodeCommand(req.Code, req.ChannelID)
	if err != nil {
		return badRequest(ctx, err)
	}

	bound, err := s.handlers.ExchangeAuthCode.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"courierId": bound.ID().String(),
		"name":      bound.Name(),
	})
}

func (s *Server) toggleShift(ctx echo.Context, req channelEventRequest) error {
	cmd, err := commands.NewToggleShiftCommand(req.ChannelID, req.OnShift)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.ToggleShift.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) updateLocation(ctx echo.Context, req channelEventRequest) error {
	if req.Lat == nil || req.Lon == nil {
		return badRequest(ctx, errors.New("lat and lon are required for location events"))
	}

	location, err := kernel.NewGeoPoint(*req.Lat, *req.Lon)
	if err != nil {
		return badRequest(ctx, err)
	}

	reportedAt := time.Now()
	if req.ReportedAt != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.ReportedAt)
		if parseErr != nil {
			return badRequest(ctx, parseErr)
		}
		reportedAt = parsed
	}

	cmd, err := commands.NewUpdateLocationCommand(req.ChannelID, location, reportedAt)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.UpdateLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) orderAction(
	ctx echo.Context,
	req channelEventRequest,
	action func(echo.Context, channelEventRequest, kernel.UUID) error,
) error {
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	return action(ctx, req, orderID)
}

func (s *Server) markArrived(ctx echo.Context, req channelEventRequest, orderID kernel.UUID) error {
	cmd, err := commands.NewMarkArrivedCommand(req.ChannelID, orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.MarkArrived.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) markDelivered(ctx echo.Context, req channelEventRequest, orderID kernel.UUID) error {
	cmd, err := commands.NewMarkDeliveredCommand(req.ChannelID, orderID, req.ProofRef)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.MarkDelivered.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) markFailed(ctx echo.Context, req channelEventRequest, orderID kernel.UUID) error {
	cmd, err := commands.NewMarkFailedCommand(req.ChannelID, orderID, req.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.MarkFailed.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
