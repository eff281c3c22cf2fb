// Package http exposes the fulfillment engine over a REST API. Handlers
// translate JSON requests into commands and queries and map the error
// taxonomy onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler   commands.CreateOrderCommandHandler
	changeStatusHandler  commands.ChangeOrderStatusCommandHandler
	assignCourierHandler commands.AssignCourierCommandHandler
	cancelOrderHandler   commands.CancelOrderCommandHandler
	rateOrderHandler     commands.RateOrderCommandHandler

	getOrderHandler            queries.GetOrderQueryHandler
	getEligibleCouriersHandler queries.GetEligibleCouriersQueryHandler

	defaultSearchRadiusKm float64
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignCourierHandler commands.AssignCourierCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	rateOrderHandler commands.RateOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getEligibleCouriersHandler queries.GetEligibleCouriersQueryHandler,
	defaultSearchRadiusKm float64,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		changeStatusHandler:        changeStatusHandler,
		assignCourierHandler:       assignCourierHandler,
		cancelOrderHandler:         cancelOrderHandler,
		rateOrderHandler:           rateOrderHandler,
		getOrderHandler:            getOrderHandler,
		getEligibleCouriersHandler: getEligibleCouriersHandler,
		defaultSearchRadiusKm:      defaultSearchRadiusKm,
	}
}

// RegisterRoutes attaches all API routes to the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/assign", s.AssignCourier)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/rating", s.RateOrder)
	api.GET("/couriers/eligible", s.GetEligibleCouriers)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// Error is the JSON error envelope returned on failures.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// mapError converts a use case error into the matching HTTP response.
func mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return errorJSON(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, err.Error())
	}
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID    string             `json:"customer_id"`
	VendorID      string             `json:"vendor_id"`
	Lines         []orderLineRequest `json:"lines"`
	DropoffLat    float64            `json:"dropoff_lat"`
	DropoffLon    float64            `json:"dropoff_lon"`
	Address       string             `json:"address"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	Discount      int64              `json:"discount"`
}

type createOrderResponse struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	Status      string `json:"status"`
	Subtotal    int64  `json:"subtotal"`
	DeliveryFee int64  `json:"delivery_fee"`
	ServiceFee  int64  `json:"service_fee"`
	Discount    int64  `json:"discount"`
	Total       int64  `json:"total"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid customer_id: "+err.Error())
	}
	vendorID, err := kernel.UUIDFromString(req.VendorID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid vendor_id: "+err.Error())
	}
	dropoff, err := kernel.NewGeoPoint(req.DropoffLat, req.DropoffLon)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid dropoff: "+err.Error())
	}

	lines := make([]commands.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, lineErr := kernel.UUIDFromString(line.ProductID)
		if lineErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "invalid product_id: "+lineErr.Error())
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: line.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		customerID,
		vendorID,
		lines,
		dropoff,
		req.Address,
		req.PaymentMethod,
		req.Notes,
		kernel.Money(req.Discount),
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{
		ID:          created.ID().String(),
		Number:      created.Number(),
		Status:      created.Status().String(),
		Subtotal:    created.Subtotal().Int64(),
		DeliveryFee: created.DeliveryFee().Int64(),
		ServiceFee:  created.ServiceFee().Int64(),
		Discount:    created.Discount().Int64(),
		Total:       created.Total().Int64(),
	})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderView(view))
}

type changeStatusRequest struct {
	ActorID string `json:"actor_id"`
	Status  string `json:"status"`
	Note    string `json:"note"`
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id: "+err.Error())
	}

	var req changeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid actor_id: "+err.Error())
	}
	status, err := order.StatusFromString(req.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid status: "+err.Error())
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorID, status, req.Note)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type assignCourierRequest struct {
	CourierID string `json:"courier_id"`
}

// AssignCourier handles POST /api/v1/orders/:id/assign.
func (s *Server) AssignCourier(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id: "+err.Error())
	}

	var req assignCourierRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid courier_id: "+err.Error())
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.assignCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelOrderRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id: "+err.Error())
	}

	var req cancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid actor_id: "+err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actorID, req.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type rateOrderRequest struct {
	RaterID string `json:"rater_id"`
	Target  string `json:"target"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// RateOrder handles POST /api/v1/orders/:id/rating.
func (s *Server) RateOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id: "+err.Error())
	}

	var req rateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	raterID, err := kernel.UUIDFromString(req.RaterID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid rater_id: "+err.Error())
	}

	cmd, err := commands.NewRateOrderCommand(orderID, raterID, order.RatingTarget(req.Target), req.Score, req.Comment)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.rateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type eligibleCourierResponse struct {
	CourierID           string  `json:"courier_id"`
	Name                string  `json:"name"`
	Rating              float64 `json:"rating"`
	CompletedDeliveries int     `json:"completed_deliveries"`
	DistanceKm          float64 `json:"distance_km"`
	EtaMinutes          float64 `json:"eta_minutes"`
}

// GetEligibleCouriers handles GET /api/v1/couriers/eligible.
// Expects lat and lon query parameters; radius_km is optional.
func (s *Server) GetEligibleCouriers(ctx echo.Context) error {
	var params struct {
		Lat      float64 `query:"lat"`
		Lon      float64 `query:"lon"`
		RadiusKm float64 `query:"radius_km"`
	}
	if err := ctx.Bind(&params); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid query parameters")
	}

	pickup, err := kernel.NewGeoPoint(params.Lat, params.Lon)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid pickup point: "+err.Error())
	}

	radius := params.RadiusKm
	if radius == 0 {
		radius = s.defaultSearchRadiusKm
	}

	query, err := queries.NewGetEligibleCouriersQuery(pickup, radius)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	matches, err := s.getEligibleCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]eligibleCourierResponse, 0, len(matches))
	for _, match := range matches {
		response = append(response, eligibleCourierResponse{
			CourierID:           match.CourierID.String(),
			Name:                match.Name,
			Rating:              match.Rating,
			CompletedDeliveries: match.CompletedDeliveries,
			DistanceKm:          match.DistanceKm,
			EtaMinutes:          match.EtaMinutes,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
