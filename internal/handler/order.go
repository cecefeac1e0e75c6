package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService    *service.OrderService
	dispatchService *service.DispatchService
	receiptService  *service.ReceiptService
	activityService *service.ActivityService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(
	orderService *service.OrderService,
	dispatchService *service.DispatchService,
	receiptService *service.ReceiptService,
	activityService *service.ActivityService,
) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		dispatchService: dispatchService,
		receiptService:  receiptService,
		activityService: activityService,
	}
}

// LocationPayload is a point in HTTP requests and responses.
type LocationPayload struct {
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// PlaceOrderRequest is the HTTP request body for placing an order.
type PlaceOrderRequest struct {
	VehicleClass  string            `json:"vehicle_class"`
	PaymentMethod string            `json:"payment_method,omitempty"` // CASH, WALLET
	PaymentBy     string            `json:"payment_by,omitempty"`     // SENDER, RECIPIENT
	Pickup        LocationPayload   `json:"pickup"`
	Delivery      LocationPayload   `json:"delivery"`
	Stopovers     []LocationPayload `json:"stopovers,omitempty"`
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	CustomerID    string            `json:"customer_id"`
	RiderID       string            `json:"rider_id,omitempty"`
	VehicleClass  string            `json:"vehicle_class"`
	Status        string            `json:"status"`
	PaymentMethod string            `json:"payment_method"`
	PaymentBy     string            `json:"payment_by"`
	Paid          bool              `json:"paid"`
	Amount        string            `json:"amount"`
	PlatformFee   string            `json:"platform_fee"`
	Tip           string            `json:"tip,omitempty"`
	Currency      string            `json:"currency"`
	DistanceKm    float64           `json:"distance_km"`
	DurationMins  int               `json:"duration_mins"`
	Pickup        LocationPayload   `json:"pickup"`
	Delivery      LocationPayload   `json:"delivery"`
	Stopovers     []LocationPayload `json:"stopovers,omitempty"`
	CancelReason  string            `json:"cancel_reason,omitempty"`
	CancelledAt   string            `json:"cancelled_at,omitempty"`
	CreatedAt     string            `json:"created_at"`
}

func toLocationPayload(l domain.Location) LocationPayload {
	return LocationPayload{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func toOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		Code:          o.Code,
		CustomerID:    o.CustomerID,
		RiderID:       o.RiderID,
		VehicleClass:  string(o.VehicleClass),
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentBy:     string(o.PaymentBy),
		Paid:          o.Paid,
		Amount:        o.Amount.StringFixed(2),
		PlatformFee:   o.PlatformFee.StringFixed(2),
		Currency:      o.Currency,
		DistanceKm:    o.DistanceKm,
		DurationMins:  int(o.Duration.Minutes()),
		Pickup:        toLocationPayload(o.Pickup),
		Delivery:      toLocationPayload(o.Delivery),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if !o.Tip.IsZero() {
		resp.Tip = o.Tip.StringFixed(2)
	}
	for _, s := range o.Stopovers {
		resp.Stopovers = append(resp.Stopovers, toLocationPayload(s))
	}
	if !o.CancelledAt.IsZero() {
		resp.CancelledAt = o.CancelledAt.Format(time.RFC3339)
		resp.CancelReason = o.CancelReason
	}
	return resp
}

// PlaceOrder handles POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	actorID, role, ok := requireActor(c)
	if !ok {
		return
	}
	if role != domain.RoleCustomer {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only customers can place orders"})
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	svcReq := service.PlaceOrderRequest{
		CustomerID:    actorID,
		VehicleClass:  domain.VehicleClass(req.VehicleClass),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		PaymentBy:     domain.PaymentBy(req.PaymentBy),
		Pickup:        service.LocationInput(req.Pickup),
		Delivery:      service.LocationInput(req.Delivery),
	}
	for _, s := range req.Stopovers {
		svcReq.Stopovers = append(svcReq.Stopovers, service.LocationInput(s))
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), svcReq)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toOrderResponse(order))
}

// GetOrder handles GET /v1/orders/:code
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// ListOrders handles GET /v1/orders for the acting customer.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListByCustomer(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	respondJSON(c, http.StatusOK, response)
}

// TransitionRequest is the HTTP request body for a status change.
type TransitionRequest struct {
	Status   string `json:"status"`
	ProofURL string `json:"proof_url,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// UpdateStatus handles POST /v1/orders/:code/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actorID, role, ok := requireActor(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.orderService.Transition(c.Request.Context(), service.TransitionRequest{
		OrderID:  order.ID,
		Target:   domain.OrderStatus(req.Status),
		ActorID:  actorID,
		Role:     role,
		ProofURL: req.ProofURL,
		Reason:   req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(updated))
}

// CancelOrderRequest is the HTTP request body for cancelling an order.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /v1/orders/:code/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	actorID, role, ok := requireActor(c)
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	cancelled, err := h.orderService.Cancel(c.Request.Context(), service.CancelRequest{
		OrderID: order.ID,
		ActorID: actorID,
		Role:    role,
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(cancelled))
}

// TipRequest is the HTTP request body for adding a tip.
type TipRequest struct {
	Amount string `json:"amount"`
}

// AddTip handles POST /v1/orders/:code/tip
func (h *OrderHandler) AddTip(c *gin.Context) {
	actorID, role, ok := requireActor(c)
	if !ok {
		return
	}
	if role != domain.RoleCustomer {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "only customers can tip"})
		return
	}

	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
		return
	}

	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	tipped, err := h.orderService.AddTip(c.Request.Context(), order.ID, actorID, amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(tipped))
}

// Dispatch handles POST /v1/orders/:code/dispatch
func (h *OrderHandler) Dispatch(c *gin.Context) {
	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	proposed, err := h.dispatchService.Assign(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(proposed))
}

// TimelineEntryResponse is one entry in the status history.
type TimelineEntryResponse struct {
	Status    string `json:"status"`
	ProofURL  string `json:"proof_url,omitempty"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

// GetTimeline handles GET /v1/orders/:code/timeline
func (h *OrderHandler) GetTimeline(c *gin.Context) {
	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.orderService.Timeline(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, TimelineEntryResponse{
			Status:    string(e.Status),
			ProofURL:  e.ProofURL,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// GetReceipt handles GET /v1/orders/:code/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := h.receiptService.Generate(order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, h.receiptService.Format(receipt))
}

// ActivityEntryResponse is one recorded event about an order.
type ActivityEntryResponse struct {
	Category  string            `json:"category"`
	Action    string            `json:"action"`
	Level     string            `json:"level"`
	ActorID   string            `json:"actor_id,omitempty"`
	ActorRole string            `json:"actor_role,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	CreatedAt string            `json:"created_at"`
}

// GetActivity handles GET /v1/orders/:code/activity
func (h *OrderHandler) GetActivity(c *gin.Context) {
	order, err := h.orderService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.activityService.History(c.Request.Context(), order.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, ActivityEntryResponse{
			Category:  e.Category,
			Action:    e.Action,
			Level:     string(e.Level),
			ActorID:   e.ActorID,
			ActorRole: string(e.ActorRole),
			Context:   e.Context,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(c, http.StatusOK, response)
}
