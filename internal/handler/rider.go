package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// RiderHandler handles HTTP requests for riders.
type RiderHandler struct {
	riderService *service.RiderService
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riderService *service.RiderService) *RiderHandler {
	return &RiderHandler{riderService: riderService}
}

// RegisterRiderRequest is the HTTP request body for rider registration.
type RegisterRiderRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	VehicleClass string `json:"vehicle_class"`
}

// RiderResponse is the HTTP response for rider data.
type RiderResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Status       string `json:"status"`
	Availability string `json:"availability"`
	VehicleClass string `json:"vehicle_class"`
}

func toRiderResponse(r *domain.Rider) RiderResponse {
	return RiderResponse{
		ID:           r.ID,
		Name:         r.Name,
		Phone:        r.Phone,
		Status:       string(r.Status),
		Availability: string(r.Availability),
		VehicleClass: string(r.VehicleClass),
	}
}

// Register handles POST /v1/riders/register
func (h *RiderHandler) Register(c *gin.Context) {
	var req RegisterRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	rider, err := h.riderService.Register(c.Request.Context(), service.RegisterRiderRequest{
		Name:         req.Name,
		Phone:        req.Phone,
		VehicleClass: domain.VehicleClass(req.VehicleClass),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRiderResponse(rider))
}

// GetAll handles GET /v1/riders
func (h *RiderHandler) GetAll(c *gin.Context) {
	riders, err := h.riderService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RiderResponse, 0, len(riders))
	for _, r := range riders {
		response = append(response, toRiderResponse(r))
	}
	respondJSON(c, http.StatusOK, response)
}

// UpdateLocationRequest is the HTTP request body for a location ping.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles POST /v1/riders/:id/location
func (h *RiderHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.riderService.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// AvailabilityRequest is the HTTP request body for an availability change.
type AvailabilityRequest struct {
	Availability string `json:"availability"` // ONLINE, OFFLINE
}

// SetAvailability handles POST /v1/riders/:id/availability
func (h *RiderHandler) SetAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	availability := domain.RiderAvailability(req.Availability)
	if availability != domain.RiderOnline && availability != domain.RiderOffline {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "availability must be ONLINE or OFFLINE"})
		return
	}

	rider, err := h.riderService.SetAvailability(c.Request.Context(), c.Param("id"), availability)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRiderResponse(rider))
}
