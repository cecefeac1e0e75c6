package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterCustomerRequest is the HTTP request body for customer registration.
type RegisterCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// CustomerResponse is the HTTP response for customer data.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Register handles POST /v1/customers/register
func (h *CustomerHandler) Register(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	customer, err := h.customerService.Register(c.Request.Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CustomerResponse{
		ID:    customer.ID,
		Name:  customer.Name,
		Phone: customer.Phone,
		Email: customer.Email,
	})
}

// Get handles GET /v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CustomerResponse{
		ID:    customer.ID,
		Name:  customer.Name,
		Phone: customer.Phone,
		Email: customer.Email,
	})
}
