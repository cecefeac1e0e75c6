package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUnknownReference):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidOrderCode),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidVehicleClass),
		errors.Is(err, service.ErrProofRequired),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrAmountMismatch):
		return http.StatusBadRequest

	// Webhook signature failure
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusUnauthorized

	// Payment failure
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrNotCandidateRider):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrOrderNoLongerPending),
		errors.Is(err, service.ErrRiderHasActiveOrder),
		errors.Is(err, service.ErrOrderNotTippable),
		errors.Is(err, service.ErrTransactionFinalized),
		errors.Is(err, domain.ErrTransactionNotPending),
		errors.Is(err, domain.ErrTransactionNotSettled),
		errors.Is(err, repository.ErrDuplicateReference):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrNoEligibleRider),
		errors.Is(err, service.ErrGeocodingUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
