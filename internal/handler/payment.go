package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

const signatureHeader = "x-paystack-signature"

// PaymentHandler handles payment-provider callbacks.
type PaymentHandler struct {
	gatewayService *service.GatewayService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(gatewayService *service.GatewayService) *PaymentHandler {
	return &PaymentHandler{gatewayService: gatewayService}
}

// Webhook handles POST /v1/payments/webhook. The signature covers the raw
// body, so the body must be read before any JSON binding touches it.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
		return
	}

	signature := c.GetHeader(signatureHeader)
	if err := h.gatewayService.HandleCallback(c.Request.Context(), signature, body); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
