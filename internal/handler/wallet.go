package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

// WalletHandler handles HTTP requests for wallets.
type WalletHandler struct {
	walletService  *service.WalletService
	gatewayService *service.GatewayService
	currency       string
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService, gatewayService *service.GatewayService, currency string) *WalletHandler {
	return &WalletHandler{
		walletService:  walletService,
		gatewayService: gatewayService,
		currency:       currency,
	}
}

// WalletResponse is the HTTP response for wallet data.
type WalletResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

func toWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:       w.ID,
		UserID:   w.UserID,
		Balance:  w.Balance().StringFixed(2),
		Currency: w.Currency,
	}
}

// GetWallet handles GET /v1/wallets/me
func (h *WalletHandler) GetWallet(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.EnsureWallet(c.Request.Context(), actorID, h.currency)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toWalletResponse(wallet))
}

// TransactionResponse is the HTTP response for one ledger entry.
type TransactionResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id,omitempty"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
	CreatedAt string `json:"created_at"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		OrderID:   t.OrderID,
		Type:      string(t.Type),
		Status:    string(t.Status),
		Category:  string(t.Category),
		Amount:    t.Amount.StringFixed(2),
		Currency:  t.Currency,
		Reference: t.Reference,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// ListTransactions handles GET /v1/wallets/me/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetByUserID(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	txns, err := h.walletService.ListTransactions(c.Request.Context(), wallet.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		response = append(response, toTransactionResponse(t))
	}
	respondJSON(c, http.StatusOK, response)
}

// FundWalletRequest is the HTTP request body for a wallet top-up.
type FundWalletRequest struct {
	Email  string `json:"email"`
	Amount string `json:"amount"`
}

// FundWalletResponse returns the checkout URL the client must visit.
type FundWalletResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// FundWallet handles POST /v1/wallets/me/fund
func (h *WalletHandler) FundWallet(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}

	var req FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
		return
	}

	result, err := h.gatewayService.InitiateFunding(c.Request.Context(), actorID, req.Email, h.currency, amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, FundWalletResponse{
		Reference:        result.Transaction.Reference,
		AuthorizationURL: result.AuthorizationURL,
	})
}

// WithdrawRequest is the HTTP request body for a withdrawal.
type WithdrawRequest struct {
	Recipient string `json:"recipient"` // provider transfer-recipient code
	Amount    string `json:"amount"`
}

// Withdraw handles POST /v1/wallets/me/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
		return
	}

	txn, err := h.gatewayService.Withdraw(c.Request.Context(), actorID, req.Recipient, h.currency, amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTransactionResponse(txn))
}
