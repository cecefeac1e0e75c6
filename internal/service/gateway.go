package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// InitializeRequest contains the parameters for starting a hosted checkout.
type InitializeRequest struct {
	Email     string
	Amount    decimal.Decimal
	Currency  string
	Reference string
}

// InitializeResult is the provider's checkout handle.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the provider's view of a charge.
type VerifyResult struct {
	Reference string
	Status    string
	Amount    decimal.Decimal
	Currency  string
}

// TransferRequest contains the parameters for a payout to a bank account.
type TransferRequest struct {
	Amount    decimal.Decimal
	Currency  string
	Reference string
	Recipient string
	Reason    string
}

// TransferResult is the provider's transfer handle.
type TransferResult struct {
	Reference string
	Status    string
}

// PaymentProvider is the boundary contract to the card-processing
// collaborator. Implementations enforce their own timeouts and surface
// failure rather than hang the caller.
type PaymentProvider interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// FundingResult pairs the pending ledger entry with the checkout URL the
// client must visit to complete payment.
type FundingResult struct {
	Transaction      *domain.Transaction
	AuthorizationURL string
}

// GatewayService bridges the payment provider and the wallet ledger. Wallet
// credits land only through the provider's webhook, never optimistically at
// initiation.
type GatewayService struct {
	provider      PaymentProvider
	webhookSecret string
	tx            repository.TxRunner
	walletRepo    repository.WalletRepository
	txnRepo       repository.TransactionRepository
	ledger        *LedgerService
	notifier      *NotificationService
	activity      *ActivityService
}

// NewGatewayService creates a new GatewayService.
func NewGatewayService(
	provider PaymentProvider,
	webhookSecret string,
	tx repository.TxRunner,
	walletRepo repository.WalletRepository,
	txnRepo repository.TransactionRepository,
	ledger *LedgerService,
	notifier *NotificationService,
	activity *ActivityService,
) *GatewayService {
	return &GatewayService{
		provider:      provider,
		webhookSecret: webhookSecret,
		tx:            tx,
		walletRepo:    walletRepo,
		txnRepo:       txnRepo,
		ledger:        ledger,
		notifier:      notifier,
		activity:      activity,
	}
}

// InitiateFunding opens a hosted checkout for a wallet top-up. The ledger
// entry is created PENDING here and only settles when the provider's webhook
// confirms the charge.
func (s *GatewayService) InitiateFunding(ctx context.Context, userID, email, currency string, amount decimal.Decimal) (*FundingResult, error) {
	if userID == "" {
		return nil, ErrInvalidCustomerID
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.ensureWallet(ctx, userID, currency)
	if err != nil {
		return nil, err
	}

	// An unfinished checkout for the same amount is re-served rather than
	// minting a second charge link.
	existing, err := s.txnRepo.FindPending(ctx, wallet.ID, domain.CategoryFundWallet, amount.StringFixed(2))
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Meta["authorization_url"] != "" {
		return &FundingResult{Transaction: existing, AuthorizationURL: existing.Meta["authorization_url"]}, nil
	}

	now := time.Now()
	txn := &domain.Transaction{
		ID:        uuid.New().String(),
		WalletID:  wallet.ID,
		Type:      domain.TransactionTypeCredit,
		Status:    domain.TransactionStatusPending,
		Category:  domain.CategoryFundWallet,
		Amount:    amount,
		Currency:  currency,
		Reference: "fund-" + uuid.New().String(),
		Provider:  "paystack",
		Meta:      map[string]string{"user_id": userID, "email": email},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	init, err := s.provider.Initialize(ctx, InitializeRequest{
		Email:     email,
		Amount:    amount,
		Currency:  currency,
		Reference: txn.Reference,
	})
	if err != nil {
		// The entry stays PENDING without a checkout URL; a retry skips it
		// and mints a fresh reference while this one expires unfunded.
		return nil, err
	}

	txn.Meta["authorization_url"] = init.AuthorizationURL
	txn.UpdatedAt = time.Now()
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "payment", "funding_initiated", domain.ActivityInfo,
		userID, domain.RoleCustomer, wallet.ID, map[string]string{
			"reference": txn.Reference,
			"amount":    amount.StringFixed(2),
		})

	return &FundingResult{Transaction: txn, AuthorizationURL: init.AuthorizationURL}, nil
}

// webhookEvent is the provider's event envelope.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"` // minor units
		Currency  string `json:"currency"`
	} `json:"data"`
}

// HandleCallback processes a provider webhook. The signature is an
// HMAC-SHA512 hex digest of the raw body; anything that fails verification is
// rejected before parsing. Redelivered events collapse against the ledger's
// reference idempotency.
func (s *GatewayService) HandleCallback(ctx context.Context, signature string, body []byte) error {
	if !s.verifySignature(signature, body) {
		s.activity.Record(ctx, "payment", "webhook_rejected", domain.ActivityWarning,
			"", domain.RoleSystem, "", nil)
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}

	txn, err := s.txnRepo.GetByReference(ctx, event.Data.Reference)
	if err != nil {
		return err
	}
	if txn == nil {
		return ErrUnknownReference
	}

	switch event.Event {
	case "charge.success":
		// The provider reports the charge in minor units; a mismatch against
		// the ledger entry means the event belongs to a different charge.
		if event.Data.Amount != minorUnits(txn.Amount) || !strings.EqualFold(event.Data.Currency, txn.Currency) {
			s.activity.Record(ctx, "payment", "webhook_amount_mismatch", domain.ActivityWarning,
				"", domain.RoleSystem, txn.WalletID, map[string]string{
					"reference": txn.Reference,
				})
			return ErrAmountMismatch
		}
		applied, err := s.ledger.Apply(ctx, txn.ID)
		if err != nil {
			return err
		}
		s.notifier.NotifyWalletFunded(ctx, applied, txn.Meta["user_id"])
		return nil

	case "charge.failed":
		return s.markFailed(ctx, txn.ID)

	default:
		// Unhandled event types are acknowledged so the provider stops
		// redelivering them.
		return nil
	}
}

// Withdraw debits the wallet and pushes a transfer to the rider's bank
// account. The debit settles first; a provider failure reverses it.
func (s *GatewayService) Withdraw(ctx context.Context, userID, recipient, currency string, amount decimal.Decimal) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := &domain.Transaction{
		ID:        uuid.New().String(),
		WalletID:  wallet.ID,
		Type:      domain.TransactionTypeDebit,
		Status:    domain.TransactionStatusPending,
		Category:  domain.CategoryWithdraw,
		Amount:    amount,
		Currency:  currency,
		Reference: "wd-" + uuid.New().String(),
		Provider:  "paystack",
		Meta:      map[string]string{"user_id": userID, "recipient": recipient},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	applied, err := s.ledger.Apply(ctx, txn.ID)
	if err != nil {
		return applied, err
	}

	if _, err := s.provider.Transfer(ctx, TransferRequest{
		Amount:    amount,
		Currency:  currency,
		Reference: txn.Reference,
		Recipient: recipient,
		Reason:    "wallet withdrawal",
	}); err != nil {
		// Compensate: put the money back and fail the withdrawal.
		if _, rerr := s.ledger.Reverse(ctx, txn.ID); rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		return nil, err
	}

	s.activity.Record(ctx, "payment", "withdrawal_completed", domain.ActivityInfo,
		userID, domain.RoleRider, wallet.ID, map[string]string{
			"reference": txn.Reference,
			"amount":    amount.StringFixed(2),
		})

	return applied, nil
}

func (s *GatewayService) verifySignature(signature string, body []byte) bool {
	if s.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *GatewayService) ensureWallet(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	wallet = domain.NewWallet(uuid.New().String(), userID, currency)
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *GatewayService) markFailed(ctx context.Context, transactionID string) error {
	return s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		txn, err := r.Transactions.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status != domain.TransactionStatusPending {
			return nil
		}
		txn.Status = domain.TransactionStatusFailed
		txn.UpdatedAt = time.Now()
		return r.Transactions.Update(ctx, txn)
	})
}
