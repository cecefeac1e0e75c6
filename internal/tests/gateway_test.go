package tests

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

func signBody(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func chargeSuccessBody(reference string) []byte {
	return []byte(fmt.Sprintf(`{"event":"charge.success","data":{"reference":"%s","status":"success","amount":50000,"currency":"NGN"}}`, reference))
}

// ──────────────────────────────────────────────
// 1. FUNDING
// ──────────────────────────────────────────────

func TestInitiateFunding_CreatesPendingEntryAndCheckoutURL(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	result, err := e.gatewaySvc.InitiateFunding(context.Background(), "customer-1", "c1@example.com", "NGN", decimalFromString(t, "500.00"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.AuthorizationURL == "" {
		t.Error("expected a checkout URL")
	}
	if result.Transaction.Status != domain.TransactionStatusPending {
		t.Errorf("funding entry must stay PENDING until the webhook, got %s", result.Transaction.Status)
	}

	// The wallet is created on first use, still empty.
	wallet := e.wallets.WalletFor("customer-1")
	if wallet == nil {
		t.Fatal("expected wallet created on first funding")
	}
	if got := wallet.Balance().StringFixed(2); got != "0.00" {
		t.Errorf("funding must not credit optimistically, got %s", got)
	}
}

func TestInitiateFunding_DuplicateRequest_ReusesPendingEntry(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	first, err := e.gatewaySvc.InitiateFunding(context.Background(), "customer-1", "c1@example.com", "NGN", decimalFromString(t, "500.00"))
	if err != nil {
		t.Fatalf("first initiation: %v", err)
	}

	second, err := e.gatewaySvc.InitiateFunding(context.Background(), "customer-1", "c1@example.com", "NGN", decimalFromString(t, "500.00"))
	if err != nil {
		t.Fatalf("second initiation: %v", err)
	}

	if second.Transaction.Reference != first.Transaction.Reference {
		t.Errorf("duplicate request must reuse the pending entry, got %q and %q", first.Transaction.Reference, second.Transaction.Reference)
	}
	if second.AuthorizationURL == "" || second.AuthorizationURL != first.AuthorizationURL {
		t.Errorf("expected the original checkout URL back, got %q", second.AuthorizationURL)
	}
	if got := e.txns.CountTransactions(); got != 1 {
		t.Errorf("expected one ledger entry, got %d", got)
	}
	if e.provider.InitializeCallCount != 1 {
		t.Errorf("expected one provider checkout, got %d", e.provider.InitializeCallCount)
	}

	// A different amount is a new top-up, not a duplicate.
	third, err := e.gatewaySvc.InitiateFunding(context.Background(), "customer-1", "c1@example.com", "NGN", decimalFromString(t, "300.00"))
	if err != nil {
		t.Fatalf("third initiation: %v", err)
	}
	if third.Transaction.Reference == first.Transaction.Reference {
		t.Error("different amount must mint a fresh reference")
	}
}

func TestInitiateFunding_NonPositiveAmount_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	_, err := e.gatewaySvc.InitiateFunding(context.Background(), "customer-1", "c1@example.com", "NGN", decimalFromString(t, "0"))
	if !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. WEBHOOKS
// ──────────────────────────────────────────────

func TestWebhook_ValidSignature_CreditsWallet(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "customer-1", "0.00")
	txn := pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "500.00", "ref-123")
	txn.Meta = map[string]string{"user_id": "customer-1"}
	e.txns.AddTransaction(txn)

	body := chargeSuccessBody("ref-123")
	if err := e.gatewaySvc.HandleCallback(context.Background(), signBody(body), body); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "500.00" {
		t.Errorf("expected balance 500.00, got %s", got)
	}
}

func TestWebhook_InvalidSignature_RejectedBeforeParsing(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "customer-1", "0.00")
	e.txns.AddTransaction(pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "500.00", "ref-123"))

	body := chargeSuccessBody("ref-123")
	err := e.gatewaySvc.HandleCallback(context.Background(), "deadbeef", body)
	if !errors.Is(err, service.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got: %v", err)
	}

	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("forged webhook must not move money, got %s", got)
	}
}

func TestWebhook_DuplicateDelivery_CreditsOnce(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "customer-1", "0.00")
	txn := pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "500.00", "ref-123")
	txn.Meta = map[string]string{"user_id": "customer-1"}
	e.txns.AddTransaction(txn)

	body := chargeSuccessBody("ref-123")
	signature := signBody(body)

	for i := 0; i < 3; i++ {
		if err := e.gatewaySvc.HandleCallback(context.Background(), signature, body); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "500.00" {
		t.Errorf("redelivered webhook must credit once, got %s", got)
	}
}

func TestWebhook_UnknownReference_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	body := chargeSuccessBody("ref-unknown")
	err := e.gatewaySvc.HandleCallback(context.Background(), signBody(body), body)
	if !errors.Is(err, service.ErrUnknownReference) {
		t.Errorf("expected ErrUnknownReference, got: %v", err)
	}
}

func TestWebhook_AmountMismatch_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "customer-1", "0.00")
	txn := pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "500.00", "ref-123")
	txn.Meta = map[string]string{"user_id": "customer-1"}
	e.txns.AddTransaction(txn)

	// 100.00 in minor units against a 500.00 ledger entry.
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-123","status":"success","amount":10000,"currency":"NGN"}}`)
	err := e.gatewaySvc.HandleCallback(context.Background(), signBody(body), body)
	if !errors.Is(err, service.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got: %v", err)
	}

	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("mismatched webhook must not move money, got %s", got)
	}
	stored, _ := e.txns.GetByID(context.Background(), "txn-1")
	if stored.Status != domain.TransactionStatusPending {
		t.Errorf("entry must stay PENDING, got %s", stored.Status)
	}
}

func TestWebhook_CurrencyMismatch_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "customer-1", "0.00")
	txn := pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "500.00", "ref-123")
	txn.Meta = map[string]string{"user_id": "customer-1"}
	e.txns.AddTransaction(txn)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-123","status":"success","amount":50000,"currency":"USD"}}`)
	err := e.gatewaySvc.HandleCallback(context.Background(), signBody(body), body)
	if !errors.Is(err, service.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got: %v", err)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("mismatched webhook must not move money, got %s", got)
	}
}

func TestWebhook_ChargeFailed_MarksEntryFailed(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "customer-1", "0.00")
	e.txns.AddTransaction(pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "500.00", "ref-123"))

	body := []byte(`{"event":"charge.failed","data":{"reference":"ref-123","status":"failed"}}`)
	if err := e.gatewaySvc.HandleCallback(context.Background(), signBody(body), body); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	stored, _ := e.txns.GetByID(context.Background(), "txn-1")
	if stored.Status != domain.TransactionStatusFailed {
		t.Errorf("expected FAILED, got %s", stored.Status)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("failed charge must not move money, got %s", got)
	}
}

// ──────────────────────────────────────────────
// 3. WITHDRAWALS
// ──────────────────────────────────────────────

func TestWithdraw_DebitsWalletAndTransfers(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "rider-1", "1000.00")

	txn, err := e.gatewaySvc.Withdraw(context.Background(), "rider-1", "RCP_abc", "NGN", decimalFromString(t, "400.00"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if txn.Status != domain.TransactionStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", txn.Status)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "600.00" {
		t.Errorf("expected balance 600.00, got %s", got)
	}
	if e.provider.TransferCallCount != 1 {
		t.Errorf("expected one provider transfer, got %d", e.provider.TransferCallCount)
	}
}

func TestWithdraw_TransferFailure_ReversesDebit(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "rider-1", "1000.00")
	e.provider.TransferError = ErrMockTimeout

	_, err := e.gatewaySvc.Withdraw(context.Background(), "rider-1", "RCP_abc", "NGN", decimalFromString(t, "400.00"))
	if err == nil {
		t.Fatal("expected error when the provider transfer fails")
	}

	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "1000.00" {
		t.Errorf("failed transfer must restore the balance, got %s", got)
	}
}

func TestWithdraw_InsufficientBalance_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "rider-1", "100.00")

	_, err := e.gatewaySvc.Withdraw(context.Background(), "rider-1", "RCP_abc", "NGN", decimalFromString(t, "400.00"))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}

	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "100.00" {
		t.Errorf("balance must stay 100.00, got %s", got)
	}
	if e.provider.TransferCallCount != 0 {
		t.Error("provider transfer must not run for a failed debit")
	}
}
