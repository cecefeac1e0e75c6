package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/service"
)

func pendingTxn(id, walletID string, txnType domain.TransactionType, amount, reference string) *domain.Transaction {
	return &domain.Transaction{
		ID:        id,
		WalletID:  walletID,
		Type:      txnType,
		Status:    domain.TransactionStatusPending,
		Category:  domain.CategoryFundWallet,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "NGN",
		Reference: reference,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// ──────────────────────────────────────────────
// 1. APPLY / REVERSE
// ──────────────────────────────────────────────

func TestLedgerApply_CreditSettlesExactlyOnce(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "user-1", "100.00")
	e.txns.AddTransaction(pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "250.00", "ref-1"))

	applied, err := e.ledgerSvc.Apply(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if applied.Status != domain.TransactionStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", applied.Status)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "350.00" {
		t.Errorf("expected balance 350.00, got %s", got)
	}

	// Reapplying the settled entry changes nothing.
	again, err := e.ledgerSvc.Apply(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("reapply must not error, got: %v", err)
	}
	if again.Status != domain.TransactionStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", again.Status)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "350.00" {
		t.Errorf("balance must not move on reapply, got %s", got)
	}
}

func TestLedgerApply_InsufficientBalance_FailsEntryAndKeepsBalance(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "user-1", "50.00")
	e.txns.AddTransaction(pendingTxn("txn-1", "wallet-1", domain.TransactionTypeDebit, "100.00", "ref-1"))

	_, err := e.ledgerSvc.Apply(context.Background(), "txn-1")
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}

	stored, _ := e.txns.GetByID(context.Background(), "txn-1")
	if stored.Status != domain.TransactionStatusFailed {
		t.Errorf("expected FAILED, got %s", stored.Status)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "50.00" {
		t.Errorf("balance must stay 50.00, got %s", got)
	}
}

func TestLedgerApply_FinalizedEntry_Rejected(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "user-1", "50.00")
	txn := pendingTxn("txn-1", "wallet-1", domain.TransactionTypeDebit, "100.00", "ref-1")
	txn.Status = domain.TransactionStatusFailed
	e.txns.AddTransaction(txn)

	_, err := e.ledgerSvc.Apply(context.Background(), "txn-1")
	if !errors.Is(err, service.ErrTransactionFinalized) {
		t.Errorf("expected ErrTransactionFinalized, got: %v", err)
	}
}

func TestLedgerReverse_RestoresBalanceOnce(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-1", "user-1", "0.00")
	e.txns.AddTransaction(pendingTxn("txn-1", "wallet-1", domain.TransactionTypeCredit, "300.00", "ref-1"))

	if _, err := e.ledgerSvc.Apply(context.Background(), "txn-1"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	reversed, err := e.ledgerSvc.Reverse(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if reversed.Status != domain.TransactionStatusReversed {
		t.Errorf("expected REVERSED, got %s", reversed.Status)
	}
	if got := e.wallets.GetWallet("wallet-1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("expected balance 0.00, got %s", got)
	}

	// A reversal never runs twice.
	if _, err := e.ledgerSvc.Reverse(context.Background(), "txn-1"); !errors.Is(err, domain.ErrTransactionNotSettled) {
		t.Errorf("expected ErrTransactionNotSettled, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. ORDER SETTLEMENT
// ──────────────────────────────────────────────

func TestSettleOrder_DoubleEntry_IsIdempotent(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "6000.00")
	e.seedWallet("wallet-r1", "rider-1", "0.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusDelivered, domain.PaymentMethodWallet, "4851.41", "727.71")
	order.RiderID = "rider-1"

	result, err := e.ledgerSvc.SettleOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("expected settlement, got: %v", err)
	}
	if result.CustomerDebit == nil || result.RiderCredit == nil {
		t.Fatal("expected both settlement legs")
	}

	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "1148.59" {
		t.Errorf("expected customer balance 1148.59, got %s", got)
	}
	// Rider receives amount minus platform fee: 4851.41 - 727.71.
	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "4123.70" {
		t.Errorf("expected rider balance 4123.70, got %s", got)
	}
	if !e.orders.GetOrder(order.ID).Paid {
		t.Error("expected order marked paid")
	}

	count := e.txns.CountTransactions()

	// Settling again must not move money or add entries.
	if _, err := e.ledgerSvc.SettleOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("repeat settlement: %v", err)
	}
	if e.txns.CountTransactions() != count {
		t.Error("repeat settlement must not create new ledger entries")
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "1148.59" {
		t.Errorf("balance moved on repeat settlement: %s", got)
	}
}

func TestSettleOrder_InsufficientBalance_RecordsFailedDebit(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "100.00")
	e.seedWallet("wallet-r1", "rider-1", "0.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusDelivered, domain.PaymentMethodWallet, "1950.00", "292.50")
	order.RiderID = "rider-1"

	result, err := e.ledgerSvc.SettleOrder(context.Background(), order.ID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}

	if result.CustomerDebit == nil || result.CustomerDebit.Status != domain.TransactionStatusFailed {
		t.Error("expected FAILED customer debit leg on record")
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "100.00" {
		t.Errorf("customer balance must stay 100.00, got %s", got)
	}
	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("rider must not be paid, got %s", got)
	}
	if e.orders.GetOrder(order.ID).Paid {
		t.Error("order must not be marked paid")
	}
}

func TestSettleOrder_FailedDebitLeg_BlocksPayout(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "5000.00")
	e.seedWallet("wallet-r1", "rider-1", "0.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusDelivered, domain.PaymentMethodWallet, "1950.00", "292.50")
	order.RiderID = "rider-1"

	// A previous settlement attempt already failed the customer debit.
	failed := pendingTxn("txn-f", "wallet-c1", domain.TransactionTypeDebit, "1950.00", "order-"+order.Code)
	failed.Status = domain.TransactionStatusFailed
	failed.OrderID = order.ID
	failed.Category = domain.CategoryPayRider
	e.txns.AddTransaction(failed)

	_, err := e.ledgerSvc.SettleOrder(context.Background(), order.ID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
	}

	if got := e.wallets.GetWallet("wallet-r1").Balance().StringFixed(2); got != "0.00" {
		t.Errorf("rider must not be paid on a failed debit, got %s", got)
	}
	if got := e.wallets.GetWallet("wallet-c1").Balance().StringFixed(2); got != "5000.00" {
		t.Errorf("customer balance must stay 5000.00, got %s", got)
	}
	if e.orders.GetOrder(order.ID).Paid {
		t.Error("order must not be marked paid")
	}
	if e.txns.TransactionByReference("payout-"+order.Code) != nil {
		t.Error("payout leg must not exist")
	}
}

func TestSettleOrder_CashOrder_IsSkipped(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "5000.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusDelivered, domain.PaymentMethodCash, "1950.00", "292.50")
	order.RiderID = "rider-1"

	if _, err := e.ledgerSvc.SettleOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if e.txns.CountTransactions() != 0 {
		t.Error("cash settlement must produce no ledger entries")
	}
}

func TestSettleOrder_BalanceConservation(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.seedWallet("wallet-c1", "customer-1", "9000.00")
	e.seedWallet("wallet-r1", "rider-1", "1000.00")
	order := e.seedOrder("order-1", "customer-1", domain.OrderStatusDelivered, domain.PaymentMethodWallet, "3000.00", "450.00")
	order.RiderID = "rider-1"

	if _, err := e.ledgerSvc.SettleOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("settlement: %v", err)
	}

	customer := e.wallets.GetWallet("wallet-c1").Balance()
	rider := e.wallets.GetWallet("wallet-r1").Balance()
	total := customer.Add(rider)

	// 10000 before, minus the 450 platform fee retained off-ledger.
	if got := total.StringFixed(2); got != "9550.00" {
		t.Errorf("expected combined balance 9550.00, got %s", got)
	}
}
