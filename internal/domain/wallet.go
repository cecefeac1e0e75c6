package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientBalance is returned when a debit would drive a wallet
	// balance negative.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrTransactionNotPending is returned when applying a transaction that
	// has already been finalized.
	ErrTransactionNotPending = errors.New("transaction is not pending")

	// ErrTransactionNotSettled is returned when reversing a transaction that
	// never succeeded.
	ErrTransactionNotSettled = errors.New("transaction is not settled")

	// ErrWalletMismatch is returned when a transaction references a different
	// wallet than the one it is applied to.
	ErrWalletMismatch = errors.New("transaction does not belong to wallet")
)

// Wallet holds a user's balance. The balance field is unexported: the only
// way to change it is Apply or Reverse, which pair every change with exactly
// one ledger entry.
type Wallet struct {
	ID        string
	UserID    string
	Currency  string
	balance   decimal.Decimal
	UpdatedAt time.Time
}

// NewWallet creates an empty wallet for a user.
func NewWallet(id, userID, currency string) *Wallet {
	return &Wallet{ID: id, UserID: userID, Currency: currency, balance: decimal.Zero}
}

// RestoreWallet rebuilds a wallet from its persisted state. For repository
// use only.
func RestoreWallet(id, userID, currency string, balance decimal.Decimal, updatedAt time.Time) *Wallet {
	return &Wallet{ID: id, UserID: userID, Currency: currency, balance: balance, UpdatedAt: updatedAt}
}

// Balance returns the current balance.
func (w *Wallet) Balance() decimal.Decimal {
	return w.balance
}

// Apply settles a pending transaction against the wallet: a credit increases
// the balance, a debit decreases it. On success the transaction is marked
// SUCCESS. A debit that would drive the balance negative fails with
// ErrInsufficientBalance and marks the transaction FAILED.
func (w *Wallet) Apply(t *Transaction, now time.Time) error {
	if t.WalletID != w.ID {
		return ErrWalletMismatch
	}
	if t.Status != TransactionStatusPending {
		return ErrTransactionNotPending
	}

	switch t.Type {
	case TransactionTypeCredit:
		w.balance = w.balance.Add(t.Amount)
	case TransactionTypeDebit:
		next := w.balance.Sub(t.Amount)
		if next.IsNegative() {
			t.Status = TransactionStatusFailed
			t.UpdatedAt = now
			return ErrInsufficientBalance
		}
		w.balance = next
	}

	t.Status = TransactionStatusSuccess
	t.UpdatedAt = now
	w.UpdatedAt = now
	return nil
}

// Reverse re-applies the inverse amount of a settled transaction and marks it
// REVERSED. Only legal on a SUCCESS transaction, so a reversal can never run
// twice.
func (w *Wallet) Reverse(t *Transaction, now time.Time) error {
	if t.WalletID != w.ID {
		return ErrWalletMismatch
	}
	if t.Status != TransactionStatusSuccess {
		return ErrTransactionNotSettled
	}

	switch t.Type {
	case TransactionTypeCredit:
		next := w.balance.Sub(t.Amount)
		if next.IsNegative() {
			return ErrInsufficientBalance
		}
		w.balance = next
	case TransactionTypeDebit:
		w.balance = w.balance.Add(t.Amount)
	}

	t.Status = TransactionStatusReversed
	t.UpdatedAt = now
	w.UpdatedAt = now
	return nil
}
