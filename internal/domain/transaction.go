package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeDebit  TransactionType = "DEBIT"
)

// TransactionStatus represents the lifecycle of a ledger entry. An entry
// moves PENDING -> {SUCCESS | FAILED | REVERSED | CANCELLED} exactly once.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusSuccess   TransactionStatus = "SUCCESS"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// TransactionCategory classifies what a ledger entry was for.
type TransactionCategory string

const (
	CategoryFundWallet  TransactionCategory = "FUND_WALLET"
	CategoryPayRider    TransactionCategory = "PAY_RIDER"
	CategoryPayCustomer TransactionCategory = "PAY_CUSTOMER"
	CategoryWithdraw    TransactionCategory = "WITHDRAW"
)

// Transaction is one append-only ledger entry against a wallet. Reference is
// the idempotency key against duplicate payment-provider webhook delivery and
// is unique when present. Entries are never deleted.
type Transaction struct {
	ID       string
	WalletID string
	OrderID  string // optional: set for order settlement legs

	Type     TransactionType
	Status   TransactionStatus
	Category TransactionCategory

	Amount   decimal.Decimal
	Currency string

	Reference string // external payment reference, unique
	Provider  string // payment-service-provider tag
	Meta      map[string]string

	CreatedAt time.Time
	UpdatedAt time.Time
}
