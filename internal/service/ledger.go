package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// LedgerService is the only code path permitted to mutate a wallet balance.
// Every balance change happens under a row-level exclusive lock on the wallet
// and is paired with exactly one ledger entry, inside one database
// transaction.
type LedgerService struct {
	tx       repository.TxRunner
	activity *ActivityService
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(tx repository.TxRunner, activity *ActivityService) *LedgerService {
	return &LedgerService{tx: tx, activity: activity}
}

// Apply settles a pending ledger entry against its wallet. Calling Apply on
// an entry that is already SUCCESS is a no-op returning the entry unchanged,
// which makes payment-provider webhook redelivery safe. A debit that would
// overdraw the wallet commits the entry as FAILED and surfaces
// ErrInsufficientBalance.
func (s *LedgerService) Apply(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var applied *domain.Transaction
	var applyErr error

	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		txn, err := r.Transactions.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}

		if txn.Status == domain.TransactionStatusSuccess {
			applied = txn
			return nil
		}
		if txn.Status != domain.TransactionStatusPending {
			return ErrTransactionFinalized
		}

		wallet, err := r.Wallets.GetForUpdate(ctx, txn.WalletID)
		if err != nil {
			return err
		}

		if err := wallet.Apply(txn, time.Now()); err != nil {
			if errors.Is(err, domain.ErrInsufficientBalance) {
				// Commit the FAILED status; surface the error after.
				if uerr := r.Transactions.Update(ctx, txn); uerr != nil {
					return uerr
				}
				applied = txn
				applyErr = err
				return nil
			}
			return err
		}

		if err := r.Wallets.Save(ctx, wallet); err != nil {
			return err
		}
		if err := r.Transactions.Update(ctx, txn); err != nil {
			return err
		}

		applied = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applyErr == nil && applied != nil {
		s.activity.Record(ctx, "ledger", "transaction_settled", domain.ActivityInfo,
			"", domain.RoleSystem, applied.WalletID, map[string]string{
				"transaction_id": applied.ID,
				"reference":      applied.Reference,
				"type":           string(applied.Type),
				"amount":         applied.Amount.StringFixed(2),
			})
	}

	return applied, applyErr
}

// Reverse re-applies the inverse amount of a settled entry and marks it
// REVERSED. Only legal on a SUCCESS entry; the status guard means a reversal
// can never run twice.
func (s *LedgerService) Reverse(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var reversed *domain.Transaction

	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		txn, err := r.Transactions.GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}

		wallet, err := r.Wallets.GetForUpdate(ctx, txn.WalletID)
		if err != nil {
			return err
		}

		if err := wallet.Reverse(txn, time.Now()); err != nil {
			return err
		}

		if err := r.Wallets.Save(ctx, wallet); err != nil {
			return err
		}
		if err := r.Transactions.Update(ctx, txn); err != nil {
			return err
		}

		reversed = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "ledger", "transaction_reversed", domain.ActivityWarning,
		"", domain.RoleSystem, reversed.WalletID, map[string]string{
			"transaction_id": reversed.ID,
			"reference":      reversed.Reference,
		})

	return reversed, nil
}

// SettlementResult reports the ledger legs produced by order settlement.
type SettlementResult struct {
	CustomerDebit *domain.Transaction
	RiderCredit   *domain.Transaction
}

// SettleOrder settles a delivered wallet order: one DEBIT leg on the customer
// wallet for the full amount, one CREDIT leg on the rider wallet for the
// amount minus the platform fee. Legs are keyed by order code, so a repeated
// settlement call collapses into a no-op. Runs entirely inside one database
// transaction with locks taken in a fixed order (order row, then customer
// wallet, then rider wallet).
func (s *LedgerService) SettleOrder(ctx context.Context, orderID string) (*SettlementResult, error) {
	var result SettlementResult
	var settleErr error

	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if order.Paid || order.PaymentMethod != domain.PaymentMethodWallet {
			return nil
		}
		if !order.Status.AtOrBeyond(domain.OrderStatusDelivered) {
			return nil
		}

		now := time.Now()

		// Customer leg: debit the full order amount.
		debit, err := s.ensureLeg(ctx, r, order, order.CustomerID,
			domain.TransactionTypeDebit, order.Amount, "order-"+order.Code, now)
		if err != nil {
			return err
		}
		result.CustomerDebit = debit

		if debit.Status == domain.TransactionStatusPending {
			wallet, err := r.Wallets.GetForUpdate(ctx, debit.WalletID)
			if err != nil {
				return err
			}
			if err := wallet.Apply(debit, now); err != nil {
				if errors.Is(err, domain.ErrInsufficientBalance) {
					if uerr := r.Transactions.Update(ctx, debit); uerr != nil {
						return uerr
					}
					settleErr = err
					return nil
				}
				return err
			}
			if err := r.Wallets.Save(ctx, wallet); err != nil {
				return err
			}
			if err := r.Transactions.Update(ctx, debit); err != nil {
				return err
			}
		}

		// A debit leg that FAILED on an earlier attempt stays on the books;
		// the payout never runs against money that was not collected.
		if debit.Status != domain.TransactionStatusSuccess {
			settleErr = domain.ErrInsufficientBalance
			return nil
		}

		// Rider leg: credit the amount minus the platform fee.
		payout := order.Amount.Sub(order.PlatformFee)
		credit, err := s.ensureLeg(ctx, r, order, order.RiderID,
			domain.TransactionTypeCredit, payout, "payout-"+order.Code, now)
		if err != nil {
			return err
		}
		result.RiderCredit = credit

		if credit.Status == domain.TransactionStatusPending {
			wallet, err := r.Wallets.GetForUpdate(ctx, credit.WalletID)
			if err != nil {
				return err
			}
			if err := wallet.Apply(credit, now); err != nil {
				return err
			}
			if err := r.Wallets.Save(ctx, wallet); err != nil {
				return err
			}
			if err := r.Transactions.Update(ctx, credit); err != nil {
				return err
			}
		}

		order.Paid = true
		order.UpdatedAt = now
		return r.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if settleErr == nil {
		s.activity.Record(ctx, "ledger", "order_settled", domain.ActivityInfo,
			"", domain.RoleSystem, orderID, nil)
	}

	return &result, settleErr
}

// SettleTip moves a late tip from the customer wallet to the rider wallet.
// Legs carry a per-attempt reference: a failed attempt leaves only its FAILED
// debit audit row and a later attempt starts clean. Double settlement is
// prevented by the caller, which records the tip on the order row under lock
// before settling.
func (s *LedgerService) SettleTip(ctx context.Context, orderID string) (*SettlementResult, error) {
	var result SettlementResult
	var settleErr error

	err := s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Tip.IsZero() || order.PaymentMethod != domain.PaymentMethodWallet {
			return nil
		}

		now := time.Now()
		attempt := uuid.New().String()[:8]

		debit, err := s.ensureLeg(ctx, r, order, order.CustomerID,
			domain.TransactionTypeDebit, order.Tip, "tip-"+order.Code+"-"+attempt, now)
		if err != nil {
			return err
		}
		result.CustomerDebit = debit

		if debit.Status == domain.TransactionStatusPending {
			wallet, err := r.Wallets.GetForUpdate(ctx, debit.WalletID)
			if err != nil {
				return err
			}
			if err := wallet.Apply(debit, now); err != nil {
				if errors.Is(err, domain.ErrInsufficientBalance) {
					if uerr := r.Transactions.Update(ctx, debit); uerr != nil {
						return uerr
					}
					settleErr = err
					return nil
				}
				return err
			}
			if err := r.Wallets.Save(ctx, wallet); err != nil {
				return err
			}
			if err := r.Transactions.Update(ctx, debit); err != nil {
				return err
			}
		}

		// Tips pass through untouched by the platform fee.
		credit, err := s.ensureLeg(ctx, r, order, order.RiderID,
			domain.TransactionTypeCredit, order.Tip, "tip-payout-"+order.Code+"-"+attempt, now)
		if err != nil {
			return err
		}
		result.RiderCredit = credit

		if credit.Status == domain.TransactionStatusPending {
			wallet, err := r.Wallets.GetForUpdate(ctx, credit.WalletID)
			if err != nil {
				return err
			}
			if err := wallet.Apply(credit, now); err != nil {
				return err
			}
			if err := r.Wallets.Save(ctx, wallet); err != nil {
				return err
			}
			if err := r.Transactions.Update(ctx, credit); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, settleErr
}

// ensureLeg finds the settlement leg by reference or creates it PENDING. The
// wallet is created on first use when the user has none yet.
func (s *LedgerService) ensureLeg(ctx context.Context, r repository.TxRepos, order *domain.Order, userID string, txnType domain.TransactionType, amount decimal.Decimal, reference string, now time.Time) (*domain.Transaction, error) {
	existing, err := r.Transactions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	wallet, err := r.Wallets.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		wallet = domain.NewWallet(uuid.New().String(), userID, order.Currency)
		if err := r.Wallets.Create(ctx, wallet); err != nil {
			return nil, err
		}
	}

	txn := &domain.Transaction{
		ID:        uuid.New().String(),
		WalletID:  wallet.ID,
		OrderID:   order.ID,
		Type:      txnType,
		Status:    domain.TransactionStatusPending,
		Category:  domain.CategoryPayRider,
		Amount:    amount,
		Currency:  order.Currency,
		Reference: reference,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Transactions.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}
