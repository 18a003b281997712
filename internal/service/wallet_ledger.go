package service

import (
	"context"
	"errors"

	"questline/internal/domain"
	"questline/internal/logger"
)

// WalletLedger owns every coin balance change. Each change is written
// together with exactly one transaction record.
type WalletLedger struct {
	store WalletStore
	log   *logger.Logger
}

func NewWalletLedger(store WalletStore) *WalletLedger {
	return &WalletLedger{store: store, log: logger.With("component", "wallet_ledger")}
}

// Credit adds amount to the user's wallet as an income entry.
func (l *WalletLedger) Credit(ctx context.Context, userID, amount int64, description string) (*domain.Wallet, error) {
	return l.apply(ctx, userID, domain.TransactionIncome, amount, description)
}

// Debit removes amount from the user's wallet as an expense entry.
func (l *WalletLedger) Debit(ctx context.Context, userID, amount int64, description string) (*domain.Wallet, error) {
	return l.apply(ctx, userID, domain.TransactionExpense, amount, description)
}

func (l *WalletLedger) apply(ctx context.Context, userID int64, kind domain.TransactionKind, amount int64, description string) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	w, tx, err := l.store.Apply(ctx, userID, kind, amount, description)
	if err != nil {
		if !errors.Is(err, domain.ErrInsufficientFunds) {
			l.log.Error("ledger apply failed", "user_id", userID, "kind", kind, "amount", amount, "error", err)
		}
		return nil, err
	}
	l.record(userID, kind, amount)
	l.log.Debug("ledger entry applied", "user_id", userID, "balance", w.Coins, "tx_id", tx.ID)
	return w, nil
}

// record accounts for one committed entry. Stores that write an entry inside
// a wider transaction, like a purchase, report it here too.
func (l *WalletLedger) record(userID int64, kind domain.TransactionKind, amount int64) {
	ledgerEntries.WithLabelValues(string(kind)).Inc()
	ledgerCoins.WithLabelValues(string(kind)).Add(float64(amount))
	l.log.Debug("ledger entry", "user_id", userID, "kind", kind, "amount", amount)
}

// HasSufficientFunds is false exactly when Debit would fail with
// ErrInsufficientFunds. It has no side effects.
func (l *WalletLedger) HasSufficientFunds(ctx context.Context, userID, amount int64) (bool, error) {
	if amount <= 0 {
		return false, domain.ErrInvalidAmount
	}
	w, err := l.store.GetWallet(ctx, userID)
	if err != nil {
		return false, err
	}
	return w.Coins >= amount, nil
}

func (l *WalletLedger) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	return l.store.GetWallet(ctx, userID)
}

// History returns one page of transactions, newest first, and the total count.
func (l *WalletLedger) History(ctx context.Context, userID int64, page Page) ([]*domain.Transaction, int, error) {
	return l.store.ListTransactions(ctx, userID, page.Offset(), page.Limit)
}

func (l *WalletLedger) Summary(ctx context.Context, userID int64) (*domain.WalletSummary, error) {
	return l.store.Summary(ctx, userID)
}
