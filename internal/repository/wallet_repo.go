package repository

import (
	"context"
	"errors"
	"fmt"

	"questline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetWallet retrieves wallet by user ID
func (r *WalletRepository) GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, coins, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID).Scan(&w.ID, &w.UserID, &w.Coins, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Apply changes the balance and records the transaction atomically.
func (r *WalletRepository) Apply(ctx context.Context, userID int64, kind domain.TransactionKind, amount int64, description string) (*domain.Wallet, *domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	w, t, err := applyTx(ctx, tx, userID, kind, amount, description)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return w, t, nil
}

// applyTx locks the wallet row, moves the balance and inserts the paired
// transaction inside tx. The caller commits.
func applyTx(ctx context.Context, tx pgx.Tx, userID int64, kind domain.TransactionKind, amount int64, description string) (*domain.Wallet, *domain.Transaction, error) {
	if amount <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}

	var w domain.Wallet
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, coins, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&w.ID, &w.UserID, &w.Coins, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrWalletNotFound
		}
		return nil, nil, fmt.Errorf("lock wallet: %w", err)
	}

	delta := amount
	switch kind {
	case domain.TransactionIncome:
	case domain.TransactionExpense:
		if w.Coins < amount {
			return nil, nil, domain.ErrInsufficientFunds
		}
		delta = -amount
	default:
		return nil, nil, fmt.Errorf("%w: unknown transaction kind %q", domain.ErrInvalidArgument, kind)
	}

	err = tx.QueryRow(ctx, `
		UPDATE wallets SET coins = coins + $2, updated_at = now()
		WHERE id = $1
		RETURNING coins, updated_at
	`, w.ID, delta).Scan(&w.Coins, &w.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("update wallet: %w", err)
	}

	t := &domain.Transaction{
		WalletID:    w.ID,
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
	}
	if err := insertTransaction(ctx, tx, t); err != nil {
		return nil, nil, fmt.Errorf("insert transaction: %w", err)
	}
	return &w, t, nil
}
