package repository

import (
	"context"

	"questline/internal/domain"

	"github.com/jackc/pgx/v5"
)

func insertTransaction(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction) error {
	return dbTx.QueryRow(ctx,
		`INSERT INTO transactions (wallet_id, user_id, kind, amount, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.WalletID, t.UserID, t.Kind, t.Amount, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
}

// ListTransactions returns one page of the user's transactions, newest first,
// and the total count.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID int64, offset, limit int) ([]*domain.Transaction, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, wallet_id, user_id, kind, amount, description, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		userID, offset, limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	res := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.UserID, &t.Kind, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		res = append(res, &t)
	}
	return res, total, rows.Err()
}

func (r *WalletRepository) Summary(ctx context.Context, userID int64) (*domain.WalletSummary, error) {
	w, err := r.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	s := &domain.WalletSummary{Balance: w.Coins}
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount) FILTER (WHERE kind = 'income'), 0),
		        COALESCE(SUM(amount) FILTER (WHERE kind = 'expense'), 0),
		        COUNT(*)
		 FROM transactions
		 WHERE user_id = $1`, userID,
	).Scan(&s.TotalIncome, &s.TotalExpense, &s.TransactionCount)
	if err != nil {
		return nil, err
	}
	return s, nil
}
