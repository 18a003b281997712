package domain

import "time"

// Wallet holds the coin balance of one user. Coins never go negative.
type Wallet struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	Coins     int64     `db:"coins" json:"coins"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type WalletSummary struct {
	Balance          int64 `json:"balance"`
	TotalIncome      int64 `json:"totalIncome"`
	TotalExpense     int64 `json:"totalExpense"`
	TransactionCount int   `json:"transactionCount"`
}
