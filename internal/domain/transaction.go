package domain

import "time"

type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

// Transaction is an immutable ledger entry. Amount is always positive;
// Kind carries the direction.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	WalletID    int64           `db:"wallet_id" json:"walletId"`
	UserID      int64           `db:"user_id" json:"userId"`
	Kind        TransactionKind `db:"kind" json:"type"`
	Amount      int64           `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// Signed returns the balance delta this entry represents.
func (t *Transaction) Signed() int64 {
	if t.Kind == TransactionExpense {
		return -t.Amount
	}
	return t.Amount
}
