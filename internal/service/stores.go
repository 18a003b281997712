package service

import (
	"context"
	"time"

	"questline/internal/domain"
)

// Storage contracts consumed by the services. The pgx implementations live in
// internal/repository, the in-memory ones in internal/storetest.

type UserStore interface {
	// Create inserts the user, default settings, a wallet holding
	// startingCoins and a locked row per synced achievement definition in
	// one transaction. Duplicate email -> ErrEmailTaken.
	Create(ctx context.Context, u *domain.User, startingCoins int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, username, profileImageURL *string) (*domain.User, error)
	UpdateSettings(ctx context.Context, id int64, s domain.Settings) error
	// UpdateProgress runs fn on the locked progress row and persists the
	// result in one write. Concurrent calls for one user serialize.
	UpdateProgress(ctx context.Context, id int64, fn func(p *domain.Progress) error) (domain.Progress, error)
}

type WalletStore interface {
	GetWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	// Apply changes the balance and appends the paired transaction as one
	// unit, serialized per wallet. An expense larger than the balance fails
	// with ErrInsufficientFunds and changes nothing.
	Apply(ctx context.Context, userID int64, kind domain.TransactionKind, amount int64, description string) (*domain.Wallet, *domain.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, offset, limit int) ([]*domain.Transaction, int, error)
	Summary(ctx context.Context, userID int64) (*domain.WalletSummary, error)
}

type EquipmentStore interface {
	ListCatalog(ctx context.Context, f domain.EquipmentFilter) ([]*domain.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error)
	CreateEquipment(ctx context.Context, e *domain.Equipment) error
	// EnsureCatalog inserts items whose name is missing and reports how many were added.
	EnsureCatalog(ctx context.Context, items []domain.Equipment) (int, error)

	EquippedItems(ctx context.Context, userID int64) ([]*domain.UserEquipment, error)
	Inventory(ctx context.Context, userID int64) ([]*domain.UserEquipment, error)
	CountOwned(ctx context.Context, userID int64) (int, error)
	Owns(ctx context.Context, userID, equipmentID int64) (bool, error)
	// Purchase debits the price with an expense transaction and inserts the
	// ownership row atomically. Ownership conflicts win over funds checks.
	Purchase(ctx context.Context, userID int64, item *domain.Equipment, description string) (*domain.UserEquipment, error)
	// SetEquipped toggles a row the user owns. Equipping first unequips any
	// other item of the same type, in the same transaction.
	SetEquipped(ctx context.Context, userID, userEquipmentID int64, equipped bool) (*domain.UserEquipment, error)
}

type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, userID, taskID int64) (*domain.Task, error)
	List(ctx context.Context, userID int64, f domain.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, userID, taskID int64, p domain.TaskPatch) (*domain.Task, error)
	Archive(ctx context.Context, userID, taskID int64) error

	// CompletedSince is the fast-path daily guard.
	CompletedSince(ctx context.Context, taskID, userID int64, since time.Time) (bool, error)
	// RecordCompletion appends c and, for missions, flips is_completed with a
	// compare-and-set, all in one transaction. A second daily completion for
	// the same local day fails with ErrAlreadyCompletedToday; a second
	// mission completion with ErrAlreadyCompleted.
	RecordCompletion(ctx context.Context, task *domain.Task, c *domain.TaskCompletion) error
	CountCompletions(ctx context.Context, userID int64, taskType *domain.TaskType, since *time.Time) (int, error)
	ListCompletions(ctx context.Context, userID int64, offset, limit int) ([]*domain.TaskCompletion, int, error)
	// DailyDue counts users in timezone and their active daily tasks.
	DailyDue(ctx context.Context, timezone string) (users int, tasks int, err error)
}

type AchievementStore interface {
	SyncDefinitions(ctx context.Context, defs []domain.AchievementDefinition) error
	// Provision creates missing locked rows for one user; Backfill does it
	// for every user. Both are additive only.
	Provision(ctx context.Context, userID int64) (int, error)
	Backfill(ctx context.Context) (int, error)
	List(ctx context.Context, userID int64) ([]*domain.Achievement, error)
	Get(ctx context.Context, userID, id int64) (*domain.Achievement, error)
	// Unlock flips is_unlocked false -> true. It returns nil when the row is
	// missing or already unlocked; only the caller that receives a row may
	// pay the reward.
	Unlock(ctx context.Context, userID int64, code string, at time.Time) (*domain.Achievement, error)
}

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error)
	GetByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error)
}

type StatsStore interface {
	PlatformStats(ctx context.Context, since time.Time) (*domain.PlatformStats, error)
}
