package repository

import (
	"context"
	"fmt"
	"time"

	"questline/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository aggregates platform-wide numbers for admins.
type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) PlatformStats(ctx context.Context, since time.Time) (*domain.PlatformStats, error) {
	s := &domain.PlatformStats{}

	queries := []struct {
		name string
		sql  string
		args []any
		dst  *int64
	}{
		{"total users", `SELECT COUNT(*) FROM users`, nil, &s.TotalUsers},
		{"new users", `SELECT COUNT(*) FROM users WHERE created_at >= $1`, []any{since}, &s.NewUsersToday},
		{"active users", `SELECT COUNT(DISTINCT user_id) FROM task_completions WHERE completed_at >= $1`, []any{since}, &s.ActiveUsersToday},
		{"completions today", `SELECT COUNT(*) FROM task_completions WHERE completed_at >= $1`, []any{since}, &s.CompletionsToday},
		{"total completions", `SELECT COUNT(*) FROM task_completions`, nil, &s.TotalCompletions},
		{"coins", `SELECT COALESCE(SUM(coins), 0) FROM wallets`, nil, &s.CoinsInCirculation},
		{"coins spent", `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = 'expense' AND created_at >= $1`, []any{since}, &s.CoinsSpentToday},
		{"achievements", `SELECT COUNT(*) FROM achievements WHERE is_unlocked`, nil, &s.UnlockedAchievements},
		{"items owned", `SELECT COUNT(*) FROM user_equipment`, nil, &s.ItemsOwned},
	}

	for _, q := range queries {
		if err := r.db.QueryRow(ctx, q.sql, q.args...).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", q.name, err)
		}
	}
	return s, nil
}
