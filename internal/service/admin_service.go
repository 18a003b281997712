package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"questline/internal/clock"
	"questline/internal/domain"
)

// AdminService provides admin statistics and operations
type AdminService struct {
	stats  StatsStore
	users  UserStore
	tasks  TaskStore
	ledger *WalletLedger
	audit  *AuditService
	clock  clock.Clock
}

// NewAdminService creates a new admin service
func NewAdminService(stats StatsStore, users UserStore, tasks TaskStore, ledger *WalletLedger, audit *AuditService, clk clock.Clock) *AdminService {
	return &AdminService{stats: stats, users: users, tasks: tasks, ledger: ledger, audit: audit, clock: clk}
}

// GetStats returns platform statistics. "Today" is the current UTC day.
func (s *AdminService) GetStats(ctx context.Context) (*domain.PlatformStats, error) {
	since := clock.StartOfDay(s.clock.Now(), time.UTC)
	return s.stats.PlatformStats(ctx, since)
}

// UserInfo represents user information for admin
type UserInfo struct {
	User        *domain.User `json:"user"`
	Coins       int64        `json:"coins"`
	Completions int          `json:"completions"`
}

// GetUser returns user info by numeric ID or email
func (s *AdminService) GetUser(ctx context.Context, identifier string) (*UserInfo, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		u   *domain.User
		err error
	)
	if id, perr := strconv.ParseInt(identifier, 10, 64); perr == nil {
		u, err = s.users.GetByID(ctx, id)
	} else {
		u, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		return nil, err
	}

	w, err := s.ledger.GetWallet(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	n, err := s.tasks.CountCompletions(ctx, u.ID, nil, nil)
	if err != nil {
		return nil, err
	}
	return &UserInfo{User: u, Coins: w.Coins, Completions: n}, nil
}

// AddCoins grants coins through the ledger so the change carries a transaction.
func (s *AdminService) AddCoins(ctx context.Context, adminID, userID, amount int64) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	w, err := s.ledger.Credit(ctx, userID, amount, fmt.Sprintf("Admin grant (%d)", adminID))
	if err != nil {
		return nil, err
	}
	s.audit.LogAdminAction(ctx, adminID, domain.AuditActionAddCoins, userID, map[string]interface{}{
		"amount":  amount,
		"balance": w.Coins,
	})
	return w, nil
}

// RecentAudit returns the newest audit entries, optionally of one category.
func (s *AdminService) RecentAudit(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if category != "" {
		return s.audit.GetLogsByCategory(ctx, category, limit)
	}
	return s.audit.GetRecentLogs(ctx, limit)
}
