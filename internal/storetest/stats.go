package storetest

import (
	"context"
	"time"

	"questline/internal/domain"
)

type Stats struct{ s *Store }

func (st *Stats) PlatformStats(_ context.Context, since time.Time) (*domain.PlatformStats, error) {
	s := st.s
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &domain.PlatformStats{TotalUsers: int64(len(s.users))}
	for _, u := range s.users {
		if !u.CreatedAt.Before(since) {
			res.NewUsersToday++
		}
	}
	active := map[int64]bool{}
	for _, c := range s.completions {
		res.TotalCompletions++
		if !c.CompletedAt.Before(since) {
			res.CompletionsToday++
			active[c.UserID] = true
		}
	}
	res.ActiveUsersToday = int64(len(active))
	for _, w := range s.wallets {
		res.CoinsInCirculation += w.Coins
	}
	for _, t := range s.transactions {
		if t.Kind == domain.TransactionExpense && !t.CreatedAt.Before(since) {
			res.CoinsSpentToday += t.Amount
		}
	}
	for _, a := range s.achievements {
		if a.IsUnlocked {
			res.UnlockedAchievements++
		}
	}
	res.ItemsOwned = int64(len(s.owned))
	return res, nil
}
