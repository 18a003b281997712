package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"questline/internal/clock"
	"questline/internal/domain"
	"questline/internal/storetest"

	"github.com/stretchr/testify/require"
)

func init() {
	InitJWT("service-test-secret", time.Hour)
}

// fixture wires every service over one in-memory store and a fixed clock.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	clock *clock.Fixed
	store *storetest.Store

	audit        *AuditService
	ledger       *WalletLedger
	bonus        *BonusCalculator
	progression  *LevelProgression
	achievements *AchievementEngine
	coordinator  *RewardCoordinator
	tasks        *TaskService
	shop         *ShopService
	auth         *AuthService
	users        *UserService
	admin        *AdminService
	events       *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewFixed(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	st := storetest.New(clk)

	f := &fixture{t: t, ctx: context.Background(), clock: clk, store: st, events: &recordingNotifier{}}
	f.audit = NewAuditService(st.Audit())
	f.ledger = NewWalletLedger(st.Wallets())
	f.bonus = NewBonusCalculator(st.Users(), st.Equipment())
	f.progression = NewLevelProgression(st.Users(), f.bonus, f.ledger)
	f.achievements = NewAchievementEngine(st.Achievements(), st.Users(), st.Tasks(), st.Equipment(), f.ledger, clk)
	f.coordinator = NewRewardCoordinator(st.Tasks(), st.Users(), f.progression, f.achievements, clk)
	f.coordinator.SetNotifier(f.events)
	f.tasks = NewTaskService(st.Tasks(), clk)
	f.shop = NewShopService(st.Equipment(), st.Users(), f.ledger, f.bonus, f.achievements, f.audit)
	f.auth = NewAuthService(st.Users(), f.audit, domain.DefaultStartingCoin)
	f.users = NewUserService(st.Users(), f.progression)
	f.admin = NewAdminService(st.Stats(), st.Users(), st.Tasks(), f.ledger, f.audit, clk)

	require.NoError(t, f.achievements.SyncCatalog(f.ctx))
	_, err := f.shop.SyncCatalog(f.ctx)
	require.NoError(t, err)
	return f
}

var userSeq int

// user registers a fresh account and sets its balance to coins.
func (f *fixture) user(coins int64) *domain.User {
	f.t.Helper()
	userSeq++
	u, _, err := f.auth.Register(f.ctx, Registration{
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Username: fmt.Sprintf("user%d", userSeq),
		Password: "secret-pw",
	})
	require.NoError(f.t, err)

	switch start := int64(domain.DefaultStartingCoin); {
	case coins > start:
		_, err = f.ledger.Credit(f.ctx, u.ID, coins-start, "fixture")
	case coins < start:
		_, err = f.ledger.Debit(f.ctx, u.ID, start-coins, "fixture")
	}
	require.NoError(f.t, err)
	return u
}

func (f *fixture) task(userID int64, typ domain.TaskType, xp, coins int64) *domain.Task {
	f.t.Helper()
	task, err := f.tasks.Create(f.ctx, userID, NewTask{Title: "task", Type: typ, XPReward: xp, CoinReward: coins})
	require.NoError(f.t, err)
	return task
}

func (f *fixture) item(name string) *domain.Equipment {
	f.t.Helper()
	all, err := f.shop.Catalog(f.ctx, domain.EquipmentFilter{})
	require.NoError(f.t, err)
	for _, it := range all {
		if it.Name == name {
			return it
		}
	}
	f.t.Fatalf("catalog item %q not found", name)
	return nil
}

func (f *fixture) balance(userID int64) int64 {
	f.t.Helper()
	w, err := f.ledger.GetWallet(f.ctx, userID)
	require.NoError(f.t, err)
	return w.Coins
}

// setLevel moves a user straight to level with no XP.
func (f *fixture) setLevel(userID int64, level int) {
	f.t.Helper()
	_, err := f.store.Users().UpdateProgress(f.ctx, userID, func(p *domain.Progress) error {
		p.Level = level
		p.CurrentXP = 0
		p.XPToNextLevel = domain.XPForLevel(level)
		return nil
	})
	require.NoError(f.t, err)
}

type event struct {
	UserID  int64
	Name    string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) Notify(userID int64, name string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{userID, name, payload})
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	res := make([]string, 0, len(n.events))
	for _, e := range n.events {
		res = append(res, e.Name)
	}
	return res
}
