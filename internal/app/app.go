// Package app wires stores, services and transports into one process.
package app

import (
	"context"
	"fmt"

	"questline/internal/clock"
	"questline/internal/http/handlers"
	"questline/internal/jobs"
	"questline/internal/repository"
	"questline/internal/service"
	"questline/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stores is every storage contract the services need.
type Stores struct {
	Users        service.UserStore
	Wallets      service.WalletStore
	Tasks        service.TaskStore
	Equipment    service.EquipmentStore
	Achievements service.AchievementStore
	Audit        service.AuditStore
	Stats        service.StatsStore
}

// PostgresStores returns the pgx-backed stores.
func PostgresStores(db *pgxpool.Pool) Stores {
	return Stores{
		Users:        repository.NewUserRepository(db),
		Wallets:      repository.NewWalletRepository(db),
		Tasks:        repository.NewTaskRepository(db),
		Equipment:    repository.NewEquipmentRepository(db),
		Achievements: repository.NewAchievementRepository(db),
		Audit:        repository.NewAuditRepository(db),
		Stats:        repository.NewStatsRepository(db),
	}
}

type Options struct {
	StartingCoins int64
	Timezones     []string
}

// App holds the assembled services.
type App struct {
	Audit        *service.AuditService
	Ledger       *service.WalletLedger
	Bonus        *service.BonusCalculator
	Progression  *service.LevelProgression
	Achievements *service.AchievementEngine
	Rewards      *service.RewardCoordinator
	Auth         *service.AuthService
	Users        *service.UserService
	Tasks        *service.TaskService
	Shop         *service.ShopService
	Admin        *service.AdminService
	Scheduler    *jobs.Scheduler
	Hub          *ws.Hub
}

func New(st Stores, clk clock.Clock, opts Options) *App {
	if clk == nil {
		clk = clock.System()
	}
	a := &App{Hub: ws.NewHub()}
	a.Audit = service.NewAuditService(st.Audit)
	a.Ledger = service.NewWalletLedger(st.Wallets)
	a.Bonus = service.NewBonusCalculator(st.Users, st.Equipment)
	a.Progression = service.NewLevelProgression(st.Users, a.Bonus, a.Ledger)
	a.Achievements = service.NewAchievementEngine(st.Achievements, st.Users, st.Tasks, st.Equipment, a.Ledger, clk)
	a.Rewards = service.NewRewardCoordinator(st.Tasks, st.Users, a.Progression, a.Achievements, clk)
	a.Rewards.SetNotifier(a.Hub)
	a.Auth = service.NewAuthService(st.Users, a.Audit, opts.StartingCoins)
	a.Users = service.NewUserService(st.Users, a.Progression)
	a.Tasks = service.NewTaskService(st.Tasks, clk)
	a.Shop = service.NewShopService(st.Equipment, st.Users, a.Ledger, a.Bonus, a.Achievements, a.Audit)
	a.Admin = service.NewAdminService(st.Stats, st.Users, st.Tasks, a.Ledger, a.Audit, clk)
	a.Scheduler = jobs.NewScheduler(st.Tasks, a.Audit, clk, opts.Timezones)
	return a
}

// Seed syncs the achievement and equipment catalogs.
func (a *App) Seed(ctx context.Context) error {
	if err := a.Achievements.SyncCatalog(ctx); err != nil {
		return err
	}
	if _, err := a.Shop.SyncCatalog(ctx); err != nil {
		return fmt.Errorf("sync equipment catalog: %w", err)
	}
	return nil
}

// Handler builds the HTTP handler set over the assembled services.
func (a *App) Handler() *handlers.Handler {
	return handlers.NewHandler(handlers.Services{
		Auth:         a.Auth,
		Users:        a.Users,
		Tasks:        a.Tasks,
		Rewards:      a.Rewards,
		Achievements: a.Achievements,
		Ledger:       a.Ledger,
		Shop:         a.Shop,
		Admin:        a.Admin,
		Resetter:     a.Scheduler,
	})
}
