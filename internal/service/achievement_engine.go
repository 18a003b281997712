package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"questline/internal/clock"
	"questline/internal/domain"
	"questline/internal/logger"
)

// ErrPartialCheck wraps category failures of a check that still returned the
// unlocks committed by the other categories.
var ErrPartialCheck = errors.New("achievement check incomplete")

// AchievementEngine evaluates the achievement catalog against a user's
// level, lifetime completions and owned equipment. Unlocking is a
// conditional update, so concurrent checks pay each reward once.
type AchievementEngine struct {
	store     AchievementStore
	users     UserStore
	tasks     TaskStore
	equipment EquipmentStore
	ledger    *WalletLedger
	clock     clock.Clock
	catalog   []domain.AchievementDefinition
	log       *logger.Logger
}

func NewAchievementEngine(store AchievementStore, users UserStore, tasks TaskStore, equipment EquipmentStore, ledger *WalletLedger, clk clock.Clock) *AchievementEngine {
	return &AchievementEngine{
		store:     store,
		users:     users,
		tasks:     tasks,
		equipment: equipment,
		ledger:    ledger,
		clock:     clk,
		catalog:   domain.AchievementCatalog,
		log:       logger.With("component", "achievement_engine"),
	}
}

// SyncCatalog upserts the definitions and backfills missing rows for
// existing users. Run once at startup.
func (e *AchievementEngine) SyncCatalog(ctx context.Context) error {
	if err := e.store.SyncDefinitions(ctx, e.catalog); err != nil {
		return fmt.Errorf("sync achievement definitions: %w", err)
	}
	added, err := e.store.Backfill(ctx)
	if err != nil {
		return fmt.Errorf("backfill achievements: %w", err)
	}
	e.log.Info("achievement catalog synced", "version", domain.CatalogVersion, "definitions", len(e.catalog), "rows_added", added)
	return nil
}

// Provision creates the locked rows for a new user.
func (e *AchievementEngine) Provision(ctx context.Context, userID int64) error {
	_, err := e.store.Provision(ctx, userID)
	return err
}

// CheckAll evaluates every category and returns what was newly unlocked by
// this call. Categories are independent: a failing one does not stop the
// others, and its error is joined into an ErrPartialCheck.
func (e *AchievementEngine) CheckAll(ctx context.Context, userID int64) ([]*domain.Achievement, error) {
	return e.check(ctx, userID, domain.CategoryLevel, domain.CategoryTasks, domain.CategoryEquipment)
}

// CheckEquipment evaluates only the equipment thresholds.
func (e *AchievementEngine) CheckEquipment(ctx context.Context, userID int64) ([]*domain.Achievement, error) {
	return e.check(ctx, userID, domain.CategoryEquipment)
}

func (e *AchievementEngine) check(ctx context.Context, userID int64, categories ...domain.AchievementCategory) ([]*domain.Achievement, error) {
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := []*domain.Achievement{}
	var errs []error
	for _, cat := range categories {
		metric, err := e.metric(ctx, user, cat)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s metric: %w", cat, err))
			continue
		}
		got, err := e.unlockReached(ctx, userID, cat, metric)
		unlocked = append(unlocked, got...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return unlocked, fmt.Errorf("%w: %w", ErrPartialCheck, errors.Join(errs...))
	}
	return unlocked, nil
}

func (e *AchievementEngine) metric(ctx context.Context, user *domain.User, cat domain.AchievementCategory) (int, error) {
	switch cat {
	case domain.CategoryLevel:
		return user.Progress.Level, nil
	case domain.CategoryTasks:
		return e.tasks.CountCompletions(ctx, user.ID, nil, nil)
	case domain.CategoryEquipment:
		return e.equipment.CountOwned(ctx, user.ID)
	}
	return 0, fmt.Errorf("unknown achievement category %q", cat)
}

func (e *AchievementEngine) unlockReached(ctx context.Context, userID int64, cat domain.AchievementCategory, metric int) ([]*domain.Achievement, error) {
	var (
		unlocked []*domain.Achievement
		errs     []error
	)
	for _, def := range e.catalog {
		if def.Category != cat || metric < def.Threshold {
			continue
		}
		a, err := e.store.Unlock(ctx, userID, def.Code, e.clock.Now())
		if err != nil {
			errs = append(errs, fmt.Errorf("unlock %s: %w", def.Code, err))
			continue
		}
		if a == nil {
			// missing row or already unlocked
			continue
		}
		a.Apply(def)
		unlocked = append(unlocked, a)
		achievementsUnlocked.WithLabelValues(string(cat)).Inc()
		e.log.Info("achievement unlocked", "user_id", userID, "code", def.Code, "metric", metric)

		if _, err := e.ledger.Credit(ctx, userID, domain.AchievementReward, "Achievement unlocked: "+def.Name); err != nil {
			e.log.Error("achievement reward credit failed", "user_id", userID, "code", def.Code, "error", err)
			errs = append(errs, fmt.Errorf("reward %s: %w", def.Code, err))
		}
	}
	return unlocked, errors.Join(errs...)
}

func (e *AchievementEngine) List(ctx context.Context, userID int64) ([]*domain.Achievement, error) {
	return e.store.List(ctx, userID)
}

func (e *AchievementEngine) Get(ctx context.Context, userID, id int64) (*domain.Achievement, error) {
	return e.store.Get(ctx, userID, id)
}

func (e *AchievementEngine) Stats(ctx context.Context, userID int64) (*domain.AchievementStats, error) {
	list, err := e.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &domain.AchievementStats{Total: len(list)}
	for _, a := range list {
		if a.IsUnlocked {
			stats.Unlocked++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Unlocked) / float64(stats.Total) * 100))
	}
	return stats, nil
}
