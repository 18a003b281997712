package service

import (
	"context"
	"fmt"

	"questline/internal/domain"
	"questline/internal/logger"
)

// LevelProgression owns XP accrual and level-up resolution.
type LevelProgression struct {
	users  UserStore
	bonus  *BonusCalculator
	ledger *WalletLedger
	log    *logger.Logger
}

func NewLevelProgression(users UserStore, bonus *BonusCalculator, ledger *WalletLedger) *LevelProgression {
	return &LevelProgression{
		users:  users,
		bonus:  bonus,
		ledger: ledger,
		log:    logger.With("component", "level_progression"),
	}
}

// ApplyReward scales the base rewards by the equipped bonuses, adds the XP
// resolving every level-up it pays for, then credits the coins.
//
// XP is persisted before the coin credit. If the credit fails the XP stays
// and the error is returned.
func (p *LevelProgression) ApplyReward(ctx context.Context, userID, baseXP, baseCoins int64, description string) (*domain.ProgressionResult, error) {
	if baseXP < 0 || baseCoins < 0 {
		return nil, domain.ErrInvalidReward
	}

	bonus, err := p.bonus.Calculate(ctx, userID)
	if err != nil {
		return nil, err
	}
	xp := bonus.ScaleXP(baseXP)
	coins := bonus.ScaleCoins(baseCoins)

	var (
		leveledUp bool
		before    int
	)
	progress, err := p.users.UpdateProgress(ctx, userID, func(pr *domain.Progress) error {
		before = pr.Level
		leveledUp = pr.AddXP(xp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	xpGranted.Add(float64(xp))
	if leveledUp {
		levelUps.Add(float64(progress.Level - before))
		p.log.Info("level up", "user_id", userID, "from", before, "to", progress.Level)
	}

	if coins > 0 {
		if _, err := p.ledger.Credit(ctx, userID, coins, description); err != nil {
			p.log.Error("coin credit failed after xp persisted",
				"user_id", userID, "xp", xp, "coins", coins, "error", err)
			return nil, fmt.Errorf("credit reward coins: %w", err)
		}
	}

	return &domain.ProgressionResult{
		XPGained:      xp,
		CoinsGained:   coins,
		CurrentXP:     progress.CurrentXP,
		XPToNextLevel: progress.XPToNextLevel,
		CurrentLevel:  progress.Level,
		LeveledUp:     leveledUp,
	}, nil
}

// UserStats returns the progression snapshot with the current bonus totals.
func (p *LevelProgression) UserStats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	bonus, err := p.bonus.Calculate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.UserStats{
		Level:            user.Progress.Level,
		CurrentXP:        user.Progress.CurrentXP,
		XPToNextLevel:    user.Progress.XPToNextLevel,
		XPBonusPercent:   bonus.XPBonusPercent,
		CoinBonusPercent: bonus.CoinBonusPercent,
	}, nil
}
