package service

import (
	"context"

	"questline/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Bonus is the aggregated effect of the equipped items.
type Bonus struct {
	XPBonusPercent   int             `json:"xpBonusPercent"`
	CoinBonusPercent int             `json:"coinBonusPercent"`
	XPMultiplier     decimal.Decimal `json:"xpMultiplier"`
	CoinMultiplier   decimal.Decimal `json:"coinMultiplier"`
}

func newBonus(xpPercent, coinPercent int) Bonus {
	return Bonus{
		XPBonusPercent:   xpPercent,
		CoinBonusPercent: coinPercent,
		XPMultiplier:     decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(xpPercent)).Div(hundred)),
		CoinMultiplier:   decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(coinPercent)).Div(hundred)),
	}
}

// ScaleXP returns floor(base * xpMultiplier).
func (b Bonus) ScaleXP(base int64) int64 {
	return scale(base, b.XPMultiplier)
}

// ScaleCoins returns floor(base * coinMultiplier).
func (b Bonus) ScaleCoins(base int64) int64 {
	return scale(base, b.CoinMultiplier)
}

func scale(base int64, mult decimal.Decimal) int64 {
	return decimal.NewFromInt(base).Mul(mult).Floor().IntPart()
}

// BonusCalculator sums additive percentage bonuses over equipped items.
// Bonuses are unbounded.
type BonusCalculator struct {
	users     UserStore
	equipment EquipmentStore
}

func NewBonusCalculator(users UserStore, equipment EquipmentStore) *BonusCalculator {
	return &BonusCalculator{users: users, equipment: equipment}
}

func (c *BonusCalculator) Calculate(ctx context.Context, userID int64) (Bonus, error) {
	if _, err := c.users.GetByID(ctx, userID); err != nil {
		return Bonus{}, err
	}
	items, err := c.equipment.EquippedItems(ctx, userID)
	if err != nil {
		return Bonus{}, err
	}
	return sumBonus(items), nil
}

func sumBonus(items []*domain.UserEquipment) Bonus {
	var xp, coin int
	for _, it := range items {
		if it.Equipment == nil {
			continue
		}
		xp += it.Equipment.Stats.XPBonus
		coin += it.Equipment.Stats.CoinBonus
	}
	return newBonus(xp, coin)
}
