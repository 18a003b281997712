package service

import (
	"testing"

	"questline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonusScale(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		base    int64
		want    int64
	}{
		{"no bonus", 0, 37, 37},
		{"five percent", 5, 100, 105},
		{"floors fractions", 15, 10, 11},
		{"small base", 10, 33, 36},
		{"zero base", 50, 0, 0},
		{"stacked past one hundred", 150, 10, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBonus(tt.percent, tt.percent)
			assert.Equal(t, tt.want, b.ScaleXP(tt.base))
			assert.Equal(t, tt.want, b.ScaleCoins(tt.base))
		})
	}
}

func TestBonusCalculatorSumsEquippedItems(t *testing.T) {
	f := newFixture(t)
	u := f.user(1000)

	bonus, err := f.bonus.Calculate(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, bonus.XPBonusPercent)
	assert.True(t, bonus.XPMultiplier.Equal(newBonus(0, 0).XPMultiplier))

	var owned []*domain.UserEquipment
	for _, name := range []string{"Basic Cap", "Task Vest", "Focus Stone"} {
		ue, err := f.shop.Purchase(f.ctx, u.ID, f.item(name).ID)
		require.NoError(t, err)
		owned = append(owned, ue)
	}

	// owned but unequipped items do not count
	bonus, err = f.bonus.Calculate(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, bonus.XPBonusPercent+bonus.CoinBonusPercent)

	for _, ue := range owned {
		_, err := f.shop.Equip(f.ctx, u.ID, ue.ID)
		require.NoError(t, err)
	}

	bonus, err = f.bonus.Calculate(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, bonus.XPBonusPercent)
	assert.Equal(t, 7, bonus.CoinBonusPercent)
	assert.Equal(t, "1.08", bonus.XPMultiplier.String())
	assert.Equal(t, "1.07", bonus.CoinMultiplier.String())
}

func TestBonusCalculatorUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.bonus.Calculate(f.ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
