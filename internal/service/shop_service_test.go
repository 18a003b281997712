package service

import (
	"fmt"
	"testing"

	"questline/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchase(t *testing.T) {
	f := newFixture(t)
	u := f.user(150)
	stone := f.item("Focus Stone")
	expenseCoins := ledgerCoins.WithLabelValues(string(domain.TransactionExpense))
	expenseEntries := ledgerEntries.WithLabelValues(string(domain.TransactionExpense))
	coinsBefore, entriesBefore := testutil.ToFloat64(expenseCoins), testutil.ToFloat64(expenseEntries)

	ue, err := f.shop.Purchase(f.ctx, u.ID, stone.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(stone.Price), testutil.ToFloat64(expenseCoins)-coinsBefore)
	assert.Equal(t, float64(1), testutil.ToFloat64(expenseEntries)-entriesBefore)
	assert.Equal(t, stone.ID, ue.EquipmentID)
	assert.False(t, ue.IsEquipped)
	assert.Equal(t, int64(100), f.balance(u.ID))

	inv, err := f.shop.Inventory(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "Focus Stone", inv[0].Equipment.Name)

	txs := f.store.Transactions(u.ID)
	last := txs[len(txs)-1]
	assert.Equal(t, domain.TransactionExpense, last.Kind)
	assert.Equal(t, int64(50), last.Amount)
	assert.Equal(t, "Equipment bought: Focus Stone", last.Description)

	var purchases int
	for _, e := range f.store.AuditEntries() {
		if e.Action == domain.AuditActionPurchase && e.UserID != nil && *e.UserID == u.ID {
			purchases++
		}
	}
	assert.Equal(t, 1, purchases)
}

func TestPurchaseRejections(t *testing.T) {
	f := newFixture(t)

	t.Run("already owned wins over funds", func(t *testing.T) {
		u := f.user(100)
		basicCap := f.item("Basic Cap")
		_, err := f.shop.Purchase(f.ctx, u.ID, basicCap.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), f.balance(u.ID))

		_, err = f.shop.Purchase(f.ctx, u.ID, basicCap.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyOwned)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("level too low", func(t *testing.T) {
		u := f.user(5000)
		_, err := f.shop.Purchase(f.ctx, u.ID, f.item("Focus Helmet").ID)
		assert.ErrorIs(t, err, domain.ErrLevelTooLow)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, int64(5000), f.balance(u.ID))
	})

	t.Run("insufficient funds changes nothing", func(t *testing.T) {
		u := f.user(99)
		before := len(f.store.Transactions(u.ID))

		_, err := f.shop.Purchase(f.ctx, u.ID, f.item("Task Vest").ID)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, int64(99), f.balance(u.ID))
		assert.Len(t, f.store.Transactions(u.ID), before)

		inv, err := f.shop.Inventory(f.ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, inv)
	})

	t.Run("unknown item", func(t *testing.T) {
		u := f.user(100)
		_, err := f.shop.Purchase(f.ctx, u.ID, 99999)
		assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
	})
}

func TestEquipReplacesSameSlot(t *testing.T) {
	f := newFixture(t)
	u := f.user(1000)
	f.setLevel(u.ID, 5)

	basicCap, err := f.shop.Purchase(f.ctx, u.ID, f.item("Basic Cap").ID)
	require.NoError(t, err)
	helmet, err := f.shop.Purchase(f.ctx, u.ID, f.item("Focus Helmet").ID)
	require.NoError(t, err)
	vest, err := f.shop.Purchase(f.ctx, u.ID, f.item("Task Vest").ID)
	require.NoError(t, err)

	_, err = f.shop.Equip(f.ctx, u.ID, basicCap.ID)
	require.NoError(t, err)
	_, err = f.shop.Equip(f.ctx, u.ID, vest.ID)
	require.NoError(t, err)
	got, err := f.shop.Equip(f.ctx, u.ID, helmet.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEquipped)

	stats, err := f.shop.EquippedStats(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.XPBonus)
	assert.Equal(t, 5, stats.CoinBonus)
	assert.Equal(t, 2, stats.EquippedItems)
	assert.Equal(t, map[domain.EquipmentType]bool{
		domain.EquipmentHead:      true,
		domain.EquipmentBody:      true,
		domain.EquipmentAccessory: false,
	}, stats.ItemsByType)

	// equipping twice is a no-op
	_, err = f.shop.Equip(f.ctx, u.ID, helmet.ID)
	require.NoError(t, err)
	stats, err = f.shop.EquippedStats(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EquippedItems)

	got, err = f.shop.Unequip(f.ctx, u.ID, helmet.ID)
	require.NoError(t, err)
	assert.False(t, got.IsEquipped)
	stats, err = f.shop.EquippedStats(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.XPBonus)
	assert.False(t, stats.ItemsByType[domain.EquipmentHead])
}

func TestEquipRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(100), f.user(100)
	ue, err := f.shop.Purchase(f.ctx, owner.ID, f.item("Focus Stone").ID)
	require.NoError(t, err)

	_, err = f.shop.Equip(f.ctx, other.ID, ue.ID)
	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
}

func TestAvailableFiltersByLevel(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)

	names := func() []string {
		items, err := f.shop.Available(f.ctx, u.ID)
		require.NoError(t, err)
		res := make([]string, 0, len(items))
		for _, it := range items {
			res = append(res, it.Name)
		}
		return res
	}
	assert.Equal(t, []string{"Basic Cap", "Task Vest", "Focus Stone"}, names())

	f.setLevel(u.ID, 7)
	assert.Equal(t, []string{"Basic Cap", "Focus Helmet", "Task Vest", "Productivity Suit", "Focus Stone", "Time Amulet"}, names())
}

func TestCatalogFilters(t *testing.T) {
	f := newFixture(t)

	head := domain.EquipmentHead
	items, err := f.shop.Catalog(f.ctx, domain.EquipmentFilter{Type: &head})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	epic := domain.RarityEpic
	items, err = f.shop.Catalog(f.ctx, domain.EquipmentFilter{Rarity: &epic})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	added, err := f.shop.SyncCatalog(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, added)

	all, err := f.shop.Catalog(f.ctx, domain.EquipmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultCatalog))
}

func TestCreateEquipmentValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		item domain.Equipment
	}{
		{"blank name", domain.Equipment{Name: "  ", Type: domain.EquipmentHead, Rarity: domain.RarityCommon}},
		{"bad type", domain.Equipment{Name: "Boots", Type: "feet", Rarity: domain.RarityCommon}},
		{"bad rarity", domain.Equipment{Name: "Boots", Type: domain.EquipmentBody, Rarity: "mythic"}},
		{"negative price", domain.Equipment{Name: "Boots", Type: domain.EquipmentBody, Rarity: domain.RarityCommon, Price: -1}},
		{"negative bonus", domain.Equipment{Name: "Boots", Type: domain.EquipmentBody, Rarity: domain.RarityCommon, Stats: domain.EquipmentStats{XPBonus: -5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			assert.ErrorIs(t, f.shop.CreateEquipment(f.ctx, &item), domain.ErrInvalidArgument)
		})
	}

	item := &domain.Equipment{Name: " Boots ", Type: domain.EquipmentBody, Rarity: domain.RarityCommon}
	require.NoError(t, f.shop.CreateEquipment(f.ctx, item))
	assert.Equal(t, "Boots", item.Name)
	assert.Equal(t, 1, item.RequiredLevel)
	assert.NotZero(t, item.ID)

	dup := &domain.Equipment{Name: "Boots", Type: domain.EquipmentBody, Rarity: domain.RarityCommon}
	assert.ErrorIs(t, f.shop.CreateEquipment(f.ctx, dup), domain.ErrConflict)
}

func TestPurchaseUnlocksCollectorAchievement(t *testing.T) {
	f := newFixture(t)
	u := f.user(0)

	var ids []int64
	for i := 0; i < 5; i++ {
		item := &domain.Equipment{
			Name:   fmt.Sprintf("Token %d", i),
			Type:   domain.EquipmentAccessory,
			Rarity: domain.RarityCommon,
		}
		require.NoError(t, f.shop.CreateEquipment(f.ctx, item))
		ids = append(ids, item.ID)
	}
	for _, id := range ids {
		_, err := f.shop.Purchase(f.ctx, u.ID, id)
		require.NoError(t, err)
	}

	list, err := f.achievements.List(f.ctx, u.ID)
	require.NoError(t, err)
	for _, a := range list {
		if a.DefinitionCode == "equipment_5" {
			assert.True(t, a.IsUnlocked)
		}
	}
	assert.Equal(t, domain.AchievementReward, f.balance(u.ID))
}
