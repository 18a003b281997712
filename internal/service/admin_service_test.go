package service

import (
	"strconv"
	"testing"

	"questline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminGetUser(t *testing.T) {
	f := newFixture(t)
	u := f.user(250)
	task := f.task(u.ID, domain.TaskTypeDaily, 10, 0)
	_, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	require.NoError(t, err)

	byID, err := f.admin.GetUser(f.ctx, strconv.FormatInt(u.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.User.Email)
	assert.Equal(t, int64(250), byID.Coins)
	assert.Equal(t, 1, byID.Completions)

	byEmail, err := f.admin.GetUser(f.ctx, " "+u.Email+" ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.User.ID)

	_, err = f.admin.GetUser(f.ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminAddCoins(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)

	w, err := f.admin.AddCoins(f.ctx, 7, u.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(140), w.Coins)

	txs := f.store.Transactions(u.ID)
	require.NotEmpty(t, txs)
	assert.Equal(t, domain.TransactionIncome, txs[len(txs)-1].Kind)
	assert.Equal(t, "Admin grant (7)", txs[len(txs)-1].Description)

	logs, err := f.admin.RecentAudit(f.ctx, domain.AuditCategoryAdmin, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionAddCoins, logs[0].Action)

	_, err = f.admin.AddCoins(f.ctx, 7, u.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = f.admin.AddCoins(f.ctx, 7, 999999, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(100), f.user(100)
	task := f.task(a.ID, domain.TaskTypeDaily, 10, 5)
	_, err := f.coordinator.GrantTaskReward(f.ctx, a.ID, task.ID)
	require.NoError(t, err)
	_, err = f.shop.Purchase(f.ctx, b.ID, f.item("Focus Stone").ID)
	require.NoError(t, err)

	stats, err := f.admin.GetStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.NewUsersToday)
	assert.Equal(t, int64(1), stats.CompletionsToday)
	assert.Equal(t, int64(1), stats.TotalCompletions)
	assert.Equal(t, int64(105+50), stats.CoinsInCirculation)
	assert.Equal(t, int64(50), stats.CoinsSpentToday)
	assert.Equal(t, int64(1), stats.ItemsOwned)
}
