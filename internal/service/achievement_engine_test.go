package service

import (
	"errors"
	"sync"
	"testing"

	"questline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionCreatesLockedRows(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)

	list, err := f.achievements.List(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, len(domain.AchievementCatalog))
	for _, a := range list {
		assert.False(t, a.IsUnlocked)
		assert.Nil(t, a.UnlockedAt)
	}

	// provisioning again adds nothing
	require.NoError(t, f.achievements.Provision(f.ctx, u.ID))
	list, err = f.achievements.List(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(domain.AchievementCatalog))
}

func TestUserCreationProvisionsRows(t *testing.T) {
	f := newFixture(t)
	u := &domain.User{Email: "direct@example.com", Username: "direct", Progress: domain.NewProgress(), Settings: domain.DefaultSettings()}
	require.NoError(t, f.store.Users().Create(f.ctx, u, 0))

	list, err := f.achievements.List(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(domain.AchievementCatalog))
}

func TestListOrdersUnlockedFirstThenByName(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 10)
	_, err := f.achievements.CheckAll(f.ctx, u.ID)
	require.NoError(t, err)

	list, err := f.achievements.List(f.ctx, u.ID)
	require.NoError(t, err)
	var names []string
	for _, a := range list {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{
		"Apprentice", "Beginner",
		"Armory", "Collector", "Expert", "Legend", "Master", "Productive", "Unstoppable", "Worker",
	}, names)
	assert.True(t, list[0].IsUnlocked)
	assert.True(t, list[1].IsUnlocked)
	assert.False(t, list[2].IsUnlocked)
}

func TestCheckAllUnlocksOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 10)

	unlocked, err := f.achievements.CheckAll(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 2)
	assert.Equal(t, "level_5", unlocked[0].DefinitionCode)
	assert.Equal(t, "level_10", unlocked[1].DefinitionCode)
	assert.Equal(t, "Beginner", unlocked[0].Name)
	assert.True(t, unlocked[0].IsUnlocked)
	require.NotNil(t, unlocked[0].UnlockedAt)
	assert.Equal(t, f.clock.Now(), *unlocked[0].UnlockedAt)
	assert.Equal(t, int64(100+2*domain.AchievementReward), f.balance(u.ID))

	again, err := f.achievements.CheckAll(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, int64(100+2*domain.AchievementReward), f.balance(u.ID))

	stats, err := f.achievements.Stats(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AchievementStats{Total: 10, Unlocked: 2, Percentage: 20}, *stats)
}

func TestConcurrentChecksPayOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user(0)
	f.setLevel(u.ID, 5)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.achievements.CheckAll(f.ctx, u.ID)
			assert.NoError(t, err)
			mu.Lock()
			total += len(got)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, total)
	assert.Equal(t, domain.AchievementReward, f.balance(u.ID))
}

func TestCheckAllIsolatesFailingCategory(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 5)

	boom := errors.New("count failed")
	f.store.FailCount = func(int64) error { return boom }

	unlocked, err := f.achievements.CheckAll(f.ctx, u.ID)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrPartialCheck)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "level_5", unlocked[0].DefinitionCode)
}

func TestUnlockFailureLeavesRowLocked(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 5)

	f.store.FailUnlock = func(int64, string) error { return errors.New("db down") }
	unlocked, err := f.achievements.CheckAll(f.ctx, u.ID)
	assert.Error(t, err)
	assert.Empty(t, unlocked)
	assert.Equal(t, int64(100), f.balance(u.ID))

	f.store.FailUnlock = nil
	unlocked, err = f.achievements.CheckAll(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, unlocked, 1)
}

func TestTaskAchievementThreshold(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)

	var last *domain.ProgressionResult
	for i := 0; i < 10; i++ {
		task := f.task(u.ID, domain.TaskTypeMission, 1, 0)
		res, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
		require.NoError(t, err)
		if i < 9 {
			assert.Empty(t, res.UnlockedAchievements)
		}
		last = res
	}
	require.Len(t, last.UnlockedAchievements, 1)
	assert.Equal(t, "tasks_10", last.UnlockedAchievements[0].DefinitionCode)
	assert.Equal(t, int64(100)+domain.AchievementReward, f.balance(u.ID))
}

func TestGetAchievementScopedToUser(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(100), f.user(100)

	list, err := f.achievements.List(f.ctx, a.ID)
	require.NoError(t, err)

	got, err := f.achievements.Get(f.ctx, a.ID, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, list[0].DefinitionCode, got.DefinitionCode)

	_, err = f.achievements.Get(f.ctx, b.ID, list[0].ID)
	assert.ErrorIs(t, err, domain.ErrAchievementNotFound)
}
