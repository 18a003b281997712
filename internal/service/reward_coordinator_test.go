package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"questline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantDailyReward(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	task := f.task(u.ID, domain.TaskTypeDaily, 30, 5)

	res, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.XPGained)
	assert.Equal(t, int64(5), res.CoinsGained)
	assert.Equal(t, int64(30), res.CurrentXP)
	assert.NotNil(t, res.UnlockedAchievements)
	assert.Equal(t, int64(105), f.balance(u.ID))
	assert.Equal(t, []string{EventReward}, f.events.names())

	_, err = f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(105), f.balance(u.ID))

	f.clock.Advance(24 * time.Hour)
	_, err = f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(110), f.balance(u.ID))

	history, total, err := f.tasks.History(f.ctx, u.ID, NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "2026-03-11", history[0].LocalDay)
	assert.Equal(t, "2026-03-10", history[1].LocalDay)
}

func TestConcurrentDailyCompletionHasOneWinner(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	task := f.task(u.ID, domain.TaskTypeDaily, 10, 10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrAlreadyCompletedToday):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 19, rejected)
	assert.Equal(t, int64(110), f.balance(u.ID))

	profile, err := f.users.Profile(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), profile.Progress.CurrentXP)
}

func TestMissionCompletesOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	task := f.task(u.ID, domain.TaskTypeMission, 100, 50)

	res, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.CurrentLevel)
	assert.Equal(t, []string{EventReward, EventLevelUp}, f.events.names())

	got, err := f.tasks.Get(f.ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	// a mission stays done on later days too
	f.clock.Advance(48 * time.Hour)
	_, err = f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, int64(150), f.balance(u.ID))
}

func TestDailyBoundaryFollowsUserTimezone(t *testing.T) {
	f := newFixture(t)
	ny, utc := f.user(0), f.user(0)
	tz := "America/New_York"
	_, err := f.users.UpdateSettings(f.ctx, ny.ID, SettingsPatch{Timezone: &tz})
	require.NoError(t, err)

	nyTask := f.task(ny.ID, domain.TaskTypeDaily, 10, 1)
	utcTask := f.task(utc.ID, domain.TaskTypeDaily, 10, 1)

	// 23:30 on March 9 in New York, 03:30 on March 10 in UTC
	f.clock.Set(time.Date(2026, 3, 10, 3, 30, 0, 0, time.UTC))
	_, err = f.coordinator.GrantTaskReward(f.ctx, ny.ID, nyTask.ID)
	require.NoError(t, err)
	_, err = f.coordinator.GrantTaskReward(f.ctx, utc.ID, utcTask.ID)
	require.NoError(t, err)

	// an hour later it is a new day in New York only
	f.clock.Advance(time.Hour)
	_, err = f.coordinator.GrantTaskReward(f.ctx, ny.ID, nyTask.ID)
	require.NoError(t, err)
	_, err = f.coordinator.GrantTaskReward(f.ctx, utc.ID, utcTask.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)

	history, _, err := f.tasks.History(f.ctx, ny.ID, NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-03-10", history[0].LocalDay)
	assert.Equal(t, "2026-03-09", history[1].LocalDay)
}

func TestAchievementFailureDoesNotFailReward(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	task := f.task(u.ID, domain.TaskTypeDaily, 20, 5)

	f.store.FailCount = func(int64) error { return errors.New("count failed") }

	res, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), res.XPGained)
	assert.Empty(t, res.UnlockedAchievements)
	assert.Equal(t, int64(105), f.balance(u.ID))
}

func TestGrantPushesUnlockedAchievements(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 4)
	task := f.task(u.ID, domain.TaskTypeMission, 100, 0)

	// level 4 needs 400 xp; prime it to 350
	_, err := f.progression.ApplyReward(f.ctx, u.ID, 350, 0, "prime")
	require.NoError(t, err)

	res, err := f.coordinator.GrantTaskReward(f.ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.CurrentLevel)
	require.Len(t, res.UnlockedAchievements, 1)
	assert.Equal(t, "level_5", res.UnlockedAchievements[0].DefinitionCode)
	assert.Equal(t, []string{EventReward, EventLevelUp, EventAchievementUnlocked}, f.events.names())
	assert.Equal(t, int64(100)+domain.AchievementReward, f.balance(u.ID))
}

func TestGrantRejectsForeignOrArchivedTask(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(100), f.user(100)
	task := f.task(owner.ID, domain.TaskTypeDaily, 10, 0)

	_, err := f.coordinator.GrantTaskReward(f.ctx, other.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	require.NoError(t, f.tasks.Delete(f.ctx, owner.ID, task.ID))
	_, err = f.coordinator.GrantTaskReward(f.ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.events.names())
}

func TestCheckAllAchievementsNotifies(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 6)

	check, err := f.coordinator.CheckAllAchievements(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, check.Unlocked, 1)
	assert.Equal(t, 1, check.Count)
	assert.False(t, check.Degraded)
	assert.Equal(t, []string{EventAchievementUnlocked}, f.events.names())
}

func TestCheckAllAchievementsReportsCommittedUnlocksOnPartialFailure(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	f.setLevel(u.ID, 5)
	f.store.FailCount = func(int64) error { return errors.New("count failed") }

	check, err := f.coordinator.CheckAllAchievements(f.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, check.Degraded)
	require.Len(t, check.Unlocked, 1)
	assert.Equal(t, "level_5", check.Unlocked[0].DefinitionCode)
	assert.Equal(t, int64(100+domain.AchievementReward), f.balance(u.ID))
	assert.Equal(t, []string{EventAchievementUnlocked}, f.events.names())

	f.store.FailCount = nil
	again, err := f.coordinator.CheckAllAchievements(f.ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, again.Degraded)
	assert.Empty(t, again.Unlocked)
}

func TestCheckAllAchievementsUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.coordinator.CheckAllAchievements(f.ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
