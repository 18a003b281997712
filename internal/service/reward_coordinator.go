package service

import (
	"context"
	"errors"
	"time"

	"questline/internal/clock"
	"questline/internal/domain"
	"questline/internal/logger"
)

// RewardCoordinator turns one task completion into its full set of effects:
// guard, history append, progression, achievements.
type RewardCoordinator struct {
	tasks        TaskStore
	users        UserStore
	progression  *LevelProgression
	achievements *AchievementEngine
	clock        clock.Clock
	notifier     Notifier
	log          *logger.Logger
}

func NewRewardCoordinator(tasks TaskStore, users UserStore, progression *LevelProgression, achievements *AchievementEngine, clk clock.Clock) *RewardCoordinator {
	return &RewardCoordinator{
		tasks:        tasks,
		users:        users,
		progression:  progression,
		achievements: achievements,
		clock:        clk,
		notifier:     noopNotifier{},
		log:          logger.With("component", "reward_coordinator"),
	}
}

// SetNotifier wires realtime delivery. A nil notifier disables it.
func (c *RewardCoordinator) SetNotifier(n Notifier) {
	if n == nil {
		n = noopNotifier{}
	}
	c.notifier = n
}

// GrantTaskReward completes taskID for userID and applies the rewards.
//
// Guard, completion record and progression must all succeed or the call
// fails. Achievement check failures are logged and the result is still
// returned. The pipeline ignores caller cancellation once started so a
// dropped request cannot leave a completion without its reward.
func (c *RewardCoordinator) GrantTaskReward(ctx context.Context, userID, taskID int64) (*domain.ProgressionResult, error) {
	ctx = context.WithoutCancel(ctx)

	task, err := c.tasks.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	loc := c.location(user)

	if err := c.guard(ctx, task, userID, now, loc); err != nil {
		c.reject(err)
		return nil, err
	}

	completion := &domain.TaskCompletion{
		TaskID:      task.ID,
		UserID:      userID,
		TaskType:    task.Type,
		TaskTitle:   task.Title,
		XPEarned:    task.XPReward,
		CoinsEarned: task.CoinReward,
		LocalDay:    clock.DayKey(now, loc),
		CompletedAt: now,
	}
	if err := c.tasks.RecordCompletion(ctx, task, completion); err != nil {
		c.reject(err)
		return nil, err
	}

	result, err := c.progression.ApplyReward(ctx, userID, task.XPReward, task.CoinReward, "Task completed: "+task.Title)
	if err != nil {
		c.log.Error("progression failed after completion recorded",
			"user_id", userID, "task_id", task.ID, "completion_id", completion.ID, "error", err)
		return nil, err
	}

	unlocked, err := c.achievements.CheckAll(ctx, userID)
	if err != nil {
		achievementCheckErrors.Inc()
		c.log.Warn("achievement check failed", "user_id", userID, "task_id", task.ID, "error", err)
	}
	if unlocked == nil {
		unlocked = []*domain.Achievement{}
	}
	result.UnlockedAchievements = unlocked

	rewardsGranted.WithLabelValues(string(task.Type)).Inc()
	c.log.Info("task reward granted",
		"user_id", userID, "task_id", task.ID, "type", task.Type,
		"xp", result.XPGained, "coins", result.CoinsGained, "level", result.CurrentLevel)

	c.publish(userID, task, result)
	return result, nil
}

// guard is the fast-path check. The store enforces the same rules
// atomically in RecordCompletion.
func (c *RewardCoordinator) guard(ctx context.Context, task *domain.Task, userID int64, now time.Time, loc *time.Location) error {
	switch task.Type {
	case domain.TaskTypeMission:
		if task.IsCompleted {
			return domain.ErrAlreadyCompleted
		}
	case domain.TaskTypeDaily:
		done, err := c.tasks.CompletedSince(ctx, task.ID, userID, clock.StartOfDay(now, loc))
		if err != nil {
			return err
		}
		if done {
			return domain.ErrAlreadyCompletedToday
		}
	}
	return nil
}

func (c *RewardCoordinator) location(user *domain.User) *time.Location {
	loc, err := clock.Location(user.Settings.Timezone)
	if err != nil {
		c.log.Warn("invalid user timezone, using UTC", "user_id", user.ID, "timezone", user.Settings.Timezone)
		return time.UTC
	}
	return loc
}

func (c *RewardCoordinator) reject(err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyCompletedToday):
		rewardsRejected.WithLabelValues("already_completed_today").Inc()
	case errors.Is(err, domain.ErrAlreadyCompleted):
		rewardsRejected.WithLabelValues("already_completed").Inc()
	default:
		rewardsRejected.WithLabelValues("error").Inc()
	}
}

func (c *RewardCoordinator) publish(userID int64, task *domain.Task, result *domain.ProgressionResult) {
	c.notifier.Notify(userID, EventReward, map[string]any{
		"taskId":      task.ID,
		"xpGained":    result.XPGained,
		"coinsGained": result.CoinsGained,
	})
	if result.LeveledUp {
		c.notifier.Notify(userID, EventLevelUp, map[string]any{
			"level":         result.CurrentLevel,
			"currentXp":     result.CurrentXP,
			"xpToNextLevel": result.XPToNextLevel,
		})
	}
	for _, a := range result.UnlockedAchievements {
		c.notifier.Notify(userID, EventAchievementUnlocked, a)
	}
}

// CheckAllAchievements runs an on-demand achievement check and pushes any
// unlocks to the user's connections.
//
// A category failure does not fail the call: the unlocks already committed
// are returned with Degraded set, since a later call would not report them.
func (c *RewardCoordinator) CheckAllAchievements(ctx context.Context, userID int64) (*domain.AchievementCheck, error) {
	unlocked, err := c.achievements.CheckAll(ctx, userID)
	degraded := false
	if err != nil {
		if !errors.Is(err, ErrPartialCheck) {
			return nil, err
		}
		achievementCheckErrors.Inc()
		c.log.Warn("achievement check incomplete", "user_id", userID, "unlocked", len(unlocked), "error", err)
		degraded = true
	}
	if unlocked == nil {
		unlocked = []*domain.Achievement{}
	}
	for _, a := range unlocked {
		c.notifier.Notify(userID, EventAchievementUnlocked, a)
	}
	return &domain.AchievementCheck{Unlocked: unlocked, Count: len(unlocked), Degraded: degraded}, nil
}
