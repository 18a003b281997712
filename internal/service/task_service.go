package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"questline/internal/clock"
	"questline/internal/domain"
)

// Reward bounds accepted when creating or editing a task.
const (
	MinTaskXP   = 1
	MaxTaskXP   = 100
	MinTaskCoin = 0
	MaxTaskCoin = 50

	statsWindow = 30 * 24 * time.Hour
)

type TaskService struct {
	tasks TaskStore
	clock clock.Clock
}

func NewTaskService(tasks TaskStore, clk clock.Clock) *TaskService {
	return &TaskService{tasks: tasks, clock: clk}
}

type NewTask struct {
	Title       string
	Description string
	Type        domain.TaskType
	XPReward    int64
	CoinReward  int64
	DueDate     *time.Time
}

func (s *TaskService) Create(ctx context.Context, userID int64, in NewTask) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is mandatory", domain.ErrInvalidArgument)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be daily or mission", domain.ErrInvalidArgument)
	}
	if err := validateRewards(in.XPReward, in.CoinReward); err != nil {
		return nil, err
	}

	t := &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Type:        in.Type,
		XPReward:    in.XPReward,
		CoinReward:  in.CoinReward,
		DueDate:     in.DueDate,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	return s.tasks.Get(ctx, userID, taskID)
}

func (s *TaskService) List(ctx context.Context, userID int64, f domain.TaskFilter) ([]*domain.Task, error) {
	if f.Type != nil && !f.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be daily or mission", domain.ErrInvalidArgument)
	}
	return s.tasks.List(ctx, userID, f)
}

func (s *TaskService) Update(ctx context.Context, userID, taskID int64, p domain.TaskPatch) (*domain.Task, error) {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return nil, fmt.Errorf("%w: title is mandatory", domain.ErrInvalidArgument)
		}
		p.Title = &t
	}
	xp, coins := int64(MinTaskXP), int64(MinTaskCoin)
	if p.XPReward != nil {
		xp = *p.XPReward
	}
	if p.CoinReward != nil {
		coins = *p.CoinReward
	}
	if err := validateRewards(xp, coins); err != nil {
		return nil, err
	}
	return s.tasks.Update(ctx, userID, taskID, p)
}

// Delete archives the task. Its completion history is kept.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	return s.tasks.Archive(ctx, userID, taskID)
}

func (s *TaskService) History(ctx context.Context, userID int64, page Page) ([]*domain.TaskCompletion, int, error) {
	return s.tasks.ListCompletions(ctx, userID, page.Offset(), page.Limit)
}

// Statistics counts completions. StreakDays is not tracked and stays 0.
func (s *TaskService) Statistics(ctx context.Context, userID int64) (*domain.TaskStatistics, error) {
	total, err := s.tasks.CountCompletions(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	daily := domain.TaskTypeDaily
	since := s.clock.Now().Add(-statsWindow)
	dailyCount, err := s.tasks.CountCompletions(ctx, userID, &daily, &since)
	if err != nil {
		return nil, err
	}

	mission := domain.TaskTypeMission
	missions, err := s.tasks.CountCompletions(ctx, userID, &mission, nil)
	if err != nil {
		return nil, err
	}

	return &domain.TaskStatistics{
		TotalCompleted:    total,
		DailyCompleted:    dailyCount,
		MissionsCompleted: missions,
	}, nil
}

func validateRewards(xp, coins int64) error {
	if xp < MinTaskXP || xp > MaxTaskXP {
		return fmt.Errorf("%w: xp reward must be between %d and %d", domain.ErrInvalidArgument, MinTaskXP, MaxTaskXP)
	}
	if coins < MinTaskCoin || coins > MaxTaskCoin {
		return fmt.Errorf("%w: coin reward must be between %d and %d", domain.ErrInvalidArgument, MinTaskCoin, MaxTaskCoin)
	}
	return nil
}
