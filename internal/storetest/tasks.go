package storetest

import (
	"context"
	"time"

	"questline/internal/domain"
)

type Tasks struct{ s *Store }

func (t *Tasks) Create(_ context.Context, task *domain.Task) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.users[task.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	now := t.s.now()
	task.ID = t.s.nextID()
	task.CreatedAt, task.UpdatedAt = now, now
	cp := *task
	t.s.tasks[task.ID] = &cp
	return nil
}

func (t *Tasks) get(userID, taskID int64) (*domain.Task, error) {
	task, ok := t.s.tasks[taskID]
	if !ok || task.UserID != userID || task.ArchivedAt != nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (t *Tasks) Get(_ context.Context, userID, taskID int64) (*domain.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	task, err := t.get(userID, taskID)
	if err != nil {
		return nil, err
	}
	cp := *task
	return &cp, nil
}

func (t *Tasks) List(_ context.Context, userID int64, f domain.TaskFilter) ([]*domain.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	res := []*domain.Task{}
	for _, task := range t.s.tasks {
		if task.UserID != userID || task.ArchivedAt != nil {
			continue
		}
		if f.Type != nil && task.Type != *f.Type {
			continue
		}
		cp := *task
		res = append(res, &cp)
	}
	sortByID(res, func(x *domain.Task) int64 { return x.ID }, true)
	return res, nil
}

func (t *Tasks) Update(_ context.Context, userID, taskID int64, p domain.TaskPatch) (*domain.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	task, err := t.get(userID, taskID)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.XPReward != nil {
		task.XPReward = *p.XPReward
	}
	if p.CoinReward != nil {
		task.CoinReward = *p.CoinReward
	}
	if p.DueDate != nil {
		d := *p.DueDate
		task.DueDate = &d
	}
	task.UpdatedAt = t.s.now()
	cp := *task
	return &cp, nil
}

func (t *Tasks) Archive(_ context.Context, userID, taskID int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	task, err := t.get(userID, taskID)
	if err != nil {
		return err
	}
	now := t.s.now()
	task.ArchivedAt = &now
	return nil
}

func (t *Tasks) CompletedSince(_ context.Context, taskID, userID int64, since time.Time) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, c := range t.s.completions {
		if c.TaskID == taskID && c.UserID == userID && !c.CompletedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (t *Tasks) RecordCompletion(_ context.Context, task *domain.Task, c *domain.TaskCompletion) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	stored, ok := t.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	switch task.Type {
	case domain.TaskTypeDaily:
		for _, prev := range t.s.completions {
			if prev.TaskID == c.TaskID && prev.UserID == c.UserID &&
				prev.TaskType == domain.TaskTypeDaily && prev.LocalDay == c.LocalDay {
				return domain.ErrAlreadyCompletedToday
			}
		}
	case domain.TaskTypeMission:
		if stored.IsCompleted {
			return domain.ErrAlreadyCompleted
		}
		stored.IsCompleted = true
		stored.UpdatedAt = t.s.now()
		task.IsCompleted = true
	}

	c.ID = t.s.nextID()
	cp := *c
	t.s.completions = append(t.s.completions, &cp)
	return nil
}

func (t *Tasks) CountCompletions(_ context.Context, userID int64, taskType *domain.TaskType, since *time.Time) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.FailCount != nil {
		if err := t.s.FailCount(userID); err != nil {
			return 0, err
		}
	}
	n := 0
	for _, c := range t.s.completions {
		if c.UserID != userID {
			continue
		}
		if taskType != nil && c.TaskType != *taskType {
			continue
		}
		if since != nil && c.CompletedAt.Before(*since) {
			continue
		}
		n++
	}
	return n, nil
}

func (t *Tasks) ListCompletions(_ context.Context, userID int64, offset, limit int) ([]*domain.TaskCompletion, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var all []*domain.TaskCompletion
	for _, c := range t.s.completions {
		if c.UserID != userID {
			continue
		}
		cp := *c
		if task, ok := t.s.tasks[c.TaskID]; ok {
			cp.TaskTitle = task.Title
		}
		all = append(all, &cp)
	}
	sortByID(all, func(x *domain.TaskCompletion) int64 { return x.ID }, true)
	return page(all, offset, limit), len(all), nil
}

func (t *Tasks) DailyDue(_ context.Context, timezone string) (int, int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	users := map[int64]bool{}
	for _, u := range t.s.users {
		if u.Settings.Timezone == timezone {
			users[u.ID] = true
		}
	}
	tasks := 0
	for _, task := range t.s.tasks {
		if users[task.UserID] && task.Type == domain.TaskTypeDaily && task.ArchivedAt == nil {
			tasks++
		}
	}
	return len(users), tasks, nil
}
