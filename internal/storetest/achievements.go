package storetest

import (
	"context"
	"sort"
	"time"

	"questline/internal/domain"
)

type Achievements struct{ s *Store }

func (a *Achievements) SyncDefinitions(_ context.Context, defs []domain.AchievementDefinition) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, d := range defs {
		a.s.definitions[d.Code] = d
	}
	return nil
}

func (a *Achievements) provisionLocked(userID int64) int {
	have := map[string]bool{}
	for _, row := range a.s.achievements {
		if row.UserID == userID {
			have[row.DefinitionCode] = true
		}
	}
	added := 0
	for code := range a.s.definitions {
		if have[code] {
			continue
		}
		a.s.achievements = append(a.s.achievements, &domain.Achievement{
			ID:             a.s.nextID(),
			UserID:         userID,
			DefinitionCode: code,
			CreatedAt:      a.s.now(),
		})
		added++
	}
	return added
}

func (a *Achievements) Provision(_ context.Context, userID int64) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if _, ok := a.s.users[userID]; !ok {
		return 0, nil
	}
	return a.provisionLocked(userID), nil
}

func (a *Achievements) Backfill(_ context.Context) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	added := 0
	for id := range a.s.users {
		added += a.provisionLocked(id)
	}
	return added, nil
}

func (a *Achievements) view(row *domain.Achievement) *domain.Achievement {
	cp := *row
	if def, ok := a.s.definitions[row.DefinitionCode]; ok {
		cp.Apply(def)
	}
	if row.UnlockedAt != nil {
		t := *row.UnlockedAt
		cp.UnlockedAt = &t
	}
	return &cp
}

func (a *Achievements) List(_ context.Context, userID int64) ([]*domain.Achievement, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	res := []*domain.Achievement{}
	for _, row := range a.s.achievements {
		if row.UserID == userID {
			res = append(res, a.view(row))
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		x, y := res[i], res[j]
		if x.IsUnlocked != y.IsUnlocked {
			return x.IsUnlocked
		}
		if x.Name != y.Name {
			return x.Name < y.Name
		}
		return x.ID < y.ID
	})
	return res, nil
}

func (a *Achievements) Get(_ context.Context, userID, id int64) (*domain.Achievement, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, row := range a.s.achievements {
		if row.ID == id && row.UserID == userID {
			return a.view(row), nil
		}
	}
	return nil, domain.ErrAchievementNotFound
}

func (a *Achievements) Unlock(_ context.Context, userID int64, code string, at time.Time) (*domain.Achievement, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if a.s.FailUnlock != nil {
		if err := a.s.FailUnlock(userID, code); err != nil {
			return nil, err
		}
	}
	for _, row := range a.s.achievements {
		if row.UserID != userID || row.DefinitionCode != code {
			continue
		}
		if row.IsUnlocked {
			return nil, nil
		}
		row.IsUnlocked = true
		row.UnlockedAt = &at
		return a.view(row), nil
	}
	return nil, nil
}
