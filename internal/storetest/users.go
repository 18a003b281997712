package storetest

import (
	"context"

	"questline/internal/domain"
)

type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, user *domain.User, startingCoins int64) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	now := s.now()
	user.ID = s.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	s.users[user.ID] = &cp
	s.wallets[user.ID] = &domain.Wallet{ID: s.nextID(), UserID: user.ID, Coins: startingCoins, CreatedAt: now, UpdatedAt: now}
	(&Achievements{s: s}).provisionLocked(user.ID)
	return nil
}

func (u *Users) get(id int64) (*domain.User, error) {
	user, ok := u.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (u *Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, err := u.get(id)
	if err != nil {
		return nil, err
	}
	cp := *user
	return &cp, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (u *Users) UpdateProfile(_ context.Context, id int64, username, profileImageURL *string) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, err := u.get(id)
	if err != nil {
		return nil, err
	}
	if username != nil {
		user.Username = *username
	}
	if profileImageURL != nil {
		user.ProfileImageURL = *profileImageURL
	}
	user.UpdatedAt = u.s.now()
	cp := *user
	return &cp, nil
}

func (u *Users) UpdateSettings(_ context.Context, id int64, st domain.Settings) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, err := u.get(id)
	if err != nil {
		return err
	}
	user.Settings = st
	return nil
}

func (u *Users) UpdateProgress(_ context.Context, id int64, fn func(p *domain.Progress) error) (domain.Progress, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, err := u.get(id)
	if err != nil {
		return domain.Progress{}, err
	}
	p := user.Progress
	if err := fn(&p); err != nil {
		return p, err
	}
	user.Progress = p
	user.UpdatedAt = u.s.now()
	return p, nil
}
