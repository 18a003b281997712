package service

import (
	"context"
	"fmt"
	"strings"

	"questline/internal/clock"
	"questline/internal/domain"
)

var themes = map[string]bool{"light": true, "dark": true}

type UserService struct {
	users       UserStore
	progression *LevelProgression
}

func NewUserService(users UserStore, progression *LevelProgression) *UserService {
	return &UserService{users: users, progression: progression}
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) PublicProfile(ctx context.Context, userID int64) (domain.PublicProfile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.PublicProfile{}, err
	}
	return u.Public(), nil
}

// UpdateProfile changes only the fields that are set.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, username, imageURL *string) (*domain.User, error) {
	if username != nil {
		v := strings.TrimSpace(*username)
		if v == "" {
			return nil, fmt.Errorf("%w: username must not be empty", domain.ErrInvalidArgument)
		}
		username = &v
	}
	return s.users.UpdateProfile(ctx, userID, username, imageURL)
}

type SettingsPatch struct {
	Theme               *string
	EnableNotifications *bool
	Timezone            *string
}

func (s *UserService) UpdateSettings(ctx context.Context, userID int64, p SettingsPatch) (*domain.Settings, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := u.Settings
	if p.Theme != nil {
		if !themes[*p.Theme] {
			return nil, fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidArgument, *p.Theme)
		}
		st.Theme = *p.Theme
	}
	if p.EnableNotifications != nil {
		st.EnableNotifications = *p.EnableNotifications
	}
	if p.Timezone != nil {
		if _, err := clock.Location(*p.Timezone); err != nil || *p.Timezone == "" {
			return nil, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidArgument, *p.Timezone)
		}
		st.Timezone = *p.Timezone
	}
	if err := s.users.UpdateSettings(ctx, userID, st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *UserService) Stats(ctx context.Context, userID int64) (*domain.UserStats, error) {
	return s.progression.UserStats(ctx, userID)
}
