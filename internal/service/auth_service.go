package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"questline/internal/domain"
	"questline/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// AuthService registers and authenticates users and issues JWTs.
type AuthService struct {
	users         UserStore
	audit         *AuditService
	startingCoins int64
	log           *logger.Logger
}

func NewAuthService(users UserStore, audit *AuditService, startingCoins int64) *AuthService {
	return &AuthService{
		users:         users,
		audit:         audit,
		startingCoins: startingCoins,
		log:           logger.With("component", "auth"),
	}
}

type Registration struct {
	Email    string
	Username string
	Password string
	IP       string
	UA       string
}

// Register creates the user with settings, a funded wallet and a locked row
// for every catalog achievement, then returns a session token.
func (s *AuthService) Register(ctx context.Context, r Registration) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(r.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrInvalidArgument)
	}
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return nil, "", fmt.Errorf("%w: username is mandatory", domain.ErrInvalidArgument)
	}
	if len(r.Password) < minPasswordLen {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Progress:     domain.NewProgress(),
		Settings:     domain.DefaultSettings(),
	}
	// Settings, wallet and locked achievement rows are created with the user.
	if err := s.users.Create(ctx, u, s.startingCoins); err != nil {
		return nil, "", err
	}
	s.audit.LogRegister(ctx, u.ID, r.IP, r.UA)

	token, err := GenerateJWT(u.ID, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, token, nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password, ip, ua string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	s.audit.LogLogin(ctx, u.ID, ip, ua)
	return u, token, nil
}
