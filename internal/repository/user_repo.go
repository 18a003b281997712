package repository

import (
	"context"
	"errors"
	"fmt"

	"questline/internal/db"
	"questline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.email, u.username, u.password_hash, u.profile_image_url,
	u.level, u.current_xp, u.xp_to_next_level, u.created_at, u.updated_at,
	COALESCE(s.theme, 'light'), COALESCE(s.enable_notifications, true), COALESCE(s.timezone, 'UTC')`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.ProfileImageURL,
		&u.Progress.Level,
		&u.Progress.CurrentXP,
		&u.Progress.XPToNextLevel,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Settings.Theme,
		&u.Settings.EnableNotifications,
		&u.Settings.Timezone,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts the user, its settings row and its wallet in one transaction.
func (r *UserRepository) Create(ctx context.Context, u *domain.User, startingCoins int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash, profile_image_url, level, current_xp, xp_to_next_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.Username, u.PasswordHash, u.ProfileImageURL,
		u.Progress.Level, u.Progress.CurrentXP, u.Progress.XPToNextLevel,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_settings (user_id, theme, enable_notifications, timezone) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Settings.Theme, u.Settings.EnableNotifications, u.Settings.Timezone,
	); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO wallets (user_id, coins) VALUES ($1, $2)`, u.ID, startingCoins,
	); err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO achievements (user_id, definition_code)
		 SELECT $1, code FROM achievement_definitions`, u.ID,
	); err != nil {
		return fmt.Errorf("insert achievements: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u
		 LEFT JOIN user_settings s ON s.user_id = u.id
		 WHERE u.id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u
		 LEFT JOIN user_settings s ON s.user_id = u.id
		 WHERE u.email = $1`, email))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, profileImageURL *string) (*domain.User, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET username = COALESCE($2, username),
		     profile_image_url = COALESCE($3, profile_image_url),
		     updated_at = now()
		 WHERE id = $1`, id, username, profileImageURL)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) UpdateSettings(ctx context.Context, id int64, s domain.Settings) error {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO user_settings (user_id, theme, enable_notifications, timezone)
		 SELECT id, $2, $3, $4 FROM users WHERE id = $1
		 ON CONFLICT (user_id) DO UPDATE
		 SET theme = EXCLUDED.theme,
		     enable_notifications = EXCLUDED.enable_notifications,
		     timezone = EXCLUDED.timezone`,
		id, s.Theme, s.EnableNotifications, s.Timezone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateProgress locks the progress columns, runs fn and writes the result back.
func (r *UserRepository) UpdateProgress(ctx context.Context, id int64, fn func(p *domain.Progress) error) (domain.Progress, error) {
	var p domain.Progress

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return p, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`SELECT level, current_xp, xp_to_next_level FROM users WHERE id = $1 FOR UPDATE`, id,
	).Scan(&p.Level, &p.CurrentXP, &p.XPToNextLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, domain.ErrUserNotFound
		}
		return p, err
	}

	if err := fn(&p); err != nil {
		return p, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET level = $2, current_xp = $3, xp_to_next_level = $4, updated_at = now() WHERE id = $1`,
		id, p.Level, p.CurrentXP, p.XPToNextLevel,
	); err != nil {
		return p, err
	}

	return p, tx.Commit(ctx)
}
