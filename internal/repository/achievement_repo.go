package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"questline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementRepository struct {
	db *pgxpool.Pool
}

func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// SyncDefinitions upserts the catalog keyed by code.
func (r *AchievementRepository) SyncDefinitions(ctx context.Context, defs []domain.AchievementDefinition) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, d := range defs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO achievement_definitions (code, name, description, icon, category, threshold, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (code) DO UPDATE
			 SET name = EXCLUDED.name,
			     description = EXCLUDED.description,
			     icon = EXCLUDED.icon,
			     category = EXCLUDED.category,
			     threshold = EXCLUDED.threshold,
			     version = EXCLUDED.version`,
			d.Code, d.Name, d.Description, d.Icon, d.Category, d.Threshold, d.Version,
		); err != nil {
			return fmt.Errorf("sync %s: %w", d.Code, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *AchievementRepository) Provision(ctx context.Context, userID int64) (int, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO achievements (user_id, definition_code)
		 SELECT u.id, d.code
		 FROM users u CROSS JOIN achievement_definitions d
		 WHERE u.id = $1
		 ON CONFLICT (user_id, definition_code) DO NOTHING`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *AchievementRepository) Backfill(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO achievements (user_id, definition_code)
		 SELECT u.id, d.code
		 FROM users u CROSS JOIN achievement_definitions d
		 ON CONFLICT (user_id, definition_code) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

const achievementSelect = `SELECT a.id, a.user_id, a.definition_code, d.name, d.description, d.icon,
	d.category, d.threshold, a.is_unlocked, a.unlocked_at, a.created_at`

func scanAchievement(row pgx.Row) (*domain.Achievement, error) {
	var a domain.Achievement
	if err := row.Scan(&a.ID, &a.UserID, &a.DefinitionCode, &a.Name, &a.Description, &a.Icon,
		&a.Category, &a.Threshold, &a.IsUnlocked, &a.UnlockedAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AchievementRepository) List(ctx context.Context, userID int64) ([]*domain.Achievement, error) {
	rows, err := r.db.Query(ctx, achievementSelect+`
		FROM achievements a
		JOIN achievement_definitions d ON d.code = a.definition_code
		WHERE a.user_id = $1
		ORDER BY a.is_unlocked DESC, d.name, a.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *AchievementRepository) Get(ctx context.Context, userID, id int64) (*domain.Achievement, error) {
	a, err := scanAchievement(r.db.QueryRow(ctx, achievementSelect+`
		FROM achievements a
		JOIN achievement_definitions d ON d.code = a.definition_code
		WHERE a.id = $1 AND a.user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAchievementNotFound
	}
	return a, err
}

// Unlock is a compare-and-set on is_unlocked. A nil result means another
// caller already unlocked it or the row does not exist.
func (r *AchievementRepository) Unlock(ctx context.Context, userID int64, code string, at time.Time) (*domain.Achievement, error) {
	a, err := scanAchievement(r.db.QueryRow(ctx, `
		WITH a AS (
			UPDATE achievements
			SET is_unlocked = true, unlocked_at = $3
			WHERE user_id = $1 AND definition_code = $2 AND NOT is_unlocked
			RETURNING id, user_id, definition_code, is_unlocked, unlocked_at, created_at
		)
		`+achievementSelect+`
		FROM a
		JOIN achievement_definitions d ON d.code = a.definition_code`, userID, code, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}
