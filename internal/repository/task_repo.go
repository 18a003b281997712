package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"questline/internal/db"
	"questline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, task_type, xp_reward, coin_reward,
	is_completed, due_date, archived_at, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Type, &t.XPReward, &t.CoinReward,
		&t.IsCompleted, &t.DueDate, &t.ArchivedAt, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, task_type, xp_reward, coin_reward, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Title, t.Description, t.Type, t.XPReward, t.CoinReward, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Get returns a non-archived task owned by userID.
func (r *TaskRepository) Get(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE id = $1 AND user_id = $2 AND archived_at IS NULL`, taskID, userID))
}

func (r *TaskRepository) List(ctx context.Context, userID int64, f domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND archived_at IS NULL`
	args := []any{userID}
	if f.Type != nil {
		query += ` AND task_type = $2`
		args = append(args, *f.Type)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, userID, taskID int64, p domain.TaskPatch) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($3, title),
		     description = COALESCE($4, description),
		     xp_reward = COALESCE($5, xp_reward),
		     coin_reward = COALESCE($6, coin_reward),
		     due_date = COALESCE($7, due_date),
		     updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND archived_at IS NULL
		 RETURNING `+taskColumns,
		taskID, userID, p.Title, p.Description, p.XPReward, p.CoinReward, p.DueDate))
}

// Archive hides the task; completions referencing it are kept.
func (r *TaskRepository) Archive(ctx context.Context, userID, taskID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET archived_at = now(), updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND archived_at IS NULL`, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) CompletedSince(ctx context.Context, taskID, userID int64, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM task_completions
			WHERE task_id = $1 AND user_id = $2 AND completed_at >= $3
		)`, taskID, userID, since).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) RecordCompletion(ctx context.Context, task *domain.Task, c *domain.TaskCompletion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO task_completions (task_id, user_id, task_type, xp_earned, coins_earned, local_day, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		c.TaskID, c.UserID, c.TaskType, c.XPEarned, c.CoinsEarned, c.LocalDay, c.CompletedAt,
	).Scan(&c.ID)
	if err != nil {
		if db.IsUniqueViolation(err, "task_completions_daily_uniq") {
			return domain.ErrAlreadyCompletedToday
		}
		return fmt.Errorf("insert completion: %w", err)
	}

	if task.Type == domain.TaskTypeMission {
		tag, err := tx.Exec(ctx,
			`UPDATE tasks SET is_completed = true, updated_at = now()
			 WHERE id = $1 AND user_id = $2 AND NOT is_completed`, task.ID, task.UserID)
		if err != nil {
			return fmt.Errorf("complete mission: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAlreadyCompleted
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if task.Type == domain.TaskTypeMission {
		task.IsCompleted = true
	}
	return nil
}

func (r *TaskRepository) CountCompletions(ctx context.Context, userID int64, taskType *domain.TaskType, since *time.Time) (int, error) {
	var (
		conds = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if taskType != nil {
		args = append(args, *taskType)
		conds = append(conds, fmt.Sprintf("task_type = $%d", len(args)))
	}
	if since != nil {
		args = append(args, *since)
		conds = append(conds, fmt.Sprintf("completed_at >= $%d", len(args)))
	}

	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_completions WHERE `+strings.Join(conds, " AND "), args...,
	).Scan(&n)
	return n, err
}

func (r *TaskRepository) ListCompletions(ctx context.Context, userID int64, offset, limit int) ([]*domain.TaskCompletion, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_completions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.task_id, c.user_id, c.task_type, t.title, c.xp_earned, c.coins_earned, c.local_day, c.completed_at
		 FROM task_completions c
		 JOIN tasks t ON t.id = c.task_id
		 WHERE c.user_id = $1
		 ORDER BY c.completed_at DESC, c.id DESC
		 OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	res := make([]*domain.TaskCompletion, 0, limit)
	for rows.Next() {
		var c domain.TaskCompletion
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.TaskType, &c.TaskTitle,
			&c.XPEarned, &c.CoinsEarned, &c.LocalDay, &c.CompletedAt); err != nil {
			return nil, 0, err
		}
		res = append(res, &c)
	}
	return res, total, rows.Err()
}

// DailyDue counts users configured for timezone and their active daily tasks.
func (r *TaskRepository) DailyDue(ctx context.Context, timezone string) (int, int, error) {
	var users, tasks int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT s.user_id), COUNT(t.id)
		 FROM user_settings s
		 LEFT JOIN tasks t
		   ON t.user_id = s.user_id AND t.task_type = 'daily' AND t.archived_at IS NULL
		 WHERE s.timezone = $1`, timezone).Scan(&users, &tasks)
	return users, tasks, err
}
