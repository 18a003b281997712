package repository

import (
	"context"

	"questline/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditColumns = `id, user_id, action, category, details, ip, user_agent, created_at`

// AuditRepository is the append-only audit trail.
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends entry and fills in its id and timestamp. A nil details map is
// stored as an empty object.
func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	details := entry.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, category, details, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, entry.UserID, entry.Action, entry.Category, details, entry.IP, entry.UserAgent).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *AuditRepository) GetByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return r.collect(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		WHERE category = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, category, limit)
}

func (r *AuditRepository) GetRecent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return r.collect(ctx, `
		SELECT `+auditColumns+`
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
}

func (r *AuditRepository) collect(ctx context.Context, sql string, args ...any) ([]*domain.AuditLog, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	logs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[domain.AuditLog])
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	return logs, nil
}
