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

type EquipmentRepository struct {
	db *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

const equipmentColumns = `e.id, e.name, e.description, e.icon, e.equipment_type, e.rarity,
	e.price, e.xp_bonus, e.coin_bonus, e.required_level, e.created_at`

func scanEquipment(row pgx.Row) (*domain.Equipment, error) {
	var e domain.Equipment
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Icon, &e.Type, &e.Rarity,
		&e.Price, &e.Stats.XPBonus, &e.Stats.CoinBonus, &e.RequiredLevel, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) ListCatalog(ctx context.Context, f domain.EquipmentFilter) ([]*domain.Equipment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+equipmentColumns+`
		 FROM equipment e
		 WHERE ($1::text IS NULL OR e.equipment_type = $1)
		   AND ($2::text IS NULL OR e.rarity = $2)
		 ORDER BY e.required_level, e.price, e.id`, f.Type, f.Rarity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error) {
	return scanEquipment(r.db.QueryRow(ctx,
		`SELECT `+equipmentColumns+` FROM equipment e WHERE e.id = $1`, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, e *domain.Equipment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO equipment (name, description, icon, equipment_type, rarity, price, xp_bonus, coin_bonus, required_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		e.Name, e.Description, e.Icon, e.Type, e.Rarity, e.Price, e.Stats.XPBonus, e.Stats.CoinBonus, e.RequiredLevel,
	).Scan(&e.ID, &e.CreatedAt)
	if db.IsUniqueViolation(err, "equipment_name_key") {
		return fmt.Errorf("%w: equipment %q already exists", domain.ErrConflict, e.Name)
	}
	return err
}

// EnsureCatalog inserts missing items by name; existing rows are left alone.
func (r *EquipmentRepository) EnsureCatalog(ctx context.Context, items []domain.Equipment) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	added := 0
	for _, e := range items {
		tag, err := tx.Exec(ctx,
			`INSERT INTO equipment (name, description, icon, equipment_type, rarity, price, xp_bonus, coin_bonus, required_level)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (name) DO NOTHING`,
			e.Name, e.Description, e.Icon, e.Type, e.Rarity, e.Price, e.Stats.XPBonus, e.Stats.CoinBonus, e.RequiredLevel)
		if err != nil {
			return 0, fmt.Errorf("seed %q: %w", e.Name, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, tx.Commit(ctx)
}

const ownedColumns = `ue.id, ue.user_id, ue.equipment_id, ue.is_equipped, ue.acquired_at, ` + equipmentColumns

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanOwned(row pgx.Row) (*domain.UserEquipment, error) {
	var (
		ue domain.UserEquipment
		e  domain.Equipment
	)
	if err := row.Scan(&ue.ID, &ue.UserID, &ue.EquipmentID, &ue.IsEquipped, &ue.AcquiredAt,
		&e.ID, &e.Name, &e.Description, &e.Icon, &e.Type, &e.Rarity,
		&e.Price, &e.Stats.XPBonus, &e.Stats.CoinBonus, &e.RequiredLevel, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEquipmentNotFound
		}
		return nil, err
	}
	ue.Equipment = &e
	return &ue, nil
}

func listOwned(ctx context.Context, q querier, where string, args ...any) ([]*domain.UserEquipment, error) {
	rows, err := q.Query(ctx,
		`SELECT `+ownedColumns+`
		 FROM user_equipment ue
		 JOIN equipment e ON e.id = ue.equipment_id
		 WHERE `+where+`
		 ORDER BY ue.acquired_at, ue.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.UserEquipment{}
	for rows.Next() {
		ue, err := scanOwned(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, ue)
	}
	return res, rows.Err()
}

func (r *EquipmentRepository) EquippedItems(ctx context.Context, userID int64) ([]*domain.UserEquipment, error) {
	return listOwned(ctx, r.db, `ue.user_id = $1 AND ue.is_equipped`, userID)
}

func (r *EquipmentRepository) Inventory(ctx context.Context, userID int64) ([]*domain.UserEquipment, error) {
	return listOwned(ctx, r.db, `ue.user_id = $1`, userID)
}

func (r *EquipmentRepository) CountOwned(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_equipment WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *EquipmentRepository) Owns(ctx context.Context, userID, equipmentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_equipment WHERE user_id = $1 AND equipment_id = $2)`,
		userID, equipmentID).Scan(&exists)
	return exists, err
}

// Purchase locks the wallet, inserts the ownership row and debits the price
// in one transaction.
func (r *EquipmentRepository) Purchase(ctx context.Context, userID int64, item *domain.Equipment, description string) (*domain.UserEquipment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Serializes concurrent purchases by the same user.
	if _, err := tx.Exec(ctx, `SELECT 1 FROM wallets WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}

	ue := &domain.UserEquipment{UserID: userID, EquipmentID: item.ID, Equipment: item}
	err = tx.QueryRow(ctx,
		`INSERT INTO user_equipment (user_id, equipment_id, equipment_type)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_equipped, acquired_at`,
		userID, item.ID, item.Type,
	).Scan(&ue.ID, &ue.IsEquipped, &ue.AcquiredAt)
	if err != nil {
		if db.IsUniqueViolation(err, "user_equipment_owned_uniq") {
			return nil, domain.ErrAlreadyOwned
		}
		return nil, fmt.Errorf("insert ownership: %w", err)
	}

	if item.Price > 0 {
		if _, _, err := applyTx(ctx, tx, userID, domain.TransactionExpense, item.Price, description); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ue, nil
}

// SetEquipped locks the user's rows so two concurrent equips of one slot
// cannot both succeed.
func (r *EquipmentRepository) SetEquipped(ctx context.Context, userID, userEquipmentID int64, equipped bool) (*domain.UserEquipment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT id FROM user_equipment WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}

	var slot domain.EquipmentType
	err = tx.QueryRow(ctx,
		`SELECT equipment_type FROM user_equipment WHERE id = $1 AND user_id = $2`,
		userEquipmentID, userID).Scan(&slot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEquipmentNotFound
		}
		return nil, err
	}

	if equipped {
		if _, err := tx.Exec(ctx,
			`UPDATE user_equipment SET is_equipped = false
			 WHERE user_id = $1 AND equipment_type = $2 AND id <> $3 AND is_equipped`,
			userID, slot, userEquipmentID); err != nil {
			return nil, fmt.Errorf("unequip slot: %w", err)
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE user_equipment SET is_equipped = $2 WHERE id = $1`, userEquipmentID, equipped); err != nil {
		return nil, fmt.Errorf("set equipped: %w", err)
	}

	ue, err := scanOwned(tx.QueryRow(ctx,
		`SELECT `+ownedColumns+`
		 FROM user_equipment ue
		 JOIN equipment e ON e.id = ue.equipment_id
		 WHERE ue.id = $1`, userEquipmentID))
	if err != nil {
		return nil, err
	}
	return ue, tx.Commit(ctx)
}
