package service

import (
	"context"
	"fmt"
	"strings"

	"questline/internal/domain"
	"questline/internal/logger"
)

// ShopService sells equipment and manages the equipped slots.
type ShopService struct {
	equipment    EquipmentStore
	users        UserStore
	ledger       *WalletLedger
	bonus        *BonusCalculator
	achievements *AchievementEngine
	audit        *AuditService
	log          *logger.Logger
}

func NewShopService(equipment EquipmentStore, users UserStore, ledger *WalletLedger, bonus *BonusCalculator, achievements *AchievementEngine, audit *AuditService) *ShopService {
	return &ShopService{
		equipment:    equipment,
		users:        users,
		ledger:       ledger,
		bonus:        bonus,
		achievements: achievements,
		audit:        audit,
		log:          logger.With("component", "shop"),
	}
}

func (s *ShopService) Catalog(ctx context.Context, f domain.EquipmentFilter) ([]*domain.Equipment, error) {
	return s.equipment.ListCatalog(ctx, f)
}

// Available lists catalog items the user's level allows buying.
func (s *ShopService) Available(ctx context.Context, userID int64) ([]*domain.Equipment, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.equipment.ListCatalog(ctx, domain.EquipmentFilter{})
	if err != nil {
		return nil, err
	}
	res := make([]*domain.Equipment, 0, len(all))
	for _, e := range all {
		if e.RequiredLevel <= user.Progress.Level {
			res = append(res, e)
		}
	}
	return res, nil
}

func (s *ShopService) GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error) {
	return s.equipment.GetEquipment(ctx, id)
}

func (s *ShopService) CreateEquipment(ctx context.Context, e *domain.Equipment) error {
	if err := validateEquipment(e); err != nil {
		return err
	}
	return s.equipment.CreateEquipment(ctx, e)
}

// SyncCatalog adds any default items missing from the catalog.
func (s *ShopService) SyncCatalog(ctx context.Context) (int, error) {
	added, err := s.equipment.EnsureCatalog(ctx, domain.DefaultCatalog)
	if err != nil {
		return 0, err
	}
	s.log.Info("equipment catalog synced", "added", added, "defaults", len(domain.DefaultCatalog))
	return added, nil
}

func (s *ShopService) Inventory(ctx context.Context, userID int64) ([]*domain.UserEquipment, error) {
	return s.equipment.Inventory(ctx, userID)
}

// Purchase buys equipmentID for userID. Checks run in order: existence,
// ownership, level, funds. The debit and the inventory row are one unit.
func (s *ShopService) Purchase(ctx context.Context, userID, equipmentID int64) (*domain.UserEquipment, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.equipment.GetEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	owned, err := s.equipment.Owns(ctx, userID, equipmentID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, domain.ErrAlreadyOwned
	}
	if user.Progress.Level < item.RequiredLevel {
		return nil, fmt.Errorf("%w: requires level %d", domain.ErrLevelTooLow, item.RequiredLevel)
	}

	ue, err := s.equipment.Purchase(ctx, userID, item, "Equipment bought: "+item.Name)
	if err != nil {
		return nil, err
	}

	purchases.WithLabelValues(string(item.Rarity)).Inc()
	if item.Price > 0 {
		s.ledger.record(userID, domain.TransactionExpense, item.Price)
	}
	s.audit.LogPurchase(ctx, userID, item)
	s.log.Info("equipment purchased", "user_id", userID, "equipment_id", item.ID, "price", item.Price)

	if _, err := s.achievements.CheckEquipment(ctx, userID); err != nil {
		achievementCheckErrors.Inc()
		s.log.Warn("equipment achievement check failed", "user_id", userID, "error", err)
	}
	return ue, nil
}

// Equip equips an owned item, unequipping the other item of its type.
// Equipping an already equipped item is a no-op.
func (s *ShopService) Equip(ctx context.Context, userID, userEquipmentID int64) (*domain.UserEquipment, error) {
	ue, err := s.equipment.SetEquipped(ctx, userID, userEquipmentID, true)
	if err != nil {
		return nil, err
	}
	s.audit.LogEquip(ctx, userID, ue)
	return ue, nil
}

func (s *ShopService) Unequip(ctx context.Context, userID, userEquipmentID int64) (*domain.UserEquipment, error) {
	ue, err := s.equipment.SetEquipped(ctx, userID, userEquipmentID, false)
	if err != nil {
		return nil, err
	}
	s.audit.LogEquip(ctx, userID, ue)
	return ue, nil
}

func (s *ShopService) EquippedStats(ctx context.Context, userID int64) (*domain.EquippedStats, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.equipment.EquippedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	bonus := sumBonus(items)
	stats := &domain.EquippedStats{
		XPBonus:       bonus.XPBonusPercent,
		CoinBonus:     bonus.CoinBonusPercent,
		EquippedItems: len(items),
		ItemsByType:   make(map[domain.EquipmentType]bool, len(domain.EquipmentTypes)),
	}
	for _, t := range domain.EquipmentTypes {
		stats.ItemsByType[t] = false
	}
	for _, it := range items {
		if it.Equipment != nil {
			stats.ItemsByType[it.Equipment.Type] = true
		}
	}
	return stats, nil
}

func validateEquipment(e *domain.Equipment) error {
	e.Name = strings.TrimSpace(e.Name)
	switch {
	case e.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	case !e.Type.Valid():
		return fmt.Errorf("%w: unknown equipment type %q", domain.ErrInvalidArgument, e.Type)
	case !e.Rarity.Valid():
		return fmt.Errorf("%w: unknown rarity %q", domain.ErrInvalidArgument, e.Rarity)
	case e.Price < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidArgument)
	case e.Stats.XPBonus < 0 || e.Stats.CoinBonus < 0:
		return fmt.Errorf("%w: bonuses must not be negative", domain.ErrInvalidArgument)
	}
	if e.RequiredLevel < 1 {
		e.RequiredLevel = 1
	}
	return nil
}
