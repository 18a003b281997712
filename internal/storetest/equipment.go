package storetest

import (
	"context"
	"fmt"

	"questline/internal/domain"
)

type Equipment struct{ s *Store }

func (e *Equipment) ListCatalog(_ context.Context, f domain.EquipmentFilter) ([]*domain.Equipment, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	res := []*domain.Equipment{}
	for _, item := range e.s.equipment {
		if f.Type != nil && item.Type != *f.Type {
			continue
		}
		if f.Rarity != nil && item.Rarity != *f.Rarity {
			continue
		}
		cp := *item
		res = append(res, &cp)
	}
	sortByID(res, func(x *domain.Equipment) int64 { return x.ID }, false)
	return res, nil
}

func (e *Equipment) GetEquipment(_ context.Context, id int64) (*domain.Equipment, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	item, ok := e.s.equipment[id]
	if !ok {
		return nil, domain.ErrEquipmentNotFound
	}
	cp := *item
	return &cp, nil
}

func (e *Equipment) CreateEquipment(_ context.Context, item *domain.Equipment) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.createLocked(item)
}

func (e *Equipment) createLocked(item *domain.Equipment) error {
	for _, existing := range e.s.equipment {
		if existing.Name == item.Name {
			return fmt.Errorf("%w: equipment %q already exists", domain.ErrConflict, item.Name)
		}
	}
	item.ID = e.s.nextID()
	item.CreatedAt = e.s.now()
	cp := *item
	e.s.equipment[item.ID] = &cp
	return nil
}

func (e *Equipment) EnsureCatalog(_ context.Context, items []domain.Equipment) (int, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	added := 0
outer:
	for _, item := range items {
		for _, existing := range e.s.equipment {
			if existing.Name == item.Name {
				continue outer
			}
		}
		item := item
		if err := e.createLocked(&item); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (e *Equipment) withItem(ue *domain.UserEquipment) *domain.UserEquipment {
	cp := *ue
	if item, ok := e.s.equipment[ue.EquipmentID]; ok {
		ic := *item
		cp.Equipment = &ic
	}
	return &cp
}

func (e *Equipment) filterOwned(userID int64, equippedOnly bool) []*domain.UserEquipment {
	res := []*domain.UserEquipment{}
	for _, ue := range e.s.owned {
		if ue.UserID != userID || (equippedOnly && !ue.IsEquipped) {
			continue
		}
		res = append(res, e.withItem(ue))
	}
	return res
}

func (e *Equipment) EquippedItems(_ context.Context, userID int64) ([]*domain.UserEquipment, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.filterOwned(userID, true), nil
}

func (e *Equipment) Inventory(_ context.Context, userID int64) ([]*domain.UserEquipment, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.filterOwned(userID, false), nil
}

func (e *Equipment) CountOwned(_ context.Context, userID int64) (int, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return len(e.filterOwned(userID, false)), nil
}

func (e *Equipment) Owns(_ context.Context, userID, equipmentID int64) (bool, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	return e.ownsLocked(userID, equipmentID), nil
}

func (e *Equipment) ownsLocked(userID, equipmentID int64) bool {
	for _, ue := range e.s.owned {
		if ue.UserID == userID && ue.EquipmentID == equipmentID {
			return true
		}
	}
	return false
}

func (e *Equipment) Purchase(_ context.Context, userID int64, item *domain.Equipment, description string) (*domain.UserEquipment, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if e.ownsLocked(userID, item.ID) {
		return nil, domain.ErrAlreadyOwned
	}
	if item.Price > 0 {
		if _, _, err := e.s.applyLocked(userID, domain.TransactionExpense, item.Price, description); err != nil {
			return nil, err
		}
	}
	ue := &domain.UserEquipment{
		ID:          e.s.nextID(),
		UserID:      userID,
		EquipmentID: item.ID,
		AcquiredAt:  e.s.now(),
	}
	e.s.owned = append(e.s.owned, ue)
	return e.withItem(ue), nil
}

func (e *Equipment) SetEquipped(_ context.Context, userID, userEquipmentID int64, equipped bool) (*domain.UserEquipment, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	var target *domain.UserEquipment
	for _, ue := range e.s.owned {
		if ue.ID == userEquipmentID && ue.UserID == userID {
			target = ue
		}
	}
	if target == nil {
		return nil, domain.ErrEquipmentNotFound
	}
	slot := e.s.equipment[target.EquipmentID].Type

	if equipped {
		for _, ue := range e.s.owned {
			if ue.UserID == userID && ue.ID != target.ID && ue.IsEquipped && e.s.equipment[ue.EquipmentID].Type == slot {
				ue.IsEquipped = false
			}
		}
	}
	target.IsEquipped = equipped
	return e.withItem(target), nil
}
