package domain

import "time"

type EquipmentType string

const (
	EquipmentHead      EquipmentType = "head"
	EquipmentBody      EquipmentType = "body"
	EquipmentAccessory EquipmentType = "accessory"
)

// EquipmentTypes lists every slot in display order.
var EquipmentTypes = []EquipmentType{EquipmentHead, EquipmentBody, EquipmentAccessory}

func (t EquipmentType) Valid() bool {
	for _, v := range EquipmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// EquipmentStats are additive percentage bonuses. Zero means absent.
type EquipmentStats struct {
	XPBonus   int `json:"xpBonus,omitempty"`
	CoinBonus int `json:"coinBonus,omitempty"`
}

type Equipment struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	Icon          string         `db:"icon" json:"icon"`
	Type          EquipmentType  `db:"equipment_type" json:"type"`
	Rarity        Rarity         `db:"rarity" json:"rarity"`
	Price         int64          `db:"price" json:"price"`
	Stats         EquipmentStats `db:"stats" json:"stats"`
	RequiredLevel int            `db:"required_level" json:"requiredLevel"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// UserEquipment is an ownership record. Rows are never deleted.
type UserEquipment struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"userId"`
	EquipmentID int64      `db:"equipment_id" json:"equipmentId"`
	IsEquipped  bool       `db:"is_equipped" json:"isEquipped"`
	AcquiredAt  time.Time  `db:"acquired_at" json:"acquiredAt"`
	Equipment   *Equipment `json:"equipment,omitempty"`
}

type EquipmentFilter struct {
	Type   *EquipmentType
	Rarity *Rarity
}

type EquippedStats struct {
	XPBonus       int                    `json:"xpBonus"`
	CoinBonus     int                    `json:"coinBonus"`
	EquippedItems int                    `json:"equippedItems"`
	ItemsByType   map[EquipmentType]bool `json:"itemsByType"`
}

// DefaultCatalog is seeded at startup; missing names are added, existing rows are kept.
var DefaultCatalog = []Equipment{
	{Name: "Basic Cap", Description: "A simple cap that helps you focus", Icon: "cap-basic", Type: EquipmentHead, Rarity: RarityCommon, Price: 100, Stats: EquipmentStats{XPBonus: 5}, RequiredLevel: 1},
	{Name: "Focus Helmet", Description: "Improves concentration on tasks", Icon: "helmet-focus", Type: EquipmentHead, Rarity: RarityRare, Price: 300, Stats: EquipmentStats{XPBonus: 10}, RequiredLevel: 5},
	{Name: "Crown of Wisdom", Description: "Grants wisdom to its wearer", Icon: "crown-wisdom", Type: EquipmentHead, Rarity: RarityEpic, Price: 1000, Stats: EquipmentStats{XPBonus: 20}, RequiredLevel: 15},
	{Name: "Task Vest", Description: "A vest with pockets for your tasks", Icon: "vest-task", Type: EquipmentBody, Rarity: RarityCommon, Price: 100, Stats: EquipmentStats{CoinBonus: 5}, RequiredLevel: 1},
	{Name: "Productivity Suit", Description: "Makes every task more rewarding", Icon: "suit-productivity", Type: EquipmentBody, Rarity: RarityRare, Price: 400, Stats: EquipmentStats{CoinBonus: 15}, RequiredLevel: 7},
	{Name: "Legendary Armor of Efficiency", Description: "Armor forged for the most efficient", Icon: "armor-efficiency", Type: EquipmentBody, Rarity: RarityEpic, Price: 1200, Stats: EquipmentStats{XPBonus: 10, CoinBonus: 20}, RequiredLevel: 20},
	{Name: "Focus Stone", Description: "A small stone that keeps you on track", Icon: "stone-focus", Type: EquipmentAccessory, Rarity: RarityCommon, Price: 50, Stats: EquipmentStats{XPBonus: 3, CoinBonus: 2}, RequiredLevel: 1},
	{Name: "Time Amulet", Description: "Bends time in your favour", Icon: "amulet-time", Type: EquipmentAccessory, Rarity: RarityRare, Price: 250, Stats: EquipmentStats{XPBonus: 7, CoinBonus: 7}, RequiredLevel: 5},
	{Name: "Infinity Gauntlet of Productivity", Description: "Complete any task with a snap", Icon: "gauntlet-infinity", Type: EquipmentAccessory, Rarity: RarityEpic, Price: 1500, Stats: EquipmentStats{XPBonus: 15, CoinBonus: 15}, RequiredLevel: 25},
}
