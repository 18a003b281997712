package domain

import "time"

type AchievementCategory string

const (
	CategoryLevel     AchievementCategory = "level"
	CategoryTasks     AchievementCategory = "tasks"
	CategoryEquipment AchievementCategory = "equipment"
)

// AchievementReward is credited once per unlocked achievement.
const AchievementReward int64 = 50

// CatalogVersion is bumped whenever AchievementCatalog gains definitions.
const CatalogVersion = 1

// AchievementDefinition is one entry of the versioned catalog. Code is the
// stable identity; Name and Description may change without breaking rows.
type AchievementDefinition struct {
	Code        string              `db:"code" json:"code"`
	Name        string              `db:"name" json:"name"`
	Description string              `db:"description" json:"description"`
	Icon        string              `db:"icon" json:"icon"`
	Category    AchievementCategory `db:"category" json:"category"`
	Threshold   int                 `db:"threshold" json:"threshold"`
	Version     int                 `db:"version" json:"version"`
}

// AchievementCatalog is ordered by category then threshold.
var AchievementCatalog = []AchievementDefinition{
	{Code: "level_5", Name: "Beginner", Description: "Reach level 5", Icon: "level-5", Category: CategoryLevel, Threshold: 5, Version: 1},
	{Code: "level_10", Name: "Apprentice", Description: "Reach level 10", Icon: "level-10", Category: CategoryLevel, Threshold: 10, Version: 1},
	{Code: "level_25", Name: "Expert", Description: "Reach level 25", Icon: "level-25", Category: CategoryLevel, Threshold: 25, Version: 1},
	{Code: "level_50", Name: "Master", Description: "Reach level 50", Icon: "level-50", Category: CategoryLevel, Threshold: 50, Version: 1},
	{Code: "tasks_10", Name: "Productive", Description: "Complete 10 tasks", Icon: "tasks-10", Category: CategoryTasks, Threshold: 10, Version: 1},
	{Code: "tasks_50", Name: "Worker", Description: "Complete 50 tasks", Icon: "tasks-50", Category: CategoryTasks, Threshold: 50, Version: 1},
	{Code: "tasks_100", Name: "Unstoppable", Description: "Complete 100 tasks", Icon: "tasks-100", Category: CategoryTasks, Threshold: 100, Version: 1},
	{Code: "tasks_500", Name: "Legend", Description: "Complete 500 tasks", Icon: "tasks-500", Category: CategoryTasks, Threshold: 500, Version: 1},
	{Code: "equipment_5", Name: "Collector", Description: "Own 5 pieces of equipment", Icon: "equipment-5", Category: CategoryEquipment, Threshold: 5, Version: 1},
	{Code: "equipment_15", Name: "Armory", Description: "Own 15 pieces of equipment", Icon: "equipment-15", Category: CategoryEquipment, Threshold: 15, Version: 1},
}

// Achievement is the per-user instance of a definition.
// IsUnlocked only moves false -> true and UnlockedAt is set exactly once.
type Achievement struct {
	ID             int64               `db:"id" json:"id"`
	UserID         int64               `db:"user_id" json:"userId"`
	DefinitionCode string              `db:"definition_code" json:"code"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Icon           string              `json:"icon"`
	Category       AchievementCategory `json:"category"`
	Threshold      int                 `json:"threshold"`
	IsUnlocked     bool                `db:"is_unlocked" json:"isUnlocked"`
	UnlockedAt     *time.Time          `db:"unlocked_at" json:"unlockedAt,omitempty"`
	CreatedAt      time.Time           `db:"created_at" json:"createdAt"`
}

// Apply copies definition fields onto the row.
func (a *Achievement) Apply(def AchievementDefinition) {
	a.DefinitionCode = def.Code
	a.Name = def.Name
	a.Description = def.Description
	a.Icon = def.Icon
	a.Category = def.Category
	a.Threshold = def.Threshold
}

// AchievementCheck is the delta of one check call. Degraded means some
// category could not be evaluated; Unlocked still lists every unlock that
// was committed.
type AchievementCheck struct {
	Unlocked []*Achievement `json:"unlocked"`
	Count    int            `json:"count"`
	Degraded bool           `json:"degraded,omitempty"`
}

type AchievementStats struct {
	Total      int `json:"total"`
	Unlocked   int `json:"unlocked"`
	Percentage int `json:"percentage"`
}
