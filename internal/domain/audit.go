package domain

import "time"

// AuditLog records an important action for later review.
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    *int64                 `db:"user_id" json:"userId,omitempty"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"createdAt"`
}

const (
	AuditCategoryAuth     = "auth"
	AuditCategoryShop     = "shop"
	AuditCategoryTasks    = "tasks"
	AuditCategoryAdmin    = "admin"
	AuditCategorySchedule = "schedule"
)

const (
	AuditActionRegister   = "register"
	AuditActionLogin      = "login"
	AuditActionPurchase   = "purchase"
	AuditActionEquip      = "equip"
	AuditActionUnequip    = "unequip"
	AuditActionDailySweep = "daily_sweep"
	AuditActionForceReset = "force_reset"
	AuditActionAddCoins   = "admin_add_coins"
	AuditActionCatalogAdd = "admin_catalog_add"
)
