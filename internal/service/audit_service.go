package service

import (
	"context"

	"questline/internal/domain"
	"questline/internal/logger"
)

// AuditService handles audit logging. Failures are logged, never returned.
type AuditService struct {
	repo AuditStore
}

func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. userID 0 means a system action.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	s.LogWithRequest(ctx, userID, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID int64, action, category, ip, userAgent string, details map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	if details == nil {
		details = make(map[string]interface{})
	}
	entry := &domain.AuditLog{
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}
	if userID != 0 {
		entry.UserID = &userID
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

func (s *AuditService) LogRegister(ctx context.Context, userID int64, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionRegister, domain.AuditCategoryAuth, ip, userAgent, nil)
}

func (s *AuditService) LogLogin(ctx context.Context, userID int64, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

func (s *AuditService) LogPurchase(ctx context.Context, userID int64, item *domain.Equipment) {
	s.Log(ctx, userID, domain.AuditActionPurchase, domain.AuditCategoryShop, map[string]interface{}{
		"equipment_id": item.ID,
		"name":         item.Name,
		"price":        item.Price,
	})
}

func (s *AuditService) LogEquip(ctx context.Context, userID int64, ue *domain.UserEquipment) {
	action := domain.AuditActionUnequip
	if ue.IsEquipped {
		action = domain.AuditActionEquip
	}
	s.Log(ctx, userID, action, domain.AuditCategoryShop, map[string]interface{}{
		"user_equipment_id": ue.ID,
		"equipment_id":      ue.EquipmentID,
	})
}

func (s *AuditService) LogSweep(ctx context.Context, sweep domain.DailySweep, forced bool) {
	action := domain.AuditActionDailySweep
	if forced {
		action = domain.AuditActionForceReset
	}
	s.Log(ctx, 0, action, domain.AuditCategorySchedule, map[string]interface{}{
		"timezone":    sweep.Timezone,
		"local_day":   sweep.LocalDay,
		"users":       sweep.Users,
		"daily_tasks": sweep.DailyTasks,
	})
}

// LogAdminAction logs an admin action
func (s *AuditService) LogAdminAction(ctx context.Context, adminID int64, action string, targetUserID int64, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["admin_id"] = adminID
	s.Log(ctx, targetUserID, action, domain.AuditCategoryAdmin, details)
}

// GetRecentLogs returns recent audit logs
func (s *AuditService) GetRecentLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetRecent(ctx, limit)
}

// GetLogsByCategory returns logs by category
func (s *AuditService) GetLogsByCategory(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	return s.repo.GetByCategory(ctx, category, limit)
}
