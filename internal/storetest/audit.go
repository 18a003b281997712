package storetest

import (
	"context"

	"questline/internal/domain"
)

type Audit struct{ s *Store }

func (a *Audit) Create(_ context.Context, log *domain.AuditLog) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	log.ID = a.s.nextID()
	log.CreatedAt = a.s.now()
	cp := *log
	a.s.audit = append(a.s.audit, &cp)
	return nil
}

func (a *Audit) recent(limit int, keep func(*domain.AuditLog) bool) []*domain.AuditLog {
	res := []*domain.AuditLog{}
	for i := len(a.s.audit) - 1; i >= 0 && len(res) < limit; i-- {
		if keep(a.s.audit[i]) {
			cp := *a.s.audit[i]
			res = append(res, &cp)
		}
	}
	return res
}

func (a *Audit) GetRecent(_ context.Context, limit int) ([]*domain.AuditLog, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.recent(limit, func(*domain.AuditLog) bool { return true }), nil
}

func (a *Audit) GetByCategory(_ context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.recent(limit, func(l *domain.AuditLog) bool { return l.Category == category }), nil
}
