// Package storetest is an in-memory implementation of the service store
// contracts. One mutex guards all state, which gives every operation the
// atomicity the Postgres repositories get from transactions.
package storetest

import (
	"sort"
	"sync"
	"time"

	"questline/internal/clock"
	"questline/internal/domain"
)

type Store struct {
	mu    sync.Mutex
	clock clock.Clock
	seq   int64

	users        map[int64]*domain.User
	wallets      map[int64]*domain.Wallet // by user id
	transactions []*domain.Transaction
	tasks        map[int64]*domain.Task
	completions  []*domain.TaskCompletion
	equipment    map[int64]*domain.Equipment
	owned        []*domain.UserEquipment
	definitions  map[string]domain.AchievementDefinition
	achievements []*domain.Achievement
	audit        []*domain.AuditLog

	// Fault injection hooks. A non-nil return aborts the operation.
	FailApply  func(userID int64, kind domain.TransactionKind, amount int64) error
	FailUnlock func(userID int64, code string) error
	FailCount  func(userID int64) error
}

// New returns an empty store. A nil clock means the system clock.
func New(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.System()
	}
	return &Store{
		clock:       clk,
		users:       map[int64]*domain.User{},
		wallets:     map[int64]*domain.Wallet{},
		tasks:       map[int64]*domain.Task{},
		equipment:   map[int64]*domain.Equipment{},
		definitions: map[string]domain.AchievementDefinition{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) now() time.Time {
	return s.clock.Now()
}

func (s *Store) Users() *Users               { return &Users{s} }
func (s *Store) Wallets() *Wallets           { return &Wallets{s} }
func (s *Store) Tasks() *Tasks               { return &Tasks{s} }
func (s *Store) Equipment() *Equipment       { return &Equipment{s} }
func (s *Store) Achievements() *Achievements { return &Achievements{s} }
func (s *Store) Audit() *Audit               { return &Audit{s} }
func (s *Store) Stats() *Stats               { return &Stats{s} }

// Transactions returns a copy of the ledger for a user, oldest first.
func (s *Store) Transactions(userID int64) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []domain.Transaction
	for _, t := range s.transactions {
		if t.UserID == userID {
			res = append(res, *t)
		}
	}
	return res
}

// AuditEntries returns a copy of every audit entry, oldest first.
func (s *Store) AuditEntries() []domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]domain.AuditLog, 0, len(s.audit))
	for _, a := range s.audit {
		res = append(res, *a)
	}
	return res
}

func sortByID[T any](xs []T, id func(T) int64, desc bool) {
	sort.SliceStable(xs, func(i, j int) bool {
		if desc {
			return id(xs[i]) > id(xs[j])
		}
		return id(xs[i]) < id(xs[j])
	})
}

func page[T any](xs []T, offset, limit int) []T {
	if offset >= len(xs) {
		return []T{}
	}
	end := offset + limit
	if end > len(xs) {
		end = len(xs)
	}
	return xs[offset:end]
}
