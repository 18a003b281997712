package storetest

import (
	"context"
	"fmt"

	"questline/internal/domain"
)

type Wallets struct{ s *Store }

func (w *Wallets) GetWallet(_ context.Context, userID int64) (*domain.Wallet, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	wallet, ok := w.s.wallets[userID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	cp := *wallet
	return &cp, nil
}

func (w *Wallets) Apply(_ context.Context, userID int64, kind domain.TransactionKind, amount int64, description string) (*domain.Wallet, *domain.Transaction, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return w.s.applyLocked(userID, kind, amount, description)
}

func (s *Store) applyLocked(userID int64, kind domain.TransactionKind, amount int64, description string) (*domain.Wallet, *domain.Transaction, error) {
	if amount <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}
	if s.FailApply != nil {
		if err := s.FailApply(userID, kind, amount); err != nil {
			return nil, nil, err
		}
	}
	wallet, ok := s.wallets[userID]
	if !ok {
		return nil, nil, domain.ErrWalletNotFound
	}

	switch kind {
	case domain.TransactionIncome:
		wallet.Coins += amount
	case domain.TransactionExpense:
		if wallet.Coins < amount {
			return nil, nil, domain.ErrInsufficientFunds
		}
		wallet.Coins -= amount
	default:
		return nil, nil, fmt.Errorf("%w: unknown transaction kind %q", domain.ErrInvalidArgument, kind)
	}
	now := s.now()
	wallet.UpdatedAt = now

	t := &domain.Transaction{
		ID:          s.nextID(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	}
	s.transactions = append(s.transactions, t)

	wcp, tcp := *wallet, *t
	return &wcp, &tcp, nil
}

func (w *Wallets) ListTransactions(_ context.Context, userID int64, offset, limit int) ([]*domain.Transaction, int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	var all []*domain.Transaction
	for _, t := range w.s.transactions {
		if t.UserID == userID {
			cp := *t
			all = append(all, &cp)
		}
	}
	sortByID(all, func(t *domain.Transaction) int64 { return t.ID }, true)
	return page(all, offset, limit), len(all), nil
}

func (w *Wallets) Summary(_ context.Context, userID int64) (*domain.WalletSummary, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	wallet, ok := w.s.wallets[userID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	sum := &domain.WalletSummary{Balance: wallet.Coins}
	for _, t := range w.s.transactions {
		if t.UserID != userID {
			continue
		}
		sum.TransactionCount++
		if t.Kind == domain.TransactionIncome {
			sum.TotalIncome += t.Amount
		} else {
			sum.TotalExpense += t.Amount
		}
	}
	return sum, nil
}
