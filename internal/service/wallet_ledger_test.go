package service

import (
	"sync"
	"sync/atomic"
	"testing"

	"questline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCreditAndDebit(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	before := len(f.store.Transactions(u.ID))

	w, err := f.ledger.Credit(f.ctx, u.ID, 40, "bonus")
	require.NoError(t, err)
	assert.Equal(t, int64(140), w.Coins)

	w, err = f.ledger.Debit(f.ctx, u.ID, 90, "spend")
	require.NoError(t, err)
	assert.Equal(t, int64(50), w.Coins)

	txs := f.store.Transactions(u.ID)[before:]
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TransactionIncome, txs[0].Kind)
	assert.Equal(t, int64(40), txs[0].Amount)
	assert.Equal(t, domain.TransactionExpense, txs[1].Kind)
	assert.Equal(t, int64(-90), txs[1].Signed())
}

func TestLedgerRejectsOverdraft(t *testing.T) {
	f := newFixture(t)
	u := f.user(30)
	before := len(f.store.Transactions(u.ID))

	ok, err := f.ledger.HasSufficientFunds(f.ctx, u.ID, 31)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.ledger.Debit(f.ctx, u.ID, 31, "too much")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(30), f.balance(u.ID))
	assert.Len(t, f.store.Transactions(u.ID), before)

	ok, err = f.ledger.HasSufficientFunds(f.ctx, u.ID, 30)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)

	for _, amount := range []int64{0, -5} {
		_, err := f.ledger.Credit(f.ctx, u.ID, amount, "x")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		_, err = f.ledger.Debit(f.ctx, u.ID, amount, "x")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	_, err := f.ledger.HasSufficientFunds(f.ctx, u.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, int64(100), f.balance(u.ID))
}

func TestLedgerConcurrentDebitsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)

	var (
		wg sync.WaitGroup
		ok atomic.Int32
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.ledger.Debit(f.ctx, u.ID, 10, "race"); err == nil {
				ok.Add(1)
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int64(0), f.balance(u.ID))
}

func TestLedgerHistoryAndSummary(t *testing.T) {
	f := newFixture(t)
	u := f.user(100)
	base := len(f.store.Transactions(u.ID))

	for i := 1; i <= 5; i++ {
		_, err := f.ledger.Credit(f.ctx, u.ID, int64(i), "credit")
		require.NoError(t, err)
	}
	_, err := f.ledger.Debit(f.ctx, u.ID, 3, "debit")
	require.NoError(t, err)

	page, total, err := f.ledger.History(f.ctx, u.ID, NewPage(1, 2))
	require.NoError(t, err)
	assert.Equal(t, base+6, total)
	require.Len(t, page, 2)
	assert.Equal(t, domain.TransactionExpense, page[0].Kind)
	assert.Greater(t, page[0].ID, page[1].ID)

	sum, err := f.ledger.Summary(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, f.balance(u.ID), sum.Balance)
	assert.Equal(t, base+6, sum.TransactionCount)
	assert.Equal(t, int64(3), sum.TotalExpense)
}

func TestNewPageClamps(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: 10}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Limit: 100}, NewPage(3, 1000))
	assert.Equal(t, 20, NewPage(3, 10).Offset())
}
