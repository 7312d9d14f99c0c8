package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/entry"
	"github.com/oklog/ulid/v2"
)

// StubTransactionRepo is an in-memory TransactionRepo for tests. It resolves
// the entry-to-month relation through the entry stub.
type StubTransactionRepo struct {
	Clock        utils.Clock
	transactions map[string]Transaction
	entries      *entry.StubEntryRepo
}

func NewStubTransactionRepo(entries *entry.StubEntryRepo) *StubTransactionRepo {
	return &StubTransactionRepo{
		Clock:        utils.SystemClock{},
		transactions: map[string]Transaction{},
		entries:      entries,
	}
}

func (s *StubTransactionRepo) Cleanup() {
	s.transactions = map[string]Transaction{}
}

func (s *StubTransactionRepo) ListByMonth(ctx context.Context, monthID string) ([]Transaction, error) {
	var transactions []Transaction
	for _, t := range s.transactions {
		e, err := s.entries.FindByID(ctx, t.EntryID)
		if err != nil {
			return nil, err
		}
		if e != nil && e.MonthID == monthID {
			transactions = append(transactions, t)
		}
	}
	sortNewestFirst(transactions)
	return transactions, nil
}

func (s *StubTransactionRepo) ListByEntry(ctx context.Context, entryID string, limit, offset int) ([]Transaction, error) {
	var transactions []Transaction
	for _, t := range s.transactions {
		if t.EntryID == entryID {
			transactions = append(transactions, t)
		}
	}
	sortNewestFirst(transactions)
	if offset >= len(transactions) {
		return nil, nil
	}
	transactions = transactions[offset:]
	if limit < len(transactions) {
		transactions = transactions[:limit]
	}
	return transactions, nil
}

func (s *StubTransactionRepo) FindByID(ctx context.Context, id string) (*Transaction, error) {
	t, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *StubTransactionRepo) Create(ctx context.Context, t NewTransaction) (Transaction, error) {
	e, err := s.entries.FindByID(ctx, t.EntryID)
	if err != nil {
		return Transaction{}, err
	}
	if e == nil {
		return Transaction{}, entry.ErrEntryNotFound
	}
	now := s.Clock.Now().UTC().Truncate(time.Millisecond)
	created := Transaction{
		ID:        ulid.Make().String(),
		EntryID:   t.EntryID,
		Amount:    t.Amount,
		Date:      t.Date,
		Title:     t.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.transactions[created.ID] = created
	return created, nil
}

func (s *StubTransactionRepo) Update(ctx context.Context, id string, update TransactionUpdate) (Transaction, error) {
	t, ok := s.transactions[id]
	if !ok {
		return Transaction{}, ErrTransactionNotFound
	}
	if update.EntryID != nil {
		e, err := s.entries.FindByID(ctx, *update.EntryID)
		if err != nil {
			return Transaction{}, err
		}
		if e == nil {
			return Transaction{}, entry.ErrEntryNotFound
		}
		t.EntryID = *update.EntryID
	}
	if update.Amount != nil {
		t.Amount = *update.Amount
	}
	if update.Date != nil {
		t.Date = *update.Date
	}
	if update.Title.IsClear() {
		t.Title = nil
	} else if value, ok := update.Title.Value(); ok {
		t.Title = &value
	}
	t.UpdatedAt = s.Clock.Now().UTC().Truncate(time.Millisecond)
	s.transactions[id] = t
	return t, nil
}

func (s *StubTransactionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.transactions[id]; !ok {
		return ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *StubTransactionRepo) SumByEntry(ctx context.Context, entryID string) (budget.Money, error) {
	var amounts []budget.Money
	for _, t := range s.transactions {
		if t.EntryID == entryID {
			amounts = append(amounts, t.Amount)
		}
	}
	return budget.SumMoney(amounts), nil
}

func sortNewestFirst(transactions []Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.Date.Value().Equal(b.Date.Value()) {
			return a.Date.Value().After(b.Date.Value())
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
