package entry

import (
	"context"
	"sort"
	"time"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
	"github.com/oklog/ulid/v2"
)

// StubEntryRepo is an in-memory EntryRepo for tests. It resolves category
// summaries through the category stub and enforces the (month, category)
// uniqueness constraint the database schema does.
type StubEntryRepo struct {
	Clock             utils.Clock
	entries           map[string]BudgetEntry
	categories        *category.StubCategoryRepo
	transactionCounts map[string]int64
}

func NewStubEntryRepo(categories *category.StubCategoryRepo) *StubEntryRepo {
	return &StubEntryRepo{
		Clock:             utils.SystemClock{},
		entries:           map[string]BudgetEntry{},
		categories:        categories,
		transactionCounts: map[string]int64{},
	}
}

func (s *StubEntryRepo) Cleanup() {
	s.entries = map[string]BudgetEntry{}
	s.transactionCounts = map[string]int64{}
}

// SetTransactionCount fakes transactions referencing the entry.
func (s *StubEntryRepo) SetTransactionCount(entryID string, count int64) {
	s.transactionCounts[entryID] = count
}

func (s *StubEntryRepo) ListByMonth(ctx context.Context, monthID string) ([]BudgetEntryWithCategory, error) {
	var entries []BudgetEntryWithCategory
	for _, e := range s.entries {
		if e.MonthID != monthID {
			continue
		}
		withCategory, err := s.withCategory(ctx, e)
		if err != nil {
			return nil, err
		}
		entries = append(entries, withCategory)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.DueDay == nil && b.DueDay == nil:
			return a.Category.Name.String() < b.Category.Name.String()
		case a.DueDay == nil:
			return false
		case b.DueDay == nil:
			return true
		case a.DueDay.Value() != b.DueDay.Value():
			return a.DueDay.Value() < b.DueDay.Value()
		default:
			return a.Category.Name.String() < b.Category.Name.String()
		}
	})
	return entries, nil
}

func (s *StubEntryRepo) FindByID(ctx context.Context, id string) (*BudgetEntry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *StubEntryRepo) Create(ctx context.Context, e NewBudgetEntry) (BudgetEntryWithCategory, error) {
	for _, existing := range s.entries {
		if existing.MonthID == e.MonthID && existing.CategoryID == e.CategoryID {
			return BudgetEntryWithCategory{}, CategoryAlreadyInMonthError{
				CategoryID: e.CategoryID,
				Month:      e.MonthID,
			}
		}
	}
	now := s.Clock.Now().UTC().Truncate(time.Millisecond)
	created := BudgetEntry{
		ID:         ulid.Make().String(),
		MonthID:    e.MonthID,
		CategoryID: e.CategoryID,
		Budgeted:   e.Budgeted,
		DueDay:     e.DueDay,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.entries[created.ID] = created
	return s.withCategory(ctx, created)
}

func (s *StubEntryRepo) Update(ctx context.Context, id string, budgeted *budget.Money, dueDay patch.Field[budget.DueDay]) (BudgetEntryWithCategory, error) {
	e, ok := s.entries[id]
	if !ok {
		return BudgetEntryWithCategory{}, ErrEntryNotFound
	}
	if budgeted != nil {
		e.Budgeted = *budgeted
	}
	if dueDay.IsClear() {
		e.DueDay = nil
	} else if value, ok := dueDay.Value(); ok {
		e.DueDay = &value
	}
	e.UpdatedAt = s.Clock.Now().UTC().Truncate(time.Millisecond)
	s.entries[id] = e
	return s.withCategory(ctx, e)
}

func (s *StubEntryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := s.entries[id]; !ok {
		return ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *StubEntryRepo) TransactionCount(ctx context.Context, entryID string) (int64, error) {
	return s.transactionCounts[entryID], nil
}

func (s *StubEntryRepo) CopyEntries(ctx context.Context, fromMonthID, toMonthID string) (int, error) {
	// Collect first; inserting while ranging over the map is unspecified.
	var toCopy []BudgetEntry
	for _, e := range s.entries {
		if e.MonthID == fromMonthID {
			toCopy = append(toCopy, e)
		}
	}
	now := s.Clock.Now().UTC().Truncate(time.Millisecond)
	for _, e := range toCopy {
		duplicate := BudgetEntry{
			ID:         ulid.Make().String(),
			MonthID:    toMonthID,
			CategoryID: e.CategoryID,
			Budgeted:   e.Budgeted,
			DueDay:     e.DueDay,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.entries[duplicate.ID] = duplicate
	}
	return len(toCopy), nil
}

func (s *StubEntryRepo) withCategory(ctx context.Context, e BudgetEntry) (BudgetEntryWithCategory, error) {
	found, err := s.categories.FindByID(ctx, e.CategoryID)
	if err != nil {
		return BudgetEntryWithCategory{}, err
	}
	summary := category.Summary{ID: e.CategoryID}
	if found != nil {
		summary = category.Summary{ID: found.ID, Name: found.Name, Label: found.Label}
	}
	return BudgetEntryWithCategory{
		ID:        e.ID,
		Category:  summary,
		Budgeted:  e.Budgeted,
		DueDay:    e.DueDay,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}, nil
}
