package entry

import (
	"context"
	"fmt"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
	"github.com/koperta/koperta/pkg/month"
)

// HasTransactionsError is returned when deleting an entry that transactions
// still reference. The entry is left untouched.
type HasTransactionsError struct {
	TransactionCount int64
}

func (e HasTransactionsError) Error() string {
	return fmt.Sprintf("budget entry has %d transactions", e.TransactionCount)
}

type EntryService interface {
	ListByMonth(ctx context.Context, monthID string) ([]BudgetEntryWithCategory, error)
	Create(ctx context.Context, monthID, categoryID string, budgeted budget.Money, dueDay *budget.DueDay) (BudgetEntryWithCategory, error)
	Update(ctx context.Context, id string, budgeted *budget.Money, dueDay patch.Field[budget.DueDay]) (BudgetEntryWithCategory, error)
	// Delete removes the entry unless transactions reference it, in which
	// case it fails with HasTransactionsError. The count check and the
	// delete are separate statements, so a transaction created in between
	// is only caught by the database's foreign key constraint.
	Delete(ctx context.Context, id string) error
}

type EntryServiceImpl struct {
	repo       EntryRepo
	months     month.MonthRepo
	categories category.CategoryRepo
}

func NewEntryService(repo EntryRepo, months month.MonthRepo, categories category.CategoryRepo) *EntryServiceImpl {
	return &EntryServiceImpl{repo: repo, months: months, categories: categories}
}

func (s *EntryServiceImpl) ListByMonth(ctx context.Context, monthID string) ([]BudgetEntryWithCategory, error) {
	if err := s.requireMonth(ctx, monthID); err != nil {
		return nil, err
	}
	return s.repo.ListByMonth(ctx, monthID)
}

func (s *EntryServiceImpl) Create(ctx context.Context, monthID, categoryID string, budgeted budget.Money, dueDay *budget.DueDay) (BudgetEntryWithCategory, error) {
	if err := s.requireMonth(ctx, monthID); err != nil {
		return BudgetEntryWithCategory{}, err
	}
	existingCategory, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return BudgetEntryWithCategory{}, err
	}
	if existingCategory == nil {
		return BudgetEntryWithCategory{}, category.ErrCategoryNotFound
	}

	return s.repo.Create(ctx, NewBudgetEntry{
		MonthID:    monthID,
		CategoryID: categoryID,
		Budgeted:   budgeted,
		DueDay:     dueDay,
	})
}

func (s *EntryServiceImpl) Update(ctx context.Context, id string, budgeted *budget.Money, dueDay patch.Field[budget.DueDay]) (BudgetEntryWithCategory, error) {
	return s.repo.Update(ctx, id, budgeted, dueDay)
}

func (s *EntryServiceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrEntryNotFound
	}

	count, err := s.repo.TransactionCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return HasTransactionsError{TransactionCount: count}
	}
	return s.repo.Delete(ctx, id)
}

func (s *EntryServiceImpl) requireMonth(ctx context.Context, monthID string) error {
	existingMonth, err := s.months.FindByID(ctx, monthID)
	if err != nil {
		return err
	}
	if existingMonth == nil {
		return month.ErrMonthNotFound
	}
	return nil
}
