package summary

import (
	"context"

	"github.com/koperta/koperta/pkg/entry"
	"github.com/koperta/koperta/pkg/month"
	"github.com/koperta/koperta/pkg/transaction"
)

type SummaryService interface {
	// GetMonthSummary aggregates the month's entries and their paid sums
	// into per-category summaries, ordered like the entry listing.
	GetMonthSummary(ctx context.Context, monthID string) (MonthSummary, error)
}

type SummaryServiceImpl struct {
	months       month.MonthRepo
	entries      entry.EntryRepo
	transactions transaction.TransactionRepo
}

func NewSummaryService(months month.MonthRepo, entries entry.EntryRepo, transactions transaction.TransactionRepo) *SummaryServiceImpl {
	return &SummaryServiceImpl{months: months, entries: entries, transactions: transactions}
}

func (s *SummaryServiceImpl) GetMonthSummary(ctx context.Context, monthID string) (MonthSummary, error) {
	m, err := s.months.FindByID(ctx, monthID)
	if err != nil {
		return MonthSummary{}, err
	}
	if m == nil {
		return MonthSummary{}, month.ErrMonthNotFound
	}

	entries, err := s.entries.ListByMonth(ctx, monthID)
	if err != nil {
		return MonthSummary{}, err
	}

	result := MonthSummary{
		MonthID:    m.ID,
		Month:      m.Month,
		Categories: make([]CategoryBudgetSummary, 0, len(entries)),
	}
	for _, e := range entries {
		paid, err := s.transactions.SumByEntry(ctx, e.ID)
		if err != nil {
			return MonthSummary{}, err
		}
		result.Categories = append(result.Categories, CategoryBudgetSummary{
			EntryID:   e.ID,
			Category:  e.Category,
			Budgeted:  e.Budgeted,
			Paid:      paid,
			Remaining: e.Budgeted.Sub(paid),
			DueDay:    e.DueDay,
			Status:    deriveStatus(e.Budgeted, paid),
		})
		result.TotalBudgeted = result.TotalBudgeted.Add(e.Budgeted)
		result.TotalPaid = result.TotalPaid.Add(paid)
	}
	result.Remaining = result.TotalBudgeted.Sub(result.TotalPaid)
	return result, nil
}
