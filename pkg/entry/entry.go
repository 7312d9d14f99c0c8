package entry

import (
	"time"

	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
)

// BudgetEntry is the planned allocation of money to one category within one
// month. At most one entry exists per (month, category) pair.
type BudgetEntry struct {
	ID         string
	MonthID    string
	CategoryID string
	Budgeted   budget.Money
	DueDay     *budget.DueDay
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BudgetEntryWithCategory is the entry projection with the category inlined,
// as served by listings and summaries.
type BudgetEntryWithCategory struct {
	ID        string
	Category  category.Summary
	Budgeted  budget.Money
	DueDay    *budget.DueDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewBudgetEntry struct {
	MonthID    string
	CategoryID string
	Budgeted   budget.Money
	DueDay     *budget.DueDay
}
