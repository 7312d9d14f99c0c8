// Package summary aggregates one month's budget entries and their
// transactions into per-category totals with a derived budget status.
package summary

import (
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
)

type BudgetStatus string

const (
	StatusUnpaid     BudgetStatus = "unpaid"
	StatusUnderspent BudgetStatus = "underspent"
	StatusOnBudget   BudgetStatus = "on_budget"
	StatusOverspent  BudgetStatus = "overspent"
)

// CategoryBudgetSummary is one month's totals for a single budget entry.
type CategoryBudgetSummary struct {
	EntryID   string
	Category  category.Summary
	Budgeted  budget.Money
	Paid      budget.Money
	Remaining budget.Money
	DueDay    *budget.DueDay
	Status    BudgetStatus
}

// MonthSummary is the full aggregation served for one month.
type MonthSummary struct {
	MonthID       string
	Month         budget.BudgetMonth
	TotalBudgeted budget.Money
	TotalPaid     budget.Money
	Remaining     budget.Money
	Categories    []CategoryBudgetSummary
}

// deriveStatus classifies a (budgeted, paid) pair. The cases are evaluated
// in order; the first match wins.
func deriveStatus(budgeted, paid budget.Money) BudgetStatus {
	b, p := budgeted.Value(), paid.Value()
	switch {
	case b == 0 && p == 0:
		return StatusOnBudget
	case p == 0 && b > 0:
		return StatusUnpaid
	case p > 0 && p < b:
		return StatusUnderspent
	case p == b:
		return StatusOnBudget
	default:
		return StatusOverspent
	}
}
