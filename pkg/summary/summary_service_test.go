package summary

import (
	"context"
	"fmt"
	"testing"

	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
	"github.com/koperta/koperta/pkg/entry"
	"github.com/koperta/koperta/pkg/month"
	"github.com/koperta/koperta/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var (
	categoryRepoStub    = category.NewStubCategoryRepo()
	monthRepoStub       = month.NewStubMonthRepo()
	entryRepoStub       = entry.NewStubEntryRepo(categoryRepoStub)
	transactionRepoStub = transaction.NewStubTransactionRepo(entryRepoStub)
)

var service SummaryService

func setup(t *testing.T) func() {
	service = NewSummaryService(monthRepoStub, entryRepoStub, transactionRepoStub)
	return func() {
		transactionRepoStub.Cleanup()
		entryRepoStub.Cleanup()
		monthRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
	}
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		budgeted int64
		paid     int64
		expected BudgetStatus
	}{
		{1000, 0, StatusUnpaid},
		{1000, 500, StatusUnderspent},
		{1000, 1000, StatusOnBudget},
		{1000, 1500, StatusOverspent},
		{0, 0, StatusOnBudget},
		{0, 500, StatusOverspent},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("budgeted %d paid %d is %s", c.budgeted, c.paid, c.expected), func(t *testing.T) {
			assert.Equal(t, c.expected, deriveStatus(budget.NewMoney(c.budgeted), budget.NewMoney(c.paid)))
		})
	}
}

func TestSummaryServiceImpl_GetMonthSummary(t *testing.T) {
	t.Run("should fail with not found for an unknown month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GetMonthSummary(ctx, "01JYXAMPLE0000000000000000")

		// then
		assert.ErrorIs(t, err, month.ErrMonthNotFound)
	})

	t.Run("should return an empty summary for a month without entries", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		budgetMonth, err := budget.ParseBudgetMonth("2026-01")
		require.NoError(t, err)
		created, err := monthRepoStub.Create(ctx, month.NewMonth{Month: budgetMonth})
		require.NoError(t, err)

		// when
		result, err := service.GetMonthSummary(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.Empty(t, result.Categories)
		assert.Equal(t, int64(0), result.TotalBudgeted.Value())
		assert.Equal(t, int64(0), result.TotalPaid.Value())
		assert.Equal(t, int64(0), result.Remaining.Value())
	})

	t.Run("should aggregate one month end to end", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given a category, a month, an entry and one payment
		categoryService := category.NewCategoryService(categoryRepoStub)
		monthService := month.NewMonthService(monthRepoStub, entryRepoStub)
		entryService := entry.NewEntryService(entryRepoStub, monthRepoStub, categoryRepoStub)
		transactionService := transaction.NewTransactionService(transactionRepoStub, entryRepoStub)

		foodName, err := budget.NewCategoryName("food")
		require.NoError(t, err)
		food, err := categoryService.Create(ctx, foodName, nil)
		require.NoError(t, err)

		budgetMonth, err := budget.ParseBudgetMonth("2026-01")
		require.NoError(t, err)
		january, err := monthService.Create(ctx, budgetMonth, "", false)
		require.NoError(t, err)

		due, err := budget.NewDueDay(15)
		require.NoError(t, err)
		created, err := entryService.Create(ctx, january.ID, food.ID, budget.NewMoney(10000), &due)
		require.NoError(t, err)

		date, err := budget.ParseTransactionDate("2026-01-10")
		require.NoError(t, err)
		_, err = transactionService.Create(ctx, created.ID, budget.NewMoney(5000), date, nil)
		require.NoError(t, err)

		// when
		result, err := service.GetMonthSummary(ctx, january.ID)

		// then
		require.NoError(t, err)
		assert.Equal(t, "2026-01", result.Month.String())
		assert.Equal(t, int64(10000), result.TotalBudgeted.Value())
		assert.Equal(t, int64(5000), result.TotalPaid.Value())
		assert.Equal(t, int64(5000), result.Remaining.Value())
		require.Len(t, result.Categories, 1)
		food0 := result.Categories[0]
		assert.Equal(t, "food", food0.Category.Name.String())
		assert.Equal(t, StatusUnderspent, food0.Status)
		require.NotNil(t, food0.DueDay)
		assert.Equal(t, 15, food0.DueDay.Value())
	})

	t.Run("should order categories like the entry listing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given entries with and without due days
		entryService := entry.NewEntryService(entryRepoStub, monthRepoStub, categoryRepoStub)

		budgetMonth, err := budget.ParseBudgetMonth("2026-02")
		require.NoError(t, err)
		february, err := monthRepoStub.Create(ctx, month.NewMonth{Month: budgetMonth})
		require.NoError(t, err)

		for _, c := range []struct {
			name   string
			dueDay int
		}{
			{"fun", 0},
			{"food", 15},
			{"rent", 1},
		} {
			name, err := budget.NewCategoryName(c.name)
			require.NoError(t, err)
			created, err := categoryRepoStub.Create(ctx, category.NewCategory{Name: name})
			require.NoError(t, err)
			var due *budget.DueDay
			if c.dueDay > 0 {
				d, err := budget.NewDueDay(c.dueDay)
				require.NoError(t, err)
				due = &d
			}
			_, err = entryService.Create(ctx, february.ID, created.ID, budget.NewMoney(1000), due)
			require.NoError(t, err)
		}

		// when
		result, err := service.GetMonthSummary(ctx, february.ID)

		// then
		require.NoError(t, err)
		require.Len(t, result.Categories, 3)
		assert.Equal(t, "rent", result.Categories[0].Category.Name.String())
		assert.Equal(t, "food", result.Categories[1].Category.Name.String())
		assert.Equal(t, "fun", result.Categories[2].Category.Name.String())
	})
}
