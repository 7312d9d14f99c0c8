package transaction

import (
	"context"
	"strings"
	"testing"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/koperta/koperta/pkg/category"
	"github.com/koperta/koperta/pkg/entry"
	"github.com/koperta/koperta/pkg/month"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var (
	categoryRepoStub    = category.NewStubCategoryRepo()
	monthRepoStub       = month.NewStubMonthRepo()
	entryRepoStub       = entry.NewStubEntryRepo(categoryRepoStub)
	transactionRepoStub = NewStubTransactionRepo(entryRepoStub)
)

var service TransactionService

func setup(t *testing.T) func() {
	service = NewTransactionService(transactionRepoStub, entryRepoStub)
	return func() {
		transactionRepoStub.Cleanup()
		entryRepoStub.Cleanup()
		monthRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
	}
}

func givenEntry(t *testing.T, monthValue, categoryName string) entry.BudgetEntryWithCategory {
	t.Helper()
	name, err := budget.NewCategoryName(categoryName)
	require.NoError(t, err)
	createdCategory, err := categoryRepoStub.Create(ctx, category.NewCategory{Name: name})
	require.NoError(t, err)

	budgetMonth, err := budget.ParseBudgetMonth(monthValue)
	require.NoError(t, err)
	createdMonth, err := monthRepoStub.Create(ctx, month.NewMonth{Month: budgetMonth})
	require.NoError(t, err)

	createdEntry, err := entryRepoStub.Create(ctx, entry.NewBudgetEntry{
		MonthID:    createdMonth.ID,
		CategoryID: createdCategory.ID,
		Budgeted:   budget.NewMoney(10000),
	})
	require.NoError(t, err)
	return createdEntry
}

func mustDate(t *testing.T, s string) budget.TransactionDate {
	t.Helper()
	date, err := budget.ParseTransactionDate(s)
	require.NoError(t, err)
	return date
}

func title(s string) *string {
	return &s
}

func TestTransactionServiceImpl_Create(t *testing.T) {
	t.Run("should create a transaction for an existing entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")

		// when
		created, err := service.Create(ctx, e.ID, budget.NewMoney(5000), mustDate(t, "2026-01-10"), title("groceries"))

		// then
		require.NoError(t, err)
		assert.Len(t, created.ID, 26)
		assert.Equal(t, int64(5000), created.Amount.Value())
		assert.Equal(t, "2026-01-10", created.Date.String())
		require.NotNil(t, created.Title)
		assert.Equal(t, "groceries", *created.Title)
	})

	t.Run("should reject a negative amount before touching the store", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, "01JYXAMPLE0000000000000000", budget.NewMoney(-1), mustDate(t, "2026-01-10"), nil)

		// then
		var invalidAmount InvalidAmountError
		require.ErrorAs(t, err, &invalidAmount)
		assert.Equal(t, int64(-1), invalidAmount.Value)
	})

	t.Run("should fail with entry not found for an unknown entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, "01JYXAMPLE0000000000000000", budget.NewMoney(5000), mustDate(t, "2026-01-10"), nil)

		// then
		assert.ErrorIs(t, err, entry.ErrEntryNotFound)
	})

	t.Run("should trim the title and drop it when blank", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")

		// when
		trimmed, err := service.Create(ctx, e.ID, budget.NewMoney(100), mustDate(t, "2026-01-10"), title("  groceries  "))
		require.NoError(t, err)
		blank, err := service.Create(ctx, e.ID, budget.NewMoney(200), mustDate(t, "2026-01-11"), title("   "))
		require.NoError(t, err)

		// then
		require.NotNil(t, trimmed.Title)
		assert.Equal(t, "groceries", *trimmed.Title)
		assert.Nil(t, blank.Title)
	})

	t.Run("should accept a 50 character title and reject 51", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")

		// when
		_, err := service.Create(ctx, e.ID, budget.NewMoney(100), mustDate(t, "2026-01-10"), title(strings.Repeat("a", 50)))
		require.NoError(t, err)
		_, err = service.Create(ctx, e.ID, budget.NewMoney(100), mustDate(t, "2026-01-11"), title(strings.Repeat("a", 51)))

		// then
		var tooLong TitleTooLongError
		require.ErrorAs(t, err, &tooLong)
		assert.Equal(t, 51, tooLong.Length)
		assert.Equal(t, 50, tooLong.Max)
	})
}

func TestTransactionServiceImpl_Update(t *testing.T) {
	t.Run("should update supplied fields and keep the rest", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		created, err := service.Create(ctx, e.ID, budget.NewMoney(5000), mustDate(t, "2026-01-10"), title("groceries"))
		require.NoError(t, err)

		// when
		amount := budget.NewMoney(7500)
		updated, err := service.Update(ctx, created.ID, TransactionUpdate{Amount: &amount})

		// then
		require.NoError(t, err)
		assert.Equal(t, int64(7500), updated.Amount.Value())
		assert.Equal(t, "2026-01-10", updated.Date.String())
		require.NotNil(t, updated.Title)
		assert.Equal(t, "groceries", *updated.Title)
	})

	t.Run("should clear the title", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		created, err := service.Create(ctx, e.ID, budget.NewMoney(5000), mustDate(t, "2026-01-10"), title("groceries"))
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, created.ID, TransactionUpdate{Title: patch.Clear[string]()})

		// then
		require.NoError(t, err)
		assert.Nil(t, updated.Title)
	})

	t.Run("should clear a title set to whitespace", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		created, err := service.Create(ctx, e.ID, budget.NewMoney(5000), mustDate(t, "2026-01-10"), title("groceries"))
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, created.ID, TransactionUpdate{Title: patch.Set("   ")})

		// then
		require.NoError(t, err)
		assert.Nil(t, updated.Title)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		created, err := service.Create(ctx, e.ID, budget.NewMoney(5000), mustDate(t, "2026-01-10"), nil)
		require.NoError(t, err)

		// when
		amount := budget.NewMoney(-100)
		_, err = service.Update(ctx, created.ID, TransactionUpdate{Amount: &amount})

		// then
		var invalidAmount InvalidAmountError
		assert.ErrorAs(t, err, &invalidAmount)
	})

	t.Run("should fail with not found for an unknown id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Update(ctx, "01JYXAMPLE0000000000000000", TransactionUpdate{})

		// then
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestTransactionServiceImpl_ListByMonth(t *testing.T) {
	t.Run("should list the month's transactions newest first", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		_, err := service.Create(ctx, e.ID, budget.NewMoney(100), mustDate(t, "2026-01-05"), nil)
		require.NoError(t, err)
		_, err = service.Create(ctx, e.ID, budget.NewMoney(200), mustDate(t, "2026-01-20"), nil)
		require.NoError(t, err)
		_, err = service.Create(ctx, e.ID, budget.NewMoney(300), mustDate(t, "2026-01-12"), nil)
		require.NoError(t, err)

		// when
		stored, err := entryRepoStub.FindByID(ctx, e.ID)
		require.NoError(t, err)
		transactions, err := service.ListByMonth(ctx, stored.MonthID)

		// then
		require.NoError(t, err)
		require.Len(t, transactions, 3)
		assert.Equal(t, "2026-01-20", transactions[0].Date.String())
		assert.Equal(t, "2026-01-12", transactions[1].Date.String())
		assert.Equal(t, "2026-01-05", transactions[2].Date.String())
	})
}

func TestTransactionServiceImpl_ListByEntry(t *testing.T) {
	t.Run("should paginate the entry's transactions", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		for _, date := range []string{"2026-01-01", "2026-01-02", "2026-01-03"} {
			_, err := service.Create(ctx, e.ID, budget.NewMoney(100), mustDate(t, date), nil)
			require.NoError(t, err)
		}

		// when
		page, err := service.ListByEntry(ctx, e.ID, 2, 1)

		// then
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "2026-01-02", page[0].Date.String())
		assert.Equal(t, "2026-01-01", page[1].Date.String())
	})
}

func TestTransactionServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		e := givenEntry(t, "2026-01", "food")
		created, err := service.Create(ctx, e.ID, budget.NewMoney(5000), mustDate(t, "2026-01-10"), nil)
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, created.ID)

		// then
		require.NoError(t, err)
		remaining, err := service.ListByEntry(ctx, e.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("should fail with not found for an unknown id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.Delete(ctx, "01JYXAMPLE0000000000000000")

		// then
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}
