package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/category"
	"github.com/koperta/koperta/pkg/entry"
	"github.com/koperta/koperta/pkg/month"
	"github.com/koperta/koperta/pkg/summary"
	"github.com/koperta/koperta/pkg/transaction"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	CategoryRepo    category.CategoryRepo
	CategoryService category.CategoryService
	CategoryHandler *category.CategoryHandler

	MonthRepo    month.MonthRepo
	MonthService month.MonthService
	MonthHandler *month.MonthHandler

	EntryRepo    entry.EntryRepo
	EntryService entry.EntryService
	EntryHandler *entry.EntryHandler

	TransactionRepo    transaction.TransactionRepo
	TransactionService transaction.TransactionService
	TransactionHandler *transaction.TransactionHandler

	SummaryService summary.SummaryService
	SummaryHandler *summary.SummaryHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.CategoryRepo = category.NewCategoryRepo(db, deps.Clock)
	deps.CategoryService = category.NewCategoryService(deps.CategoryRepo)
	deps.CategoryHandler = category.NewCategoryHandler(deps.CategoryService)

	deps.MonthRepo = month.NewMonthRepo(db, deps.Clock)
	deps.EntryRepo = entry.NewEntryRepo(db, deps.Clock)

	deps.MonthService = month.NewMonthService(deps.MonthRepo, deps.EntryRepo)
	deps.MonthHandler = month.NewMonthHandler(deps.MonthService)

	deps.EntryService = entry.NewEntryService(deps.EntryRepo, deps.MonthRepo, deps.CategoryRepo)
	deps.EntryHandler = entry.NewEntryHandler(deps.EntryService)

	deps.TransactionRepo = transaction.NewTransactionRepo(db, deps.Clock)
	deps.TransactionService = transaction.NewTransactionService(deps.TransactionRepo, deps.EntryRepo)
	deps.TransactionHandler = transaction.NewTransactionHandler(deps.TransactionService)

	deps.SummaryService = summary.NewSummaryService(deps.MonthRepo, deps.EntryRepo, deps.TransactionRepo)
	deps.SummaryHandler = summary.NewSummaryHandler(deps.SummaryService)

	return deps
}
