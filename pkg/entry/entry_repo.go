package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
)

var ErrEntryNotFound = errors.New("budget entry not found")

// CategoryAlreadyInMonthError is returned when a second entry for the same
// category is created within one month.
type CategoryAlreadyInMonthError struct {
	CategoryID string
	Month      string
}

func (e CategoryAlreadyInMonthError) Error() string {
	return fmt.Sprintf("category %s already has an entry in month %s", e.CategoryID, e.Month)
}

type EntryRepo interface {
	// ListByMonth returns the month's entries with categories inlined,
	// ordered by due day ascending (entries without a due day last), then
	// category name ascending.
	ListByMonth(ctx context.Context, monthID string) ([]BudgetEntryWithCategory, error)
	FindByID(ctx context.Context, id string) (*BudgetEntry, error)
	Create(ctx context.Context, e NewBudgetEntry) (BudgetEntryWithCategory, error)
	Update(ctx context.Context, id string, budgeted *budget.Money, dueDay patch.Field[budget.DueDay]) (BudgetEntryWithCategory, error)
	Delete(ctx context.Context, id string) error
	TransactionCount(ctx context.Context, entryID string) (int64, error)
	CopyEntries(ctx context.Context, fromMonthID, toMonthID string) (int, error)
}

type EntryRepoImpl struct {
	db    *pgxpool.Pool
	clock utils.Clock
}

func NewEntryRepo(db *pgxpool.Pool, clock utils.Clock) *EntryRepoImpl {
	return &EntryRepoImpl{db: db, clock: clock}
}

const entryWithCategoryColumns = `e.id, e.category_id, c.name, c.label, e.budgeted, e.due_day, e.created_at, e.updated_at`

func (r *EntryRepoImpl) ListByMonth(ctx context.Context, monthID string) ([]BudgetEntryWithCategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+entryWithCategoryColumns+`
		 FROM budget_entries e
		 JOIN categories c ON e.category_id = c.id
		 WHERE e.month_id = $1
		 ORDER BY e.due_day ASC NULLS LAST, c.name ASC`,
		monthID,
	)
	if err != nil {
		err := fmt.Errorf("could not query budget entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []BudgetEntryWithCategory
	for rows.Next() {
		e, err := scanEntryWithCategory(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over budget entries: %w", err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

func (r *EntryRepoImpl) FindByID(ctx context.Context, id string) (*BudgetEntry, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, month_id, category_id, budgeted, due_day, created_at, updated_at
		 FROM budget_entries WHERE id = $1`, id)

	var (
		e        BudgetEntry
		budgeted int64
		dueDay   *int
	)
	err := row.Scan(&e.ID, &e.MonthID, &e.CategoryID, &budgeted, &dueDay, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not scan budget entry: %w", err)
		log.Error(err)
		return nil, err
	}
	e.Budgeted = budget.NewMoney(budgeted)
	if e.DueDay, err = dueDayFromStored(dueDay); err != nil {
		log.Error(err)
		return nil, err
	}
	return &e, nil
}

func (r *EntryRepoImpl) Create(ctx context.Context, e NewBudgetEntry) (BudgetEntryWithCategory, error) {
	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	id := ulid.Make().String()

	_, err := r.db.Exec(ctx,
		`INSERT INTO budget_entries (id, month_id, category_id, budgeted, due_day, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, e.MonthID, e.CategoryID, e.Budgeted.Value(), dueDayToStored(e.DueDay), now, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return BudgetEntryWithCategory{}, CategoryAlreadyInMonthError{
				CategoryID: e.CategoryID,
				Month:      r.monthLabel(ctx, e.MonthID),
			}
		}
		err := fmt.Errorf("could not insert budget entry: %w", err)
		log.Error(err)
		return BudgetEntryWithCategory{}, err
	}

	return r.fetchWithCategory(ctx, id)
}

func (r *EntryRepoImpl) Update(ctx context.Context, id string, budgeted *budget.Money, dueDay patch.Field[budget.DueDay]) (BudgetEntryWithCategory, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return BudgetEntryWithCategory{}, err
	}
	if existing == nil {
		return BudgetEntryWithCategory{}, ErrEntryNotFound
	}

	if budgeted != nil {
		existing.Budgeted = *budgeted
	}
	if dueDay.IsClear() {
		existing.DueDay = nil
	} else if value, ok := dueDay.Value(); ok {
		existing.DueDay = &value
	}
	updatedAt := r.clock.Now().UTC().Truncate(time.Millisecond)

	_, err = r.db.Exec(ctx,
		`UPDATE budget_entries SET budgeted = $1, due_day = $2, updated_at = $3 WHERE id = $4`,
		existing.Budgeted.Value(), dueDayToStored(existing.DueDay), updatedAt, id,
	)
	if err != nil {
		err := fmt.Errorf("could not update budget entry: %w", err)
		log.Error(err)
		return BudgetEntryWithCategory{}, err
	}

	return r.fetchWithCategory(ctx, id)
}

func (r *EntryRepoImpl) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM budget_entries WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete budget entry: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepoImpl) TransactionCount(ctx context.Context, entryID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE entry_id = $1`, entryID).Scan(&count)
	if err != nil {
		err := fmt.Errorf("could not count transactions for entry %s: %w", entryID, err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}

// CopyEntries duplicates all entries of fromMonthID into toMonthID under
// fresh ids and timestamps, inside one database transaction.
func (r *EntryRepoImpl) CopyEntries(ctx context.Context, fromMonthID, toMonthID string) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT category_id, budgeted, due_day FROM budget_entries WHERE month_id = $1`,
		fromMonthID,
	)
	if err != nil {
		err := fmt.Errorf("could not list entries for copy: %w", err)
		log.Error(err)
		return 0, err
	}

	type entryToCopy struct {
		categoryID string
		budgeted   int64
		dueDay     *int
	}
	var toCopy []entryToCopy
	for rows.Next() {
		var e entryToCopy
		if err := rows.Scan(&e.categoryID, &e.budgeted, &e.dueDay); err != nil {
			rows.Close()
			err := fmt.Errorf("could not scan entry for copy: %w", err)
			log.Error(err)
			return 0, err
		}
		toCopy = append(toCopy, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over entries for copy: %w", err)
		log.Error(err)
		return 0, err
	}

	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	for _, e := range toCopy {
		_, err := tx.Exec(ctx,
			`INSERT INTO budget_entries (id, month_id, category_id, budgeted, due_day, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ulid.Make().String(), toMonthID, e.categoryID, e.budgeted, e.dueDay, now, now,
		)
		if err != nil {
			err := fmt.Errorf("could not copy entry for category %s: %w", e.categoryID, err)
			log.Error(err)
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		err := fmt.Errorf("could not commit entry copy: %w", err)
		log.Error(err)
		return 0, err
	}
	return len(toCopy), nil
}

func (r *EntryRepoImpl) fetchWithCategory(ctx context.Context, id string) (BudgetEntryWithCategory, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+entryWithCategoryColumns+`
		 FROM budget_entries e
		 JOIN categories c ON e.category_id = c.id
		 WHERE e.id = $1`, id)
	e, err := scanEntryWithCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetEntryWithCategory{}, ErrEntryNotFound
		}
		log.Error(err)
		return BudgetEntryWithCategory{}, err
	}
	return e, nil
}

// monthLabel resolves the "YYYY-MM" label for error context; failures here
// must not mask the original constraint violation.
func (r *EntryRepoImpl) monthLabel(ctx context.Context, monthID string) string {
	var label string
	err := r.db.QueryRow(ctx, `SELECT month FROM months WHERE id = $1`, monthID).Scan(&label)
	if err != nil {
		log.Debugf("could not resolve month %s for error context: %v", monthID, err)
		return monthID
	}
	return label
}

func scanEntryWithCategory(row pgx.Row) (BudgetEntryWithCategory, error) {
	var (
		e            BudgetEntryWithCategory
		categoryName string
		budgeted     int64
		dueDay       *int
	)
	err := row.Scan(&e.ID, &e.Category.ID, &categoryName, &e.Category.Label, &budgeted, &dueDay, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BudgetEntryWithCategory{}, err
		}
		return BudgetEntryWithCategory{}, fmt.Errorf("could not scan budget entry: %w", err)
	}
	name, err := budget.NewCategoryName(categoryName)
	if err != nil {
		return BudgetEntryWithCategory{}, fmt.Errorf("stored category name is invalid: %w", err)
	}
	e.Category.Name = name
	e.Budgeted = budget.NewMoney(budgeted)
	if e.DueDay, err = dueDayFromStored(dueDay); err != nil {
		return BudgetEntryWithCategory{}, err
	}
	return e, nil
}

func dueDayToStored(d *budget.DueDay) *int {
	if d == nil {
		return nil
	}
	value := d.Value()
	return &value
}

func dueDayFromStored(stored *int) (*budget.DueDay, error) {
	if stored == nil {
		return nil, nil
	}
	d, err := budget.NewDueDay(*stored)
	if err != nil {
		return nil, fmt.Errorf("stored due day is invalid: %w", err)
	}
	return &d, nil
}
