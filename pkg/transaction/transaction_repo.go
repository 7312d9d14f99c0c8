package transaction

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
	"github.com/koperta/koperta/pkg/entry"
	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionUpdate carries the optional fields of a partial update. Nil
// pointer fields are left unchanged; the title uses three-state semantics.
type TransactionUpdate struct {
	EntryID *string
	Amount  *budget.Money
	Date    *budget.TransactionDate
	Title   patch.Field[string]
}

type TransactionRepo interface {
	// ListByMonth returns transactions whose entry belongs to the month,
	// newest date first, then newest created first.
	ListByMonth(ctx context.Context, monthID string) ([]Transaction, error)
	ListByEntry(ctx context.Context, entryID string, limit, offset int) ([]Transaction, error)
	FindByID(ctx context.Context, id string) (*Transaction, error)
	Create(ctx context.Context, t NewTransaction) (Transaction, error)
	Update(ctx context.Context, id string, update TransactionUpdate) (Transaction, error)
	Delete(ctx context.Context, id string) error
	SumByEntry(ctx context.Context, entryID string) (budget.Money, error)
}

type TransactionRepoImpl struct {
	db    *pgxpool.Pool
	clock utils.Clock
}

func NewTransactionRepo(db *pgxpool.Pool, clock utils.Clock) *TransactionRepoImpl {
	return &TransactionRepoImpl{db: db, clock: clock}
}

const transactionColumns = `t.id, t.entry_id, t.amount, t.date, t.title, t.created_at, t.updated_at`

func (r *TransactionRepoImpl) ListByMonth(ctx context.Context, monthID string) ([]Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 JOIN budget_entries e ON t.entry_id = e.id
		 WHERE e.month_id = $1
		 ORDER BY t.date DESC, t.created_at DESC`,
		monthID,
	)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *TransactionRepoImpl) ListByEntry(ctx context.Context, entryID string, limit, offset int) ([]Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 WHERE t.entry_id = $1
		 ORDER BY t.date DESC, t.created_at DESC
		 LIMIT $2 OFFSET $3`,
		entryID, limit, offset,
	)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *TransactionRepoImpl) FindByID(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.id = $1`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepoImpl) Create(ctx context.Context, t NewTransaction) (Transaction, error) {
	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	created := Transaction{
		ID:        ulid.Make().String(),
		EntryID:   t.EntryID,
		Amount:    t.Amount,
		Date:      t.Date,
		Title:     t.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO transactions (id, entry_id, amount, date, title, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		created.ID, created.EntryID, created.Amount.Value(), created.Date.String(), created.Title, created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Transaction{}, entry.ErrEntryNotFound
		}
		err := fmt.Errorf("could not insert transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return created, nil
}

func (r *TransactionRepoImpl) Update(ctx context.Context, id string, update TransactionUpdate) (Transaction, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if existing == nil {
		return Transaction{}, ErrTransactionNotFound
	}

	updated := *existing
	if update.EntryID != nil {
		updated.EntryID = *update.EntryID
	}
	if update.Amount != nil {
		updated.Amount = *update.Amount
	}
	if update.Date != nil {
		updated.Date = *update.Date
	}
	if update.Title.IsClear() {
		updated.Title = nil
	} else if value, ok := update.Title.Value(); ok {
		updated.Title = &value
	}
	updated.UpdatedAt = r.clock.Now().UTC().Truncate(time.Millisecond)

	_, err = r.db.Exec(ctx,
		`UPDATE transactions SET entry_id = $1, amount = $2, date = $3, title = $4, updated_at = $5 WHERE id = $6`,
		updated.EntryID, updated.Amount.Value(), updated.Date.String(), updated.Title, updated.UpdatedAt, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Transaction{}, entry.ErrEntryNotFound
		}
		err := fmt.Errorf("could not update transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return updated, nil
}

func (r *TransactionRepoImpl) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepoImpl) SumByEntry(ctx context.Context, entryID string) (budget.Money, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE entry_id = $1`, entryID).Scan(&sum)
	if err != nil {
		err := fmt.Errorf("could not sum transactions for entry %s: %w", entryID, err)
		log.Error(err)
		return budget.Money{}, err
	}
	return budget.NewMoney(sum), nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		t      Transaction
		amount int64
		date   string
	)
	err := row.Scan(&t.ID, &t.EntryID, &amount, &date, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, err
		}
		return Transaction{}, fmt.Errorf("could not scan transaction: %w", err)
	}
	t.Amount = budget.NewMoney(amount)
	if t.Date, err = budget.ParseTransactionDate(date); err != nil {
		return Transaction{}, fmt.Errorf("stored transaction date is invalid: %w", err)
	}
	return t, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
