package month

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
)

var ErrMonthNotFound = errors.New("month not found")

type AlreadyExistsError struct {
	Month string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("month already exists: %s", e.Month)
}

type MonthRepo interface {
	ListAll(ctx context.Context) ([]Month, error)
	FindByID(ctx context.Context, id string) (*Month, error)
	FindByMonth(ctx context.Context, m budget.BudgetMonth) (*Month, error)
	Create(ctx context.Context, m NewMonth) (Month, error)
	FindLatest(ctx context.Context) (*Month, error)
	FindLatestExcluding(ctx context.Context, excludeID string) (*Month, error)
}

type MonthRepoImpl struct {
	db    *pgxpool.Pool
	clock utils.Clock
}

func NewMonthRepo(db *pgxpool.Pool, clock utils.Clock) *MonthRepoImpl {
	return &MonthRepoImpl{db: db, clock: clock}
}

func (r *MonthRepoImpl) ListAll(ctx context.Context) ([]Month, error) {
	// "YYYY-MM" sorts chronologically as text.
	rows, err := r.db.Query(ctx,
		`SELECT id, month, created_at, updated_at FROM months ORDER BY month DESC`)
	if err != nil {
		err := fmt.Errorf("could not query months: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var months []Month
	for rows.Next() {
		m, err := scanMonth(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over months: %w", err)
		log.Error(err)
		return nil, err
	}
	return months, nil
}

func (r *MonthRepoImpl) FindByID(ctx context.Context, id string) (*Month, error) {
	return r.findOne(ctx,
		`SELECT id, month, created_at, updated_at FROM months WHERE id = $1`, id)
}

func (r *MonthRepoImpl) FindByMonth(ctx context.Context, m budget.BudgetMonth) (*Month, error) {
	return r.findOne(ctx,
		`SELECT id, month, created_at, updated_at FROM months WHERE month = $1`, m.String())
}

func (r *MonthRepoImpl) Create(ctx context.Context, m NewMonth) (Month, error) {
	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	created := Month{
		ID:        ulid.Make().String(),
		Month:     m.Month,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO months (id, month, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		created.ID, created.Month.String(), created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Month{}, AlreadyExistsError{Month: m.Month.String()}
		}
		err := fmt.Errorf("could not insert month: %w", err)
		log.Error(err)
		return Month{}, err
	}
	return created, nil
}

func (r *MonthRepoImpl) FindLatest(ctx context.Context) (*Month, error) {
	return r.findOne(ctx,
		`SELECT id, month, created_at, updated_at FROM months ORDER BY month DESC LIMIT 1`)
}

func (r *MonthRepoImpl) FindLatestExcluding(ctx context.Context, excludeID string) (*Month, error) {
	return r.findOne(ctx,
		`SELECT id, month, created_at, updated_at FROM months WHERE id <> $1 ORDER BY month DESC LIMIT 1`,
		excludeID)
}

func (r *MonthRepoImpl) findOne(ctx context.Context, query string, args ...any) (*Month, error) {
	row := r.db.QueryRow(ctx, query, args...)
	m, err := scanMonth(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}
	return &m, nil
}

func scanMonth(row pgx.Row) (Month, error) {
	var (
		m           Month
		monthString string
	)
	if err := row.Scan(&m.ID, &monthString, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Month{}, err
		}
		return Month{}, fmt.Errorf("could not scan month: %w", err)
	}
	budgetMonth, err := budget.ParseBudgetMonth(monthString)
	if err != nil {
		return Month{}, fmt.Errorf("stored month is invalid: %w", err)
	}
	m.Month = budgetMonth
	return m, nil
}
