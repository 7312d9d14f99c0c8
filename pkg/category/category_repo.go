package category

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

var ErrCategoryNotFound = errors.New("category not found")

// NameAlreadyExistsError is returned when a create or rename collides with an
// existing category name. Uniqueness is case-sensitive.
type NameAlreadyExistsError struct {
	Name string
}

func (e NameAlreadyExistsError) Error() string {
	return fmt.Sprintf("category name already exists: %s", e.Name)
}

type CategoryRepo interface {
	ListAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, category NewCategory) (Category, error)
	UpdateName(ctx context.Context, id string, name budget.CategoryName) (Category, error)
	Update(ctx context.Context, id string, name *budget.CategoryName, label patch.Field[string]) (Category, error)
}

type CategoryRepoImpl struct {
	db    *pgxpool.Pool
	clock utils.Clock
}

func NewCategoryRepo(db *pgxpool.Pool, clock utils.Clock) *CategoryRepoImpl {
	return &CategoryRepoImpl{db: db, clock: clock}
}

func (r *CategoryRepoImpl) ListAll(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, label, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over categories: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepoImpl) FindByID(ctx context.Context, id string) (*Category, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, label, created_at, updated_at FROM categories WHERE id = $1`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		log.Error(err)
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepoImpl) Create(ctx context.Context, category NewCategory) (Category, error) {
	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	created := Category{
		ID:        ulid.Make().String(),
		Name:      category.Name,
		Label:     category.Label,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, name, label, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		created.ID, created.Name.String(), created.Label, created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, NameAlreadyExistsError{Name: category.Name.String()}
		}
		err := fmt.Errorf("could not insert category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	return created, nil
}

func (r *CategoryRepoImpl) UpdateName(ctx context.Context, id string, name budget.CategoryName) (Category, error) {
	return r.Update(ctx, id, &name, patch.Keep[string]())
}

func (r *CategoryRepoImpl) Update(ctx context.Context, id string, name *budget.CategoryName, label patch.Field[string]) (Category, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if existing == nil {
		return Category{}, ErrCategoryNotFound
	}

	updated := *existing
	if name != nil {
		updated.Name = *name
	}
	if label.IsClear() {
		updated.Label = nil
	} else if value, ok := label.Value(); ok {
		updated.Label = &value
	}
	updated.UpdatedAt = r.clock.Now().UTC().Truncate(time.Millisecond)

	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $1, label = $2, updated_at = $3 WHERE id = $4`,
		updated.Name.String(), updated.Label, updated.UpdatedAt, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, NameAlreadyExistsError{Name: updated.Name.String()}
		}
		err := fmt.Errorf("could not update category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	if tag.RowsAffected() == 0 {
		return Category{}, ErrCategoryNotFound
	}
	return updated, nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var (
		category Category
		name     string
	)
	if err := row.Scan(&category.ID, &name, &category.Label, &category.CreatedAt, &category.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, err
		}
		return Category{}, fmt.Errorf("could not scan category: %w", err)
	}
	categoryName, err := budget.NewCategoryName(name)
	if err != nil {
		return Category{}, fmt.Errorf("stored category name is invalid: %w", err)
	}
	category.Name = categoryName
	return category, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
