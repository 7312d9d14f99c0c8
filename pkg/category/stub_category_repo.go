package category

import (
	"context"
	"sort"
	"time"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/oklog/ulid/v2"
)

// StubCategoryRepo is an in-memory CategoryRepo for tests. It enforces the
// same name uniqueness the database schema does. Timestamps come from Clock,
// which tests may swap for a MockClock.
type StubCategoryRepo struct {
	Clock      utils.Clock
	categories map[string]Category
}

func NewStubCategoryRepo() *StubCategoryRepo {
	return &StubCategoryRepo{Clock: utils.SystemClock{}, categories: map[string]Category{}}
}

func (s *StubCategoryRepo) Cleanup() {
	s.categories = map[string]Category{}
}

func (s *StubCategoryRepo) ListAll(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name.String() < categories[j].Name.String()
	})
	return categories, nil
}

func (s *StubCategoryRepo) FindByID(ctx context.Context, id string) (*Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &category, nil
}

func (s *StubCategoryRepo) Create(ctx context.Context, category NewCategory) (Category, error) {
	for _, existing := range s.categories {
		if existing.Name.String() == category.Name.String() {
			return Category{}, NameAlreadyExistsError{Name: category.Name.String()}
		}
	}
	now := s.Clock.Now().UTC().Truncate(time.Millisecond)
	created := Category{
		ID:        ulid.Make().String(),
		Name:      category.Name,
		Label:     category.Label,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.categories[created.ID] = created
	return created, nil
}

func (s *StubCategoryRepo) UpdateName(ctx context.Context, id string, name budget.CategoryName) (Category, error) {
	return s.Update(ctx, id, &name, patch.Keep[string]())
}

func (s *StubCategoryRepo) Update(ctx context.Context, id string, name *budget.CategoryName, label patch.Field[string]) (Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	if name != nil {
		for otherID, other := range s.categories {
			if otherID != id && other.Name.String() == name.String() {
				return Category{}, NameAlreadyExistsError{Name: name.String()}
			}
		}
		category.Name = *name
	}
	if label.IsClear() {
		category.Label = nil
	} else if value, ok := label.Value(); ok {
		category.Label = &value
	}
	category.UpdatedAt = s.Clock.Now().UTC().Truncate(time.Millisecond)
	s.categories[id] = category
	return category, nil
}
