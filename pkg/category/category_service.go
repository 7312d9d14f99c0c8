package category

import (
	"context"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/pkg/budget"
)

type CategoryService interface {
	// ListAll returns all categories ordered by name ascending.
	ListAll(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, name budget.CategoryName, label *string) (Category, error)
	// Update applies a partial update: a nil name leaves the name unchanged,
	// label follows Keep/Clear/Set semantics.
	Update(ctx context.Context, id string, name *budget.CategoryName, label patch.Field[string]) (Category, error)
}

type CategoryServiceImpl struct {
	repo CategoryRepo
}

func NewCategoryService(repo CategoryRepo) *CategoryServiceImpl {
	return &CategoryServiceImpl{repo: repo}
}

func (s *CategoryServiceImpl) ListAll(ctx context.Context) ([]Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *CategoryServiceImpl) Create(ctx context.Context, name budget.CategoryName, label *string) (Category, error) {
	return s.repo.Create(ctx, NewCategory{Name: name, Label: label})
}

func (s *CategoryServiceImpl) Update(ctx context.Context, id string, name *budget.CategoryName, label patch.Field[string]) (Category, error) {
	return s.repo.Update(ctx, id, name, label)
}
