package category

import (
	"context"
	"testing"
	"time"

	"github.com/koperta/koperta/internal/patch"
	"github.com/koperta/koperta/internal/utils"
	"github.com/koperta/koperta/pkg/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

var categoryRepoStub = NewStubCategoryRepo()

var service CategoryService

func setup(t *testing.T) func() {
	service = NewCategoryService(categoryRepoStub)
	return func() {
		categoryRepoStub.Cleanup()
	}
}

func mustName(t *testing.T, s string) budget.CategoryName {
	t.Helper()
	name, err := budget.NewCategoryName(s)
	require.NoError(t, err)
	return name
}

func TestCategoryServiceImpl_Create(t *testing.T) {
	t.Run("should create a category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, mustName(t, "food"), nil)

		// then
		require.NoError(t, err)
		assert.Len(t, created.ID, 26)
		assert.Equal(t, "food", created.Name.String())
		assert.Nil(t, created.Label)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	})

	t.Run("should stamp timestamps from the injected clock", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		fixed := time.Date(2026, 1, 10, 12, 30, 0, 0, time.UTC)
		categoryRepoStub.Clock = &utils.MockClock{FixedNow: fixed}
		defer func() { categoryRepoStub.Clock = utils.SystemClock{} }()

		// when
		created, err := service.Create(ctx, mustName(t, "food"), nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, fixed, created.CreatedAt)
		assert.Equal(t, fixed, created.UpdatedAt)
	})

	t.Run("should fail with a name conflict on duplicate name", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, mustName(t, "food"), nil)
		require.NoError(t, err)

		// when
		_, err = service.Create(ctx, mustName(t, "food"), nil)

		// then
		var nameExists NameAlreadyExistsError
		require.ErrorAs(t, err, &nameExists)
		assert.Equal(t, "food", nameExists.Name)
	})

	t.Run("should treat differently cased names as distinct", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, mustName(t, "food"), nil)
		require.NoError(t, err)

		// when
		_, err = service.Create(ctx, mustName(t, "Food"), nil)

		// then
		assert.NoError(t, err)
	})
}

func TestCategoryServiceImpl_ListAll(t *testing.T) {
	t.Run("should list categories sorted by name", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		for _, name := range []string{"utils/electricity", "food", "rent"} {
			_, err := service.Create(ctx, mustName(t, name), nil)
			require.NoError(t, err)
		}

		// when
		categories, err := service.ListAll(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "food", categories[0].Name.String())
		assert.Equal(t, "rent", categories[1].Name.String())
		assert.Equal(t, "utils/electricity", categories[2].Name.String())
	})
}

func TestCategoryServiceImpl_Update(t *testing.T) {
	t.Run("should rename a category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, mustName(t, "food"), nil)
		require.NoError(t, err)

		// when
		newName := mustName(t, "groceries")
		updated, err := service.Update(ctx, created.ID, &newName, patch.Keep[string]())

		// then
		require.NoError(t, err)
		assert.Equal(t, "groceries", updated.Name.String())
	})

	t.Run("should fail with not found for an unknown id", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Update(ctx, "01JYXAMPLE0000000000000000", nil, patch.Keep[string]())

		// then
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("should fail with a conflict when renaming to a taken name", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, mustName(t, "food"), nil)
		require.NoError(t, err)
		other, err := service.Create(ctx, mustName(t, "rent"), nil)
		require.NoError(t, err)

		// when
		takenName := mustName(t, "food")
		_, err = service.Update(ctx, other.ID, &takenName, patch.Keep[string]())

		// then
		var nameExists NameAlreadyExistsError
		assert.ErrorAs(t, err, &nameExists)
	})

	t.Run("should set, keep and clear the label independently", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, mustName(t, "food"), nil)
		require.NoError(t, err)

		// when: set
		updated, err := service.Update(ctx, created.ID, nil, patch.Set("Groceries and snacks"))
		require.NoError(t, err)
		require.NotNil(t, updated.Label)
		assert.Equal(t, "Groceries and snacks", *updated.Label)

		// when: keep
		updated, err = service.Update(ctx, created.ID, nil, patch.Keep[string]())
		require.NoError(t, err)
		require.NotNil(t, updated.Label)
		assert.Equal(t, "Groceries and snacks", *updated.Label)

		// when: clear
		updated, err = service.Update(ctx, created.ID, nil, patch.Clear[string]())
		require.NoError(t, err)
		assert.Nil(t, updated.Label)
	})
}
