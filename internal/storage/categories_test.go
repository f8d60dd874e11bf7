package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})

	t.Run("insertion order is kept", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Mat", "Bolig", "Alkohol")
		defer cleanup()

		categories, err := store.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mat", "Bolig", "Alkohol"}, categories)
	})
}

func TestCategoriesPositions(t *testing.T) {
	store, cleanup := createTestStorageWithCategories(t, "Mat", "Bolig")
	defer cleanup()
	ctx := context.Background()

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Mat", categories[0].Name)
	assert.Equal(t, 1, categories[0].Position)
	assert.Equal(t, "Bolig", categories[1].Name)
	assert.Equal(t, 2, categories[1].Position)

	cat, err := store.GetCategory(ctx, "Bolig")
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Position)

	_, err = store.GetCategory(ctx, "Reise")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		wantErr   error
		name      string
		category  string
		seed      []string
		wantAdded bool
	}{
		{
			name:      "new category",
			category:  "Groceries",
			wantAdded: true,
		},
		{
			name:      "existing category is a no-op",
			category:  "Groceries",
			seed:      []string{"Groceries"},
			wantAdded: false,
		},
		{
			name:      "case differs is a distinct category",
			category:  "groceries",
			seed:      []string{"Groceries"},
			wantAdded: true,
		},
		{
			name:     "empty name",
			category: "  ",
			wantErr:  ErrEmptyString,
		},
		{
			name:     "reserved uncategorized",
			category: model.CategoryUncategorized,
			wantErr:  ErrReservedName,
		},
		{
			name:     "reserved income",
			category: model.CategoryIncome,
			wantErr:  ErrReservedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorageWithCategories(t, tt.seed...)
			defer cleanup()

			added, err := store.AddCategory(ctx, tt.category)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, added)

			exists, err := store.CategoryExists(ctx, tt.category)
			require.NoError(t, err)
			assert.True(t, exists)

			categories, err := store.ListCategories(ctx)
			require.NoError(t, err)
			assert.Len(t, categories, len(tt.seed)+boolToInt(tt.wantAdded))
		})
	}
}

func TestCategoryExists(t *testing.T) {
	store, cleanup := createTestStorageWithCategories(t, "Mat")
	defer cleanup()
	ctx := context.Background()

	exists, err := store.CategoryExists(ctx, "Mat")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.CategoryExists(ctx, "mat")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.CategoryExists(ctx, model.CategoryUncategorized)
	require.NoError(t, err)
	assert.False(t, exists)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
