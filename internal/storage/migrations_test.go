package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorageWithCategories(t, "Mat")
	defer cleanup()
	ctx := context.Background()

	_, err := store.AddKeyword(ctx, "Mat", "KIWI")
	require.NoError(t, err)
	_, err = store.Append(ctx, testRecord("KIWI", "10", model.KindExpense, strPtr("Mat")))
	require.NoError(t, err)

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	keywords, err := store.Keywords(ctx)
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}

func TestCategoryTriggerRejectsUnknownCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO transactions (transaction_date, description, amount, kind, category)
		VALUES ('2024-01-01', 'x', 1, 'Expense', 'Ghost')`)
	require.Error(t, err)
	assert.ErrorIs(t, translateError(err), common.ErrReferentialIntegrity)

	_, err = store.db.ExecContext(ctx, `
		INSERT INTO transactions (transaction_date, description, amount, kind, category)
		VALUES ('2024-01-01', 'x', 1, 'Expense', 'Uncategorized')`)
	assert.NoError(t, err)
}

func TestResetLedger(t *testing.T) {
	store, cleanup := createTestStorageWithCategories(t, "Mat")
	defer cleanup()
	ctx := context.Background()

	run, err := store.StartRun(ctx, "x.csv")
	require.NoError(t, err)
	for _, desc := range []string{"A", "B", "C"} {
		rec := testRecord(desc, "1", model.KindExpense, strPtr("Mat"))
		rec.RunID = run.ID
		_, err := store.Append(ctx, rec)
		require.NoError(t, err)
	}
	_, err = store.AddKeyword(ctx, "Mat", "A")
	require.NoError(t, err)

	deleted, err := store.ResetLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err := store.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	runs, err := store.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	// The knowledge base survives.
	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mat"}, categories)
	keywords, err := store.Keywords(ctx)
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}
