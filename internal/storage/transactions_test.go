package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		record  *model.Record
		wantErr error
		name    string
	}{
		{
			name:   "registered category",
			record: testRecord("KIWI 123", "150.5", model.KindExpense, strPtr("Mat")),
		},
		{
			name:   "uncategorized sentinel",
			record: testRecord("UKJENT", "10", model.KindExpense, strPtr(model.CategoryUncategorized)),
		},
		{
			name:   "income category",
			record: testRecord("Bonus mars", "200", model.KindBonus, strPtr(model.CategoryIncome)),
		},
		{
			name:   "unknown kind has no category",
			record: testRecord("Nullpost", "0", model.KindUnknown, nil),
		},
		{
			name:    "unregistered category",
			record:  testRecord("KIWI 123", "150.5", model.KindExpense, strPtr("Ghost")),
			wantErr: common.ErrReferentialIntegrity,
		},
		{
			name:    "negative amount",
			record:  testRecord("KIWI 123", "-150.5", model.KindExpense, strPtr("Mat")),
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "invalid kind",
			record:  testRecord("KIWI 123", "1", model.Kind("Refund"), strPtr("Mat")),
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "nil record",
			wantErr: ErrNilParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := createTestStorageWithCategories(t, "Mat")
			defer cleanup()

			id, err := store.Append(ctx, tt.record)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				count, countErr := store.CountRecords(ctx)
				require.NoError(t, countErr)
				assert.Zero(t, count)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, id)
			assert.Equal(t, id, tt.record.ID)

			records, err := store.Records(ctx, service.RecordFilter{})
			require.NoError(t, err)
			require.Len(t, records, 1)

			got := records[0]
			assert.Equal(t, tt.record.Description, got.Description)
			assert.True(t, tt.record.Amount.Equal(got.Amount), "amount %s != %s", tt.record.Amount, got.Amount)
			assert.Equal(t, tt.record.Kind, got.Kind)
			assert.Equal(t, tt.record.CategoryName(), got.CategoryName())
			assert.Equal(t, tt.record.Date.Format("2006-01-02"), got.Date.Format("2006-01-02"))
		})
	}
}

func TestAppendIDsIncrease(t *testing.T) {
	store, cleanup := createTestStorageWithCategories(t, "Mat")
	defer cleanup()
	ctx := context.Background()

	first, err := store.Append(ctx, testRecord("A", "1", model.KindExpense, strPtr("Mat")))
	require.NoError(t, err)
	second, err := store.Append(ctx, testRecord("B", "2", model.KindExpense, strPtr("Mat")))
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestRecordsFilter(t *testing.T) {
	store, cleanup := createTestStorageWithCategories(t, "Mat", "Bolig")
	defer cleanup()
	ctx := context.Background()

	run, err := store.StartRun(ctx, "march.csv")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seed := []struct {
		category *string
		kind     model.Kind
		runID    string
		days     int
	}{
		{strPtr("Mat"), model.KindExpense, run.ID, 0},
		{strPtr("Bolig"), model.KindExpense, run.ID, 5},
		{strPtr(model.CategoryIncome), model.KindInnbetaling, "", 10},
		{nil, model.KindUnknown, "", 20},
	}
	for i, s := range seed {
		rec := &model.Record{
			Date:        base.AddDate(0, 0, s.days),
			Description: "row",
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Kind:        s.kind,
			Category:    s.category,
			Status:      model.StatusMatched,
			RunID:       s.runID,
		}
		_, err := store.Append(ctx, rec)
		require.NoError(t, err)
	}

	start := base.AddDate(0, 0, 3)
	end := base.AddDate(0, 0, 15)

	tests := []struct {
		name   string
		filter service.RecordFilter
		want   int
	}{
		{name: "all", filter: service.RecordFilter{}, want: 4},
		{name: "by category", filter: service.RecordFilter{Category: "Mat"}, want: 1},
		{name: "by kind", filter: service.RecordFilter{Kind: model.KindUnknown}, want: 1},
		{name: "by run", filter: service.RecordFilter{RunID: run.ID}, want: 2},
		{name: "by date range", filter: service.RecordFilter{StartDate: &start, EndDate: &end}, want: 2},
		{name: "limit", filter: service.RecordFilter{Limit: 3}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.Records(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}

	t.Run("inverted date range", func(t *testing.T) {
		_, err := store.Records(ctx, service.RecordFilter{StartDate: &end, EndDate: &start})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("unknown record keeps nil category", func(t *testing.T) {
		records, err := store.Records(ctx, service.RecordFilter{Kind: model.KindUnknown})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Nil(t, records[0].Category)
	})
}
