package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/pattern"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRow(row int, description, amount string) model.RawTransaction {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return model.RawTransaction{
		Row:         row,
		Date:        &date,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestIncomeKind(t *testing.T) {
	tests := []struct {
		description string
		want        model.Kind
	}{
		{"Innbetaling fra Ola", model.KindInnbetaling},
		{"Bonus mars", model.KindBonus},
		{"Innbetaling Bonus", model.KindInnbetaling},
		{"Bonus og Innbetaling", model.KindInnbetaling},
		{"bonus mars", model.KindReturn},
		{"INNBETALING", model.KindReturn},
		{"Retur XXL", model.KindReturn},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, IncomeKind(tt.description))
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		wantCategory *string
		name         string
		row          model.RawTransaction
		wantAmount   string
		wantKind     model.Kind
		wantStatus   model.ClassificationStatus
	}{
		{
			name:         "expense matched by keyword",
			row:          rawRow(1, "KIWI MAJORSTUEN", "-150.5"),
			wantAmount:   "150.5",
			wantKind:     model.KindExpense,
			wantCategory: strPtr("Mat"),
			wantStatus:   model.StatusMatched,
		},
		{
			name:         "bonus income",
			row:          rawRow(2, "Bonus fra Coop", "200.0"),
			wantAmount:   "200",
			wantKind:     model.KindBonus,
			wantCategory: strPtr(model.CategoryIncome),
			wantStatus:   model.StatusFixed,
		},
		{
			name:         "innbetaling income",
			row:          rawRow(3, "Innbetaling lønn", "35000"),
			wantAmount:   "35000",
			wantKind:     model.KindInnbetaling,
			wantCategory: strPtr(model.CategoryIncome),
			wantStatus:   model.StatusFixed,
		},
		{
			name:         "other income is a return",
			row:          rawRow(4, "KIWI MAJORSTUEN", "49.90"),
			wantAmount:   "49.9",
			wantKind:     model.KindReturn,
			wantCategory: strPtr(model.CategoryIncome),
			wantStatus:   model.StatusFixed,
		},
		{
			name:       "zero amount",
			row:        rawRow(5, "Nullpost", "0"),
			wantAmount: "0",
			wantKind:   model.KindUnknown,
			wantStatus: model.StatusNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, "Mat")
			_, err := store.AddKeyword(ctx, "Mat", "KIWI")
			require.NoError(t, err)

			// Any prompt would fail the test: the asker has no replies.
			asker := NewScriptedAsker()
			classifier := NewClassifier(pattern.NewMatcher(store), NewResolver(store, asker))

			result, err := classifier.Classify(ctx, tt.row)
			require.NoError(t, err)

			rec := result.Record
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(rec.Amount), "amount %s", rec.Amount)
			assert.Equal(t, tt.wantKind, rec.Kind)
			assert.Equal(t, tt.wantStatus, rec.Status)
			if tt.wantCategory == nil {
				assert.Nil(t, rec.Category)
			} else {
				require.NotNil(t, rec.Category)
				assert.Equal(t, *tt.wantCategory, *rec.Category)
			}
			assert.Empty(t, asker.Calls())
		})
	}
}

func TestClassifier_UnmatchedExpenseAsksOperator(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "Mat")
	asker := NewScriptedAsker("Reise")
	classifier := NewClassifier(pattern.NewMatcher(store), NewResolver(store, asker))

	result, err := classifier.Classify(ctx, rawRow(1, "NORWEGIAN AIR", "-1299"))
	require.NoError(t, err)
	assert.Equal(t, "Reise", result.Record.CategoryName())
	assert.Equal(t, model.StatusOperator, result.Record.Status)
	assert.True(t, result.Learned)
	assert.True(t, result.Created)
	assert.Len(t, asker.Calls(), 1)
}

func TestClassifier_MalformedRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	classifier := NewClassifier(pattern.NewMatcher(store), NewResolver(store, NewScriptedAsker()))

	noDate := rawRow(1, "KIWI", "-10")
	noDate.Date = nil

	blank := rawRow(2, "   ", "-10")

	badAmount := rawRow(3, "KIWI", "0")
	badAmount.ParseErr = errors.New(`cannot parse "abc"`)

	for _, row := range []model.RawTransaction{noDate, blank, badAmount} {
		_, err := classifier.Classify(ctx, row)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrMalformedRow)

		var rowErr *common.RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, row.Row, rowErr.Row)
	}
}

func strPtr(s string) *string {
	return &s
}
