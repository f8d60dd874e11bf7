package engine

import (
	"context"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
)

// Asker defines the contract for asking the operator to pick a category.
// options are the registered categories in display order; the reply is the
// raw text the operator entered.
type Asker interface {
	Ask(ctx context.Context, prompt string, options []string) (string, error)
}

// Reporter receives progress events while an import runs.
type Reporter interface {
	BeginRow(ctx context.Context, n, total int, txn model.RawTransaction)
	RowSkipped(ctx context.Context, txn model.RawTransaction, err error)
	ShowCompletion(stats service.CompletionStats)
}

// NopReporter discards every event.
type NopReporter struct{}

// BeginRow implements Reporter.
func (NopReporter) BeginRow(context.Context, int, int, model.RawTransaction) {}

// RowSkipped implements Reporter.
func (NopReporter) RowSkipped(context.Context, model.RawTransaction, error) {}

// ShowCompletion implements Reporter.
func (NopReporter) ShowCompletion(service.CompletionStats) {}

var _ Reporter = NopReporter{}
