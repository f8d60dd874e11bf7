// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/shopspring/decimal"
)

// KnowledgeBase is the persistent category and keyword store the engine learns into.
type KnowledgeBase interface {
	ListCategories(ctx context.Context) ([]string, error)
	CategoryExists(ctx context.Context, name string) (bool, error)
	AddCategory(ctx context.Context, name string) (bool, error)
	AddKeyword(ctx context.Context, category, keyword string) (bool, error)
	Keywords(ctx context.Context) ([]model.Keyword, error)
}

// Ledger appends classified records.
type Ledger interface {
	Append(ctx context.Context, record *model.Record) (int64, error)
}

// RunTracker records import runs.
type RunTracker interface {
	StartRun(ctx context.Context, source string) (*model.ImportRun, error)
	FinishRun(ctx context.Context, run *model.ImportRun) error
}

// SummaryReader is the read-only reporting side of the store.
type SummaryReader interface {
	SumByCategory(ctx context.Context) ([]CategoryTotal, error)
}

// RecordFilter defines filtering options for record queries.
type RecordFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Kind      model.Kind
	Category  string
	RunID     string
	Limit     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	KnowledgeBase
	Ledger
	RunTracker
	SummaryReader

	Records(ctx context.Context, filter RecordFilter) ([]model.Record, error)
	Migrate(ctx context.Context) error
	Close() error
}

// CategoryTotal is the aggregated amount for one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// CompletionStats shows the results of a classification run.
type CompletionStats struct {
	TotalRows      int
	Written        int
	AutoMatched    int
	OperatorChosen int
	NewKeywords    int
	NewCategories  int
	Uncategorized  int
	Income         int
	Unknown        int
	Skipped        int
	Duration       time.Duration
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
