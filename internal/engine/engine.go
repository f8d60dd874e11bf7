// Package engine implements the core classification engine for categorizing transactions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/pattern"
	"github.com/Veraticus/kategori/internal/service"
)

// FailurePolicy decides what happens to a malformed input row.
type FailurePolicy string

// Failure policies.
const (
	// PolicySkip reports the row and continues with the next one.
	PolicySkip FailurePolicy = "skip"
	// PolicyAbort stops the import at the first malformed row.
	PolicyAbort FailurePolicy = "abort"
)

// ParseFailurePolicy validates a policy name.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case PolicySkip, PolicyAbort:
		return FailurePolicy(s), nil
	case "":
		return PolicySkip, nil
	}
	return "", fmt.Errorf("%w: unknown failure policy %q (want skip or abort)", common.ErrInvalidConfig, s)
}

// ClassificationEngine orchestrates the classification of an import.
type ClassificationEngine struct {
	storage    service.Storage
	classifier *Classifier
	reporter   Reporter
	onError    FailurePolicy
}

// Config holds configuration options for the classification engine.
type Config struct {
	OnError FailurePolicy
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		OnError: PolicySkip,
	}
}

// New creates a new classification engine with the given dependencies.
func New(storage service.Storage, asker Asker, reporter Reporter) *ClassificationEngine {
	return NewWithConfig(storage, asker, reporter, DefaultConfig())
}

// NewWithConfig creates a new classification engine with custom configuration.
func NewWithConfig(storage service.Storage, asker Asker, reporter Reporter, config Config) *ClassificationEngine {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if config.OnError == "" {
		config.OnError = PolicySkip
	}

	matcher := pattern.NewMatcher(storage)
	resolver := NewResolver(storage, asker)

	return &ClassificationEngine{
		storage:    storage,
		classifier: NewClassifier(matcher, resolver),
		reporter:   reporter,
		onError:    config.OnError,
	}
}

// Import classifies rows in source order and appends every record to the
// ledger. Each record is committed as soon as it is classified, so rows
// processed before an error or cancellation stay stored.
func (e *ClassificationEngine) Import(ctx context.Context, source string, rows []model.RawTransaction) (service.CompletionStats, error) {
	start := time.Now()
	stats := service.CompletionStats{TotalRows: len(rows)}

	if len(rows) == 0 {
		return stats, common.ErrNoTransactions
	}

	run, err := e.storage.StartRun(ctx, source)
	if err != nil {
		return stats, fmt.Errorf("failed to start import run: %w", err)
	}

	slog.Info("Starting import",
		"source", source,
		"run_id", run.ID,
		"rows", len(rows),
		"on_error", e.onError)

	runErr := e.processRows(ctx, run.ID, rows, &stats)

	run.RowsRead = stats.TotalRows
	run.RowsWritten = stats.Written
	run.RowsSkipped = stats.Skipped
	// The run is closed even when ctx was canceled by the operator.
	if err := e.storage.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		slog.Warn("Failed to finish import run", "run_id", run.ID, "error", err)
	}

	stats.Duration = time.Since(start)
	e.reporter.ShowCompletion(stats)

	slog.Info("Import complete",
		"run_id", run.ID,
		"written", stats.Written,
		"skipped", stats.Skipped,
		"new_keywords", stats.NewKeywords,
		"duration", stats.Duration)

	return stats, runErr
}

func (e *ClassificationEngine) processRows(ctx context.Context, runID string, rows []model.RawTransaction, stats *service.CompletionStats) error {
	for i, row := range rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		e.reporter.BeginRow(ctx, i+1, len(rows), row)

		result, err := e.classifier.Classify(ctx, row)
		if err != nil {
			if errors.Is(err, common.ErrMalformedRow) && e.onError == PolicySkip {
				slog.Warn("Skipping malformed row", "row", row.Row, "error", err)
				e.reporter.RowSkipped(ctx, row, err)
				stats.Skipped++
				continue
			}
			return err
		}

		rec := result.Record
		rec.RunID = runID
		if _, err := e.storage.Append(ctx, &rec); err != nil {
			return common.NewRowError(row.Row, row.Description, fmt.Errorf("failed to append record: %w", err))
		}

		stats.Written++
		if result.Learned {
			stats.NewKeywords++
		}
		if result.Created {
			stats.NewCategories++
		}
		switch rec.Status {
		case model.StatusMatched:
			stats.AutoMatched++
		case model.StatusOperator:
			stats.OperatorChosen++
		case model.StatusUncategorized:
			stats.Uncategorized++
		case model.StatusFixed:
			stats.Income++
		case model.StatusNone:
			stats.Unknown++
		}

		slog.Debug("Classified row",
			"row", row.Row,
			"kind", rec.Kind,
			"category", rec.CategoryName(),
			"status", rec.Status)
	}
	return nil
}
