package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/google/uuid"
)

// StartRun records the beginning of an import from source.
func (s *SQLiteStorage) StartRun(ctx context.Context, source string) (*model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(source, "source"); err != nil {
		return nil, err
	}

	run := &model.ImportRun{
		ID:        uuid.New().String(),
		Source:    source,
		StartedAt: time.Now(),
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, source, started_at)
		VALUES (?, ?, ?)`,
		run.ID, run.Source, run.StartedAt); err != nil {
		return nil, fmt.Errorf("failed to start import run: %w", err)
	}

	slog.Debug("started import run", "run_id", run.ID, "source", source)
	return run, nil
}

// FinishRun stores the final counters of run and stamps its finish time.
func (s *SQLiteStorage) FinishRun(ctx context.Context, run *model.ImportRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}

	finished := time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE import_runs
		SET finished_at = ?, rows_read = ?, rows_written = ?, rows_skipped = ?
		WHERE id = ?`,
		finished, run.RowsRead, run.RowsWritten, run.RowsSkipped, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish import run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check import run update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("import run %s: %w", run.ID, common.ErrNotFound)
	}

	run.FinishedAt = &finished
	return nil
}

// Runs returns recorded import runs, most recent first.
func (s *SQLiteStorage) Runs(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, source, started_at, finished_at, rows_read, rows_written, rows_skipped
		FROM import_runs
		ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	runs := []model.ImportRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single import run.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, started_at, finished_at, rows_read, rows_written, rows_skipped
		FROM import_runs
		WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import run %s: %w", id, common.ErrNotFound)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.ImportRun, error) {
	var (
		run      model.ImportRun
		finished sql.NullTime
	)
	if err := row.Scan(&run.ID, &run.Source, &run.StartedAt, &finished,
		&run.RowsRead, &run.RowsWritten, &run.RowsSkipped); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan import run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
