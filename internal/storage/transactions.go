package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
)

// Append writes one classified record to the ledger and returns its row id.
// A category that is neither registered nor reserved is rejected with
// common.ErrReferentialIntegrity.
func (s *SQLiteStorage) Append(ctx context.Context, record *model.Record) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateRecord(record); err != nil {
		return 0, err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var category, runID sql.NullString
	if record.Category != nil {
		category = sql.NullString{String: *record.Category, Valid: true}
	}
	if record.RunID != "" {
		runID = sql.NullString{String: record.RunID, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			transaction_date, description, amount, kind, category, status, run_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Date, record.Description, record.Amount, string(record.Kind),
		category, string(record.Status), runID, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to append record: %w", translateError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get record id: %w", err)
	}

	record.ID = id
	record.CreatedAt = createdAt

	slog.Debug("appended record",
		"id", id,
		"kind", record.Kind,
		"category", record.CategoryName(),
		"amount", record.Amount.String())
	return id, nil
}

// Records returns ledger records matching filter, oldest first.
func (s *SQLiteStorage) Records(ctx context.Context, filter service.RecordFilter) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var (
		conditions []string
		args       []any
	)
	if filter.StartDate != nil {
		conditions = append(conditions, "transaction_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "transaction_date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filter.RunID)
	}

	query := `
		SELECT id, transaction_date, description, amount, kind, category, status, run_id, created_at
		FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY transaction_date, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountRecords returns the number of records in the ledger.
func (s *SQLiteStorage) CountRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func scanRecords(rows *sql.Rows) ([]model.Record, error) {
	records := []model.Record{}
	for rows.Next() {
		var (
			rec       model.Record
			kind      string
			status    string
			category  sql.NullString
			runID     sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Description, &rec.Amount,
			&kind, &category, &status, &runID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.Kind = model.Kind(kind)
		rec.Status = model.ClassificationStatus(status)
		if category.Valid {
			name := category.String
			rec.Category = &name
		}
		if runID.Valid {
			rec.RunID = runID.String
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}
