package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
)

// AddKeyword associates keyword with an existing category. Adding a pair that
// is already stored is a no-op and returns false. The category must exist.
func (s *SQLiteStorage) AddKeyword(ctx context.Context, category, keyword string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(category, "category"); err != nil {
		return false, err
	}
	if keyword == "" {
		return false, fmt.Errorf("%w: keyword", ErrEmptyString)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := categoryExistsTx(ctx, tx, category)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: category %q does not exist", common.ErrReferentialIntegrity, category)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO category_keywords (category, keyword, created_at)
		VALUES (?, ?, ?)`,
		category, keyword, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to add keyword: %w", translateError(err))
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit keyword: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check keyword insert: %w", err)
	}
	if affected == 0 {
		slog.Debug("keyword already stored", "category", category, "keyword", keyword)
		return false, nil
	}

	slog.Debug("learned keyword", "category", category, "keyword", keyword)
	return true, nil
}

// Keywords returns every stored (category, keyword) pair.
func (s *SQLiteStorage) Keywords(ctx context.Context) ([]model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryKeywords(ctx, `
		SELECT k.category, k.keyword, k.created_at
		FROM category_keywords k
		JOIN categories c ON c.name = k.category
		ORDER BY c.rowid, k.keyword`)
}

// KeywordsForCategory returns the keywords of a single category.
func (s *SQLiteStorage) KeywordsForCategory(ctx context.Context, category string) ([]model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}
	return s.queryKeywords(ctx, `
		SELECT category, keyword, created_at
		FROM category_keywords
		WHERE category = ?
		ORDER BY keyword`, category)
}

// SharedKeywords returns the keywords stored under more than one category,
// ordered by keyword and then by category.
func (s *SQLiteStorage) SharedKeywords(ctx context.Context) ([]model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryKeywords(ctx, `
		SELECT category, keyword, created_at
		FROM category_keywords
		WHERE keyword IN (
			SELECT keyword FROM category_keywords
			GROUP BY keyword
			HAVING COUNT(*) > 1
		)
		ORDER BY keyword, category`)
}

func (s *SQLiteStorage) queryKeywords(ctx context.Context, query string, args ...any) ([]model.Keyword, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	keywords := []model.Keyword{}
	for rows.Next() {
		var kw model.Keyword
		if err := rows.Scan(&kw.Category, &kw.Keyword, &kw.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keywords: %w", err)
	}

	return keywords, nil
}
