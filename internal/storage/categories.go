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
)

// ListCategories returns every registered category name in insertion order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(names))
	return names, nil
}

// Categories returns the registered categories with their creation time and
// 1-based position, the same numbering the operator sees when prompted.
func (s *SQLiteStorage) Categories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, created_at
		FROM categories
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var createdAt sql.NullTime
		if err := rows.Scan(&cat.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if createdAt.Valid {
			cat.CreatedAt = createdAt.Time
		}
		cat.Position = len(categories) + 1
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// CategoryExists reports whether name is a registered category.
// Reserved names are never registered and always report false.
func (s *SQLiteStorage) CategoryExists(ctx context.Context, name string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return categoryExistsTx(ctx, s.db, name)
}

func categoryExistsTx(ctx context.Context, q queryable, name string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return true, nil
}

// AddCategory registers a new category. It returns false without error when
// the category already exists.
func (s *SQLiteStorage) AddCategory(ctx context.Context, name string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateCategoryName(name); err != nil {
		return false, err
	}

	exists, err := s.CategoryExists(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		slog.Info("category already exists", "name", name)
		return false, nil
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, created_at) VALUES (?, ?)`,
		name, time.Now()); err != nil {
		return false, fmt.Errorf("failed to create category: %w", translateError(err))
	}

	slog.Info("created category", "name", name)
	return true, nil
}

// GetCategory returns a single registered category by name.
func (s *SQLiteStorage) GetCategory(ctx context.Context, name string) (*model.Category, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
}
