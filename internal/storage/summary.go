package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
	"github.com/shopspring/decimal"
)

// SumByCategory returns, for every registered category in insertion order,
// the total stored amount of its records. Categories without records report
// zero.
func (s *SQLiteStorage) SumByCategory(ctx context.Context) ([]service.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	sums, err := s.sumRecords(ctx)
	if err != nil {
		return nil, err
	}

	totals := make([]service.CategoryTotal, 0, len(categories))
	for _, name := range categories {
		total := service.CategoryTotal{Category: name, Total: decimal.Zero}
		if sum, ok := sums[name]; ok {
			total = sum
		}
		totals = append(totals, total)
	}
	return totals, nil
}

// SumWithUncategorized is SumByCategory followed by a trailing Uncategorized
// row.
func (s *SQLiteStorage) SumWithUncategorized(ctx context.Context) ([]service.CategoryTotal, error) {
	totals, err := s.SumByCategory(ctx)
	if err != nil {
		return nil, err
	}

	sums, err := s.sumRecords(ctx)
	if err != nil {
		return nil, err
	}

	uncategorized := service.CategoryTotal{Category: model.CategoryUncategorized, Total: decimal.Zero}
	if sum, ok := sums[model.CategoryUncategorized]; ok {
		uncategorized = sum
	}
	return append(totals, uncategorized), nil
}

// sumRecords adds up record amounts per category in decimal arithmetic.
func (s *SQLiteStorage) sumRecords(ctx context.Context) (map[string]service.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, amount
		FROM transactions
		WHERE category IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]service.CategoryTotal)
	for rows.Next() {
		var (
			category string
			amount   decimal.Decimal
		)
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		sum, ok := sums[category]
		if !ok {
			sum = service.CategoryTotal{Category: category, Total: decimal.Zero}
		}
		sum.Total = sum.Total.Add(amount)
		sum.Count++
		sums[category] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return sums, nil
}
