// Package storage provides the data persistence layer for kategori.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/kategori/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidRecord    = errors.New("invalid record")
	ErrReservedName     = errors.New("category name is reserved")
	ErrInvalidDateRange = errors.New("start date must be before end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategoryName rejects empty and reserved category names.
func validateCategoryName(name string) error {
	if err := validateString(name, "category"); err != nil {
		return err
	}
	if model.IsReservedCategory(name) {
		return fmt.Errorf("%w: %s", ErrReservedName, name)
	}
	return nil
}

// validateRecord validates a single ledger record.
func validateRecord(record *model.Record) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}
	if strings.TrimSpace(record.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidRecord)
	}
	if record.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidRecord, record.Amount)
	}

	switch record.Kind {
	case model.KindExpense, model.KindBonus, model.KindInnbetaling, model.KindReturn, model.KindUnknown:
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidRecord, record.Kind)
	}

	if record.Category != nil && strings.TrimSpace(*record.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidRecord)
	}
	return nil
}
