// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound          = errors.New("not found")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// ErrReferentialIntegrity is returned when a keyword or record names a
	// category that does not exist.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// Classification errors.
	ErrMalformedRow         = errors.New("malformed row")
	ErrInvalidOperatorInput = errors.New("invalid operator input")
	ErrNoTransactions       = errors.New("no transactions to classify")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RowError reports a failure tied to a single input row.
type RowError struct {
	Err         error
	Description string
	Row         int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Row, e.Description, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError wraps err with the row index and description it belongs to.
func NewRowError(row int, description string, err error) error {
	return &RowError{
		Row:         row,
		Description: description,
		Err:         err,
	}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
