// Package model defines the core domain models used throughout the application.
package model

import "time"

// ClassificationStatus indicates how a record obtained its category.
type ClassificationStatus string

// Classification status constants.
const (
	// StatusMatched means an existing keyword matched the description.
	StatusMatched ClassificationStatus = "MATCHED"
	// StatusOperator means the operator picked or created the category.
	StatusOperator ClassificationStatus = "OPERATOR"
	// StatusUncategorized means the operator gave no usable answer.
	StatusUncategorized ClassificationStatus = "UNCATEGORIZED"
	// StatusFixed means the category follows from the amount sign alone.
	StatusFixed ClassificationStatus = "FIXED"
	// StatusNone means no category applies (zero amount).
	StatusNone ClassificationStatus = "NONE"
)

// Resolution is the outcome of resolving a category for one description.
type Resolution struct {
	Category string
	Status   ClassificationStatus
	// Learned is true when a new keyword was recorded.
	Learned bool
	// Created is true when the operator introduced a new category.
	Created bool
}

// ImportRun describes one pass over an input file.
type ImportRun struct {
	StartedAt   time.Time
	FinishedAt  *time.Time
	ID          string
	Source      string
	RowsRead    int
	RowsWritten int
	RowsSkipped int
}
