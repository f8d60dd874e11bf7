package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind describes the direction or nature of a transaction.
type Kind string

// Transaction kinds.
const (
	KindExpense     Kind = "Expense"
	KindBonus       Kind = "Bonus"
	KindInnbetaling Kind = "Innbetaling"
	KindReturn      Kind = "Return"
	KindUnknown     Kind = "Unknown"
)

// IsIncome reports whether the kind belongs to the positive-amount family.
func (k Kind) IsIncome() bool {
	return k == KindBonus || k == KindInnbetaling || k == KindReturn
}

// RawTransaction is one row read from a bank export, before classification.
type RawTransaction struct {
	// Date is nil when the source value could not be parsed.
	Date        *time.Time
	ParseErr    error // set when the amount cell could not be read
	Description string
	Amount      decimal.Decimal // signed; negative is an outflow
	Row         int             // 1-based data row in the source
}

// Record is an immutable, classified transaction in the ledger.
type Record struct {
	Date        time.Time
	CreatedAt   time.Time
	Category    *string // nil for kind Unknown
	Description string
	Kind        Kind
	Status      ClassificationStatus
	RunID       string
	Amount      decimal.Decimal // always non-negative
	ID          int64
}

// CategoryName returns the record's category or an empty string.
func (r *Record) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return *r.Category
}
