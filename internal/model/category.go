package model

import "time"

// Reserved category names. Neither is registered in the categories table.
const (
	// CategoryUncategorized is assigned when the operator gives no usable answer.
	CategoryUncategorized = "Uncategorized"
	// CategoryIncome is the fixed category for every positive amount.
	CategoryIncome = "InnPåKonto"
)

// IsReservedCategory reports whether name is one of the built-in category names
// that may appear on a record without being registered.
func IsReservedCategory(name string) bool {
	return name == CategoryUncategorized || name == CategoryIncome
}

// Category represents a user-defined label for grouping transactions.
type Category struct {
	CreatedAt time.Time
	Name      string
	// Position is the 1-based display number, following insertion order.
	Position int
}

// Keyword associates a substring pattern with a category.
type Keyword struct {
	CreatedAt time.Time
	Category  string
	Keyword   string
}
