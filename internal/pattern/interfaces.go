// Package pattern matches transaction descriptions against learned keywords.
package pattern

import (
	"context"

	"github.com/Veraticus/kategori/internal/model"
)

// KeywordSource supplies the stored keyword associations.
type KeywordSource interface {
	Keywords(ctx context.Context) ([]model.Keyword, error)
}

// Matcher finds the category of a description from learned keywords.
type Matcher interface {
	// FindCategory returns the best matching category, or false when no
	// keyword occurs in the description.
	FindCategory(ctx context.Context, description string) (string, bool, error)
}
