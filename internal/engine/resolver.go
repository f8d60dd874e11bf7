package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
)

// Resolver asks the operator for a category when no keyword matched and
// records the answer in the knowledge base.
type Resolver struct {
	kb    service.KnowledgeBase
	asker Asker
}

// NewResolver creates a resolver that learns into kb and asks through asker.
func NewResolver(kb service.KnowledgeBase, asker Asker) *Resolver {
	return &Resolver{
		kb:    kb,
		asker: asker,
	}
}

// Resolve obtains a category for description from the operator.
//
// A reply of digits selects the category at that 1-based position. A reply of
// letters names a category, which is created when missing. Any other reply,
// and any position outside the list, resolves to Uncategorized without
// learning. For every other outcome the description is stored verbatim as a
// keyword of the chosen category.
func (r *Resolver) Resolve(ctx context.Context, description string) (model.Resolution, error) {
	categories, err := r.kb.ListCategories(ctx)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("failed to list categories: %w", err)
	}

	prompt := fmt.Sprintf("No category found for '%s'. Please select category or add new one", description)
	answer, err := r.asker.Ask(ctx, prompt, categories)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("failed to read operator choice: %w", err)
	}

	choice := strings.TrimSpace(answer)
	res := model.Resolution{Status: model.StatusOperator}

	switch {
	case isDigits(choice):
		n, convErr := strconv.Atoi(choice)
		if convErr != nil || n < 1 || n > len(categories) {
			return uncategorized(choice, fmt.Sprintf("position outside 1..%d", len(categories))), nil
		}
		res.Category = categories[n-1]

	case isLetters(choice):
		if model.IsReservedCategory(choice) {
			return uncategorized(choice, "reserved category name"), nil
		}
		res.Category = choice

		exists, existsErr := r.kb.CategoryExists(ctx, choice)
		if existsErr != nil {
			return model.Resolution{}, existsErr
		}
		if !exists {
			slog.Info("adding new category", "category", choice)
			added, addErr := r.kb.AddCategory(ctx, choice)
			if addErr != nil {
				return model.Resolution{}, fmt.Errorf("failed to add category %q: %w", choice, addErr)
			}
			res.Created = added
		}

	default:
		return uncategorized(choice, "neither a position nor a category name"), nil
	}

	learned, err := r.kb.AddKeyword(ctx, res.Category, description)
	if err != nil {
		return model.Resolution{}, fmt.Errorf("failed to learn keyword: %w", err)
	}
	res.Learned = learned
	if learned {
		slog.Info("keyword added", "category", res.Category, "keyword", description)
	}

	return res, nil
}

func uncategorized(choice, reason string) model.Resolution {
	slog.Debug("operator choice not usable",
		"choice", choice,
		"reason", reason,
		"error", common.ErrInvalidOperatorInput)
	return model.Resolution{
		Category: model.CategoryUncategorized,
		Status:   model.StatusUncategorized,
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
