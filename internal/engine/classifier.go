package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/pattern"
)

// Classifier turns one raw row into a ledger record.
type Classifier struct {
	matcher  pattern.Matcher
	resolver *Resolver
}

// Result is a classified record together with what the knowledge base learned.
type Result struct {
	Record  model.Record
	Learned bool
	Created bool
}

// NewClassifier creates a classifier that consults matcher first and falls
// back to resolver for expenses without a match.
func NewClassifier(matcher pattern.Matcher, resolver *Resolver) *Classifier {
	return &Classifier{
		matcher:  matcher,
		resolver: resolver,
	}
}

// Classify determines kind and category of txn. Malformed rows return an
// error wrapping common.ErrMalformedRow.
func (c *Classifier) Classify(ctx context.Context, txn model.RawTransaction) (Result, error) {
	if err := checkRow(txn); err != nil {
		return Result{}, common.NewRowError(txn.Row, txn.Description, err)
	}

	result := Result{
		Record: model.Record{
			Date:        *txn.Date,
			Description: txn.Description,
			Amount:      txn.Amount.Abs(),
		},
	}
	rec := &result.Record

	switch txn.Amount.Sign() {
	case -1:
		rec.Kind = model.KindExpense

		category, ok, err := c.matcher.FindCategory(ctx, txn.Description)
		if err != nil {
			return Result{}, common.NewRowError(txn.Row, txn.Description, err)
		}
		if ok {
			rec.Category = &category
			rec.Status = model.StatusMatched
			return result, nil
		}

		res, err := c.resolver.Resolve(ctx, txn.Description)
		if err != nil {
			return Result{}, common.NewRowError(txn.Row, txn.Description, err)
		}
		rec.Category = &res.Category
		rec.Status = res.Status
		result.Learned = res.Learned
		result.Created = res.Created

	case 1:
		income := model.CategoryIncome
		rec.Kind = IncomeKind(txn.Description)
		rec.Category = &income
		rec.Status = model.StatusFixed

	default:
		rec.Kind = model.KindUnknown
		rec.Status = model.StatusNone
	}

	return result, nil
}

// IncomeKind returns the kind of a positive amount. The markers are matched
// case-sensitively and Innbetaling takes precedence over Bonus.
func IncomeKind(description string) model.Kind {
	switch {
	case strings.Contains(description, "Innbetaling"):
		return model.KindInnbetaling
	case strings.Contains(description, "Bonus"):
		return model.KindBonus
	default:
		return model.KindReturn
	}
}

func checkRow(txn model.RawTransaction) error {
	if txn.Date == nil {
		return fmt.Errorf("%w: missing transaction date", common.ErrMalformedRow)
	}
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: blank description", common.ErrMalformedRow)
	}
	if txn.ParseErr != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedRow, txn.ParseErr)
	}
	return nil
}
