package pattern

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/kategori/internal/model"
)

// MatcherImpl implements Matcher over a KeywordSource. Keywords are read on
// every call so that a keyword learned for one row applies to the next.
type MatcherImpl struct {
	source KeywordSource
}

// NewMatcher creates a new keyword matcher.
func NewMatcher(source KeywordSource) *MatcherImpl {
	return &MatcherImpl{source: source}
}

// FindCategory returns the category of the best keyword contained in description.
func (m *MatcherImpl) FindCategory(ctx context.Context, description string) (string, bool, error) {
	keywords, err := m.source.Keywords(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to load keywords: %w", err)
	}

	best, ok := Best(description, keywords)
	if !ok {
		return "", false, nil
	}
	return best.Category, true, nil
}

// Best returns the winning keyword for description. A keyword matches when
// its lowercase form is a substring of the lowercase description. The longest
// keyword (in runes) wins; ties go to the lexicographically smaller keyword
// and then the smaller category. Empty keywords never match.
func Best(description string, keywords []model.Keyword) (model.Keyword, bool) {
	matches := Matches(description, keywords)
	if len(matches) == 0 {
		return model.Keyword{}, false
	}
	return matches[0], true
}

// Matches returns every keyword contained in description, best first.
func Matches(description string, keywords []model.Keyword) []model.Keyword {
	haystack := strings.ToLower(description)

	var matches []model.Keyword
	for _, kw := range keywords {
		if kw.Keyword == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw.Keyword)) {
			matches = append(matches, kw)
		}
	}

	sortByPrecedence(matches)
	return matches
}

// sortByPrecedence orders keywords longest first, then by keyword and category.
func sortByPrecedence(keywords []model.Keyword) {
	sort.SliceStable(keywords, func(i, j int) bool {
		a, b := keywords[i], keywords[j]
		la, lb := utf8.RuneCountInString(a.Keyword), utf8.RuneCountInString(b.Keyword)
		if la != lb {
			return la > lb
		}
		if a.Keyword != b.Keyword {
			return a.Keyword < b.Keyword
		}
		return a.Category < b.Category
	})
}

var _ Matcher = (*MatcherImpl)(nil)
