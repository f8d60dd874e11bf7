// Package testutil provides seeded SQLite stores for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/kategori/internal/storage"
)

// Keyword pairs a category with one of its keywords.
type Keyword struct {
	Category string
	Keyword  string
}

// BasicCategories is the category set most tests start from, in display order.
var BasicCategories = []string{"Dagligvarer", "Transport", "Bolig"}

// BasicKeywords teaches a handful of common Norwegian merchants.
var BasicKeywords = []Keyword{
	{Category: "Dagligvarer", Keyword: "REMA 1000"},
	{Category: "Dagligvarer", Keyword: "KIWI"},
	{Category: "Transport", Keyword: "RUTER"},
	{Category: "Bolig", Keyword: "HUSLEIE"},
}

// TestDB is a migrated store with the categories it was seeded with.
type TestDB struct {
	Storage    *storage.SQLiteStorage
	Path       string
	Categories []string
}

type options struct {
	categories []string
	keywords   []Keyword
	onDisk     bool
}

// Option configures SetupTestDB.
type Option func(*options)

// WithCategories seeds the given categories in order.
func WithCategories(names ...string) Option {
	return func(o *options) {
		o.categories = append(o.categories, names...)
	}
}

// WithKeywords seeds keywords. Their categories must be seeded too.
func WithKeywords(keywords ...Keyword) Option {
	return func(o *options) {
		o.keywords = append(o.keywords, keywords...)
	}
}

// WithBasicFixture seeds BasicCategories and BasicKeywords.
func WithBasicFixture() Option {
	return func(o *options) {
		o.categories = append(o.categories, BasicCategories...)
		o.keywords = append(o.keywords, BasicKeywords...)
	}
}

// OnDisk stores the database in a temporary file instead of memory, for
// tests that reopen it by path.
func OnDisk() Option {
	return func(o *options) {
		o.onDisk = true
	}
}

// SetupTestDB creates a migrated store, seeds it and closes it when the test ends.
func SetupTestDB(t *testing.T, opts ...Option) *TestDB {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	path := ":memory:"
	if o.onDisk {
		path = filepath.Join(t.TempDir(), "kategori.db")
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, name := range o.categories {
		if _, err := store.AddCategory(ctx, name); err != nil {
			t.Fatalf("failed to seed category %q: %v", name, err)
		}
	}
	for _, kw := range o.keywords {
		if _, err := store.AddKeyword(ctx, kw.Category, kw.Keyword); err != nil {
			t.Fatalf("failed to seed keyword %q: %v", kw.Keyword, err)
		}
	}

	return &TestDB{
		Storage:    store,
		Path:       path,
		Categories: o.categories,
	}
}
