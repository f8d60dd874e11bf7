package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/kategori/internal/config"
	"github.com/Veraticus/kategori/internal/storage"
	"github.com/spf13/viper"
)

// KATEGORI_IMPORT_ON_ERROR maps to import.on_error.
var envKeyReplacer = strings.NewReplacer(".", "_")

func loadSettings() (*config.Settings, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(settings.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
