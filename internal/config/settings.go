// Package config loads kategori settings from viper, the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/importer"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/kategori/kategori.db"

// Settings is the typed view of the configuration.
type Settings struct {
	Database DatabaseSettings
	Logging  LoggingSettings
	Import   ImportSettings
}

// DatabaseSettings configures the SQLite store.
type DatabaseSettings struct {
	Path string
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string
	Format string
}

// ImportSettings configures how bank exports are read and how bad rows are handled.
type ImportSettings struct {
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	Delimiter         string
	OnError           string
	Format            string
	TUI               bool
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	csv := importer.DefaultCSVOptions()

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("import.date_column", csv.DateColumn)
	v.SetDefault("import.description_column", csv.DescriptionColumn)
	v.SetDefault("import.amount_column", csv.AmountColumn)
	v.SetDefault("import.delimiter", "")
	v.SetDefault("import.on_error", "skip")
	v.SetDefault("import.format", "")
	v.SetDefault("import.tui", false)
}

// Load reads and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Database: DatabaseSettings{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Logging: LoggingSettings{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
		Import: ImportSettings{
			DateColumn:        v.GetString("import.date_column"),
			DescriptionColumn: v.GetString("import.description_column"),
			AmountColumn:      v.GetString("import.amount_column"),
			Delimiter:         v.GetString("import.delimiter"),
			OnError:           strings.ToLower(v.GetString("import.on_error")),
			Format:            strings.ToLower(v.GetString("import.format")),
			TUI:               v.GetBool("import.tui"),
		},
	}

	if s.Database.Path == "" {
		s.Database.Path = ExpandPath(DefaultDatabasePath)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every setting that has a closed set of values.
func (s *Settings) Validate() error {
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}

	switch s.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, s.Logging.Format)
	}

	switch s.Import.OnError {
	case "", "skip", "abort":
	default:
		return fmt.Errorf("%w: import.on_error must be skip or abort, got %q", common.ErrInvalidConfig, s.Import.OnError)
	}

	if _, err := importer.ParseFormat(s.Import.Format); err != nil {
		return err
	}

	if _, err := s.delimiter(); err != nil {
		return err
	}

	return nil
}

// CSVOptions returns the importer options described by the settings.
func (s *Settings) CSVOptions() importer.CSVOptions {
	delim, _ := s.delimiter()
	return importer.CSVOptions{
		DateColumn:        s.Import.DateColumn,
		DescriptionColumn: s.Import.DescriptionColumn,
		AmountColumn:      s.Import.AmountColumn,
		Delimiter:         delim,
	}
}

// delimiter parses import.delimiter. Empty means auto-detect.
func (s *Settings) delimiter() (rune, error) {
	d := s.Import.Delimiter
	switch d {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("%w: import.delimiter must be a single character, got %q", common.ErrInvalidConfig, d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%w: import.delimiter %q is not allowed", common.ErrInvalidConfig, d)
	}
	return r, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
