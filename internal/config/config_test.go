package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(newViper(nil))
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/kategori/kategori.db"), s.Database.Path)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, "skip", s.Import.OnError)
	assert.False(t, s.Import.TUI)

	opts := s.CSVOptions()
	assert.Equal(t, "Transaksjonsdato", opts.DateColumn)
	assert.Equal(t, "Beskrivelse", opts.DescriptionColumn)
	assert.Equal(t, "Beløp", opts.AmountColumn)
	assert.Equal(t, rune(0), opts.Delimiter)
}

func TestLoad_Overrides(t *testing.T) {
	s, err := Load(newViper(map[string]any{
		"database.path":        "/tmp/k.db",
		"logging.level":        "DEBUG",
		"logging.format":       "json",
		"import.amount_column": "Amount",
		"import.delimiter":     ";",
		"import.on_error":      "Abort",
		"import.format":        "qfx",
		"import.tui":           true,
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/k.db", s.Database.Path)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "abort", s.Import.OnError)
	assert.True(t, s.Import.TUI)
	assert.Equal(t, ';', s.CSVOptions().Delimiter)
	assert.Equal(t, "Amount", s.CSVOptions().AmountColumn)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		values map[string]any
		name   string
	}{
		{name: "log level", values: map[string]any{"logging.level": "loud"}},
		{name: "log format", values: map[string]any{"logging.format": "xml"}},
		{name: "failure policy", values: map[string]any{"import.on_error": "retry"}},
		{name: "input format", values: map[string]any{"import.format": "xlsx"}},
		{name: "long delimiter", values: map[string]any{"import.delimiter": ";;"}},
		{name: "quote delimiter", values: map[string]any{"import.delimiter": `"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(tt.values))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		input string
		want  rune
	}{
		{input: "", want: 0},
		{input: ",", want: ','},
		{input: "tab", want: '\t'},
		{input: `\t`, want: '\t'},
		{input: "|", want: '|'},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := Settings{Import: ImportSettings{Delimiter: tt.input}}
			got, err := s.delimiter()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("KATEGORI_TEST_DOTENV=from-file\nKATEGORI_TEST_PRESET=from-file\n"), 0o600))

	t.Setenv("KATEGORI_TEST_PRESET", "from-env")
	t.Setenv("KATEGORI_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("KATEGORI_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "from-file", os.Getenv("KATEGORI_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("KATEGORI_TEST_PRESET"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("KATEGORI_TEST_DIR", "/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandPath("~/x.db"))
	assert.Equal(t, "/data/x.db", ExpandPath("$KATEGORI_TEST_DIR/x.db"))
	assert.Equal(t, "/abs/x.db", ExpandPath("/abs/x.db"))
}
