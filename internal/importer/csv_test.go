package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	tests := []struct {
		want  *time.Time
		input string
	}{
		{input: "15.03.2024", want: date(2024, 3, 15)},
		{input: "15/03/2024", want: date(2024, 3, 15)},
		{input: "15-03-2024", want: date(2024, 3, 15)},
		{input: "05.04.2024", want: date(2024, 4, 5)},
		{input: "2024-03-15", want: date(2024, 3, 15)},
		{input: "15.03.2024 13:45:00", want: date(2024, 3, 15)},
		{input: "2024-03-15T13:45:00Z", want: date(2024, 3, 15)},
		{input: " 1.2.2024", want: date(2024, 2, 1)},
		{input: "31.02.2024"},
		{input: "not a date"},
		{input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "-150.5", want: "-150.5"},
		{input: "-150,50", want: "-150.5"},
		{input: "200", want: "200"},
		{input: "+200,00", want: "200"},
		{input: "-1 234,56", want: "-1234.56"},
		{input: "-1\u00a0234,56", want: "-1234.56"},
		{input: "1.234,56", want: "1234.56"},
		{input: "1,234.56", want: "1234.56"},
		{input: "1.234.567", want: "1234567"},
		{input: "\u2212 49,90", want: "-49.9"},
		{input: "0", want: "0"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "12,34,56.7.8", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCSVReader_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("semicolon export with defaults", func(t *testing.T) {
		data := "\xef\xbb\xbfTransaksjonsdato;Beskrivelse;Beløp;Valuta\n" +
			"15.03.2024;REMA 1000 OSLO;-150,50;NOK\n" +
			"16.03.2024;Bonus mars;200,00;NOK\n" +
			"ukjent;KIOSK;-10;NOK\n" +
			"17.03.2024;VIPPS;abc;NOK\n"

		rows, err := NewCSVReader(CSVOptions{}).Read(ctx, strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, 1, rows[0].Row)
		assert.Equal(t, "REMA 1000 OSLO", rows[0].Description)
		assert.True(t, decimal.RequireFromString("-150.5").Equal(rows[0].Amount))
		require.NotNil(t, rows[0].Date)
		assert.Equal(t, 15, rows[0].Date.Day())

		assert.True(t, decimal.NewFromInt(200).Equal(rows[1].Amount))

		assert.Nil(t, rows[2].Date)
		assert.NoError(t, rows[2].ParseErr)

		assert.ErrorIs(t, rows[3].ParseErr, ErrInvalidAmount)
	})

	t.Run("comma export with custom columns", func(t *testing.T) {
		data := "Date,Text,Amount\n" +
			"2024-03-15,\"Coop, Majorstuen\",-99.90\n"

		reader := NewCSVReader(CSVOptions{
			DateColumn:        "Date",
			DescriptionColumn: "Text",
			AmountColumn:      "Amount",
		})
		rows, err := reader.Read(ctx, strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Coop, Majorstuen", rows[0].Description)
		assert.True(t, decimal.RequireFromString("-99.9").Equal(rows[0].Amount))
	})

	t.Run("explicit delimiter", func(t *testing.T) {
		data := "Transaksjonsdato\tBeskrivelse\tBeløp\n15.03.2024\tKIWI\t-1,5\n"

		rows, err := NewCSVReader(CSVOptions{Delimiter: '\t'}).Read(ctx, strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "KIWI", rows[0].Description)
	})

	t.Run("short row leaves cells empty", func(t *testing.T) {
		data := "Transaksjonsdato;Beskrivelse;Beløp\n15.03.2024;KIWI\n"

		rows, err := NewCSVReader(CSVOptions{}).Read(ctx, strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Error(t, rows[0].ParseErr)
	})

	t.Run("missing column", func(t *testing.T) {
		data := "Dato;Tekst;Beløp\n15.03.2024;KIWI;-1\n"

		_, err := NewCSVReader(CSVOptions{}).Read(ctx, strings.NewReader(data))
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("empty file", func(t *testing.T) {
		rows, err := NewCSVReader(CSVOptions{}).Read(ctx, strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter([]byte("a;b;c\n1,5;2;3")))
	assert.Equal(t, ',', detectDelimiter([]byte("a,b,c\n1;2;3")))
	assert.Equal(t, ',', detectDelimiter([]byte("single")))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, FormatOFX, DetectFormat("/tmp/statement.QFX"))
	assert.Equal(t, FormatOFX, DetectFormat("export.ofx"))
	assert.Equal(t, FormatCSV, DetectFormat("export.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("export"))

	format, err := ParseFormat("OFX")
	require.NoError(t, err)
	assert.Equal(t, FormatOFX, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Format(""), format)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transactions.csv")
	data := "Transaksjonsdato;Beskrivelse;Beløp\n15.03.2024;KIWI;-1,5\n16.03.2024;REMA;-2\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	rows, err := ReadFile(context.Background(), path, "", DefaultCSVOptions())
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = ReadFile(context.Background(), filepath.Join(dir, "missing.csv"), FormatCSV, DefaultCSVOptions())
	assert.Error(t, err)
}
