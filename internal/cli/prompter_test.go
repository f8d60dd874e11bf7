package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		options       []string
		expectedReply string
		expectedOut   []string
		expectedErr   error
		cancelled     bool
	}{
		{
			name:          "index reply",
			input:         "2\n",
			options:       []string{"Food", "Transport"},
			expectedReply: "2",
			expectedOut:   []string{"Categories:", "1. Food", "2. Transport", "Please select"},
		},
		{
			name:          "name reply keeps surrounding spaces",
			input:         "  Travel \r\n",
			options:       []string{"Food"},
			expectedReply: "  Travel ",
		},
		{
			name:          "no categories yet",
			input:         "Food\n",
			expectedReply: "Food",
			expectedOut:   []string{"No categories found."},
		},
		{
			name:          "last line without newline",
			input:         "Food",
			expectedReply: "Food",
		},
		{
			name:        "end of input",
			input:       "",
			expectedErr: io.EOF,
		},
		{
			name:        "cancelled context",
			input:       "1\n",
			cancelled:   true,
			expectedErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewCLIPrompter(strings.NewReader(tt.input), &out, WithProgressBar(false))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelled {
				cancel()
			}

			reply, err := p.Ask(ctx, "Please select category or add new one", tt.options)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedReply, reply)
			for _, want := range tt.expectedOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestPrompter_BeginRow(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out, WithProgressBar(false))

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p.BeginRow(context.Background(), 3, 10, model.RawTransaction{
		Row:         3,
		Date:        &date,
		Description: "REMA 1000 OSLO",
		Amount:      decimal.RequireFromString("-150.5"),
	})

	got := out.String()
	assert.Contains(t, got, "Processing transaction 3 of 10")
	assert.Contains(t, got, "15.03.2024")
	assert.Contains(t, got, "REMA 1000 OSLO")
	assert.Contains(t, got, "-150.50 NOK")
	assert.Contains(t, got, "https://www.google.com/search?q=REMA+1000+OSLO")
}

func TestPrompter_BeginRowWithProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out)

	for i := 1; i <= 2; i++ {
		p.BeginRow(context.Background(), i, 2, model.RawTransaction{Row: i, Description: "KIWI"})
	}

	require.NotNil(t, p.progressBar)
	assert.Equal(t, 2, p.total)
	assert.Contains(t, out.String(), "unknown date")
}

func TestPrompter_RowSkipped(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out, WithProgressBar(false))

	p.RowSkipped(context.Background(), model.RawTransaction{Row: 7}, errors.New("missing date"))

	assert.Contains(t, out.String(), "Skipped row 7: missing date")
}

func TestPrompter_ShowCompletion(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out, WithProgressBar(false))

	p.ShowCompletion(service.CompletionStats{
		TotalRows:      5,
		Written:        4,
		AutoMatched:    2,
		OperatorChosen: 1,
		Income:         1,
		Skipped:        1,
		NewKeywords:    1,
		Duration:       3 * time.Second,
	})

	got := out.String()
	assert.Contains(t, got, "Import Complete")
	assert.Contains(t, got, "Rows read: 5")
	assert.Contains(t, got, "Records written: 4")
	assert.Contains(t, got, "Matched by keyword: 2")
	assert.Contains(t, got, "Skipped: 1")
	assert.Contains(t, got, "Time taken: 3s")
}

func TestFormatCategoryList(t *testing.T) {
	assert.Contains(t, formatCategoryList(nil), "No categories found.")

	list := formatCategoryList([]string{"Food", "Bil", "Hus"})
	assert.Contains(t, list, "1. Food")
	assert.Contains(t, list, "3. Hus")
}
