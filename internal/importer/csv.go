package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/kategori/internal/model"
	"github.com/shopspring/decimal"
)

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	// Delimiter is the field separator; zero detects ';' or ','.
	Delimiter rune
}

// DefaultCSVOptions returns the column names used by Norwegian bank exports.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		DateColumn:        "Transaksjonsdato",
		DescriptionColumn: "Beskrivelse",
		AmountColumn:      "Beløp",
	}
}

// CSVReader reads delimited bank exports.
type CSVReader struct {
	opts CSVOptions
}

// NewCSVReader creates a CSV reader. Empty column names fall back to the defaults.
func NewCSVReader(opts CSVOptions) *CSVReader {
	defaults := DefaultCSVOptions()
	if opts.DateColumn == "" {
		opts.DateColumn = defaults.DateColumn
	}
	if opts.DescriptionColumn == "" {
		opts.DescriptionColumn = defaults.DescriptionColumn
	}
	if opts.AmountColumn == "" {
		opts.AmountColumn = defaults.AmountColumn
	}
	return &CSVReader{opts: opts}
}

// Read parses every data row. Cells that cannot be parsed do not fail the
// read: the date is left nil or ParseErr is set, and the engine decides.
func (c *CSVReader) Read(ctx context.Context, r io.Reader) ([]model.RawTransaction, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	delimiter := c.opts.Delimiter
	if delimiter == 0 {
		delimiter = detectDelimiter(content)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []model.RawTransaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	dateIdx, descIdx, amountIdx, err := c.columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var rows []model.RawTransaction
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		txn := model.RawTransaction{
			Row:         row,
			Date:        ParseDate(cell(record, dateIdx)),
			Description: cell(record, descIdx),
		}
		amount, err := ParseAmount(cell(record, amountIdx))
		if err != nil {
			txn.ParseErr = err
		} else {
			txn.Amount = amount
		}
		rows = append(rows, txn)
	}

	return rows, nil
}

func (c *CSVReader) columnIndexes(header []string) (date, desc, amount int, err error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q (header: %s)", ErrMissingColumn, name, strings.Join(header, ", "))
		}
		return i, nil
	}

	if date, err = lookup(c.opts.DateColumn); err != nil {
		return
	}
	if desc, err = lookup(c.opts.DescriptionColumn); err != nil {
		return
	}
	amount, err = lookup(c.opts.AmountColumn)
	return
}

func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

// detectDelimiter picks ';' or ',' by counting them in the header line.
func detectDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

var dateLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
}

// ParseDate reads a day-first date from the first ten characters of s.
// It returns nil when no layout matches.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 10 {
		s = string([]rune(s)[:10])
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// ParseAmount reads a signed amount written with either ',' or '.' as the
// decimal separator and spaces, non-breaking spaces or the other separator
// as thousands separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		case '\u2212':
			return '-'
		}
		return r
	}, s)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	commas := strings.Count(cleaned, ",")
	dots := strings.Count(cleaned, ".")
	switch {
	case commas > 0 && dots > 0:
		// The separator that appears last is the decimal one.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case commas == 1:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case commas > 1:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case dots > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	return amount, nil
}

var _ Reader = (*CSVReader)(nil)
