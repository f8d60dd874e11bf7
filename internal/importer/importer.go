// Package importer reads bank exports into raw transactions.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/kategori/internal/common"
	"github.com/Veraticus/kategori/internal/model"
)

// Import errors.
var (
	// ErrMissingColumn is returned when a CSV header lacks a configured column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidAmount marks an amount cell that could not be read.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Reader parses one export into rows in source order.
type Reader interface {
	Read(ctx context.Context, r io.Reader) ([]model.RawTransaction, error)
}

// Format names a supported export format.
type Format string

// Supported formats.
const (
	FormatCSV Format = "csv"
	FormatOFX Format = "ofx"
)

// ParseFormat validates a format name. An empty name means detect from the
// file extension.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "":
		return "", nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatOFX, "qfx":
		return FormatOFX, nil
	}
	return "", fmt.Errorf("%w: unknown import format %q (want csv or ofx)", common.ErrInvalidConfig, s)
}

// DetectFormat guesses the format from a file name.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return FormatOFX
	default:
		return FormatCSV
	}
}

// NewReader returns the reader for format.
func NewReader(format Format, opts CSVOptions) (Reader, error) {
	switch format {
	case FormatCSV:
		return NewCSVReader(opts), nil
	case FormatOFX:
		return NewOFXReader(), nil
	}
	return nil, fmt.Errorf("%w: unknown import format %q", common.ErrInvalidConfig, format)
}

// ReadFile opens path and parses it with the reader for format. An empty
// format is detected from the file extension.
func ReadFile(ctx context.Context, path string, format Format, opts CSVOptions) ([]model.RawTransaction, error) {
	if format == "" {
		format = DetectFormat(path)
	}

	reader, err := NewReader(format, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path is given by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := reader.Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	slog.Info("Read transactions", "path", path, "format", format, "rows", len(rows))
	return rows, nil
}
