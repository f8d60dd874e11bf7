package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/kategori/internal/engine"
	"github.com/Veraticus/kategori/internal/model"
	"github.com/Veraticus/kategori/internal/service"
	"github.com/schollz/progressbar/v3"
)

// Prompter implements the line-based operator prompt and import progress output.
type Prompter struct {
	writer      io.Writer
	reader      *NonBlockingReader
	progressBar *progressbar.ProgressBar
	total       int
	showBar     bool
	mu          sync.Mutex
}

// PrompterOption configures a Prompter.
type PrompterOption func(*Prompter)

// WithProgressBar enables or disables the progress bar.
func WithProgressBar(enabled bool) PrompterOption {
	return func(p *Prompter) {
		p.showBar = enabled
	}
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
func NewCLIPrompter(reader io.Reader, writer io.Writer, opts ...PrompterOption) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	p := &Prompter{
		reader:  NewNonBlockingReader(reader),
		writer:  writer,
		showBar: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ask lists the categories numbered from 1 and reads one line of input.
func (p *Prompter) Ask(ctx context.Context, prompt string, options []string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintln(p.writer, formatCategoryList(options)); err != nil {
		return "", fmt.Errorf("failed to write category list: %w", err)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, ErrInputCancelled) && ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// BeginRow prints the row header, its details and a search link.
func (p *Prompter) BeginRow(_ context.Context, n, total int, txn model.RawTransaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.updateProgress(total)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(BoldStyle.Render(fmt.Sprintf("Processing transaction %d of %d", n, total)))
	b.WriteString("\n")
	b.WriteString(formatRawTransaction(txn))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(SearchIcon + " " + SearchURL(txn.Description)))

	if _, err := fmt.Fprintln(p.writer, b.String()); err != nil {
		slog.Warn("Failed to write row header", "error", err)
	}
}

// RowSkipped reports a malformed row that was not written.
func (p *Prompter) RowSkipped(_ context.Context, txn model.RawTransaction, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := fmt.Sprintf("Skipped row %d: %v", txn.Row, err)
	if _, writeErr := fmt.Fprintln(p.writer, FormatWarning(msg)); writeErr != nil {
		slog.Warn("Failed to write skip warning", "error", writeErr)
	}
}

// ShowCompletion displays the import statistics.
func (p *Prompter) ShowCompletion(stats service.CompletionStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar != nil {
		_ = p.progressBar.Finish()
	}

	summary := fmt.Sprintf("%s Results:\n", ChartIcon) +
		fmt.Sprintf("  • Rows read: %d\n", stats.TotalRows) +
		fmt.Sprintf("  • Records written: %d\n", stats.Written) +
		fmt.Sprintf("  • Matched by keyword: %d\n", stats.AutoMatched) +
		fmt.Sprintf("  • Chosen by you: %d\n", stats.OperatorChosen) +
		fmt.Sprintf("  • Uncategorized: %d\n", stats.Uncategorized) +
		fmt.Sprintf("  • Income: %d\n", stats.Income) +
		fmt.Sprintf("  • Unknown (zero amount): %d\n", stats.Unknown) +
		fmt.Sprintf("  • Skipped: %d\n", stats.Skipped) +
		fmt.Sprintf("  • New keywords: %d\n", stats.NewKeywords) +
		fmt.Sprintf("  • New categories: %d\n", stats.NewCategories) +
		fmt.Sprintf("  • Time taken: %s", stats.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(p.writer, RenderBox("Import Complete", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

func (p *Prompter) initProgressBar(total int) {
	p.total = total
	p.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *Prompter) updateProgress(total int) {
	if !p.showBar {
		return
	}
	if p.progressBar == nil || p.total != total {
		p.initProgressBar(total)
	}
	if err := p.progressBar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		slog.Warn("Failed to write newline after progress bar", "error", err)
	}
}

func formatCategoryList(categories []string) string {
	if len(categories) == 0 {
		return SubtleStyle.Render("No categories found.")
	}

	var b strings.Builder
	b.WriteString(BoldStyle.Render("Categories:"))
	for i, name := range categories {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, name)
	}
	return b.String()
}

func formatRawTransaction(txn model.RawTransaction) string {
	date := "unknown date"
	if txn.Date != nil {
		date = txn.Date.Format("02.01.2006")
	}

	amount := FormatSignedAmount(txn.Amount)
	if txn.ParseErr != nil {
		amount = ErrorStyle.Render("unreadable amount")
	}

	return fmt.Sprintf("  Date: %s\n  Description: %s\n  Amount: %s", date, txn.Description, amount)
}

var (
	_ engine.Asker    = (*Prompter)(nil)
	_ engine.Reporter = (*Prompter)(nil)
)
