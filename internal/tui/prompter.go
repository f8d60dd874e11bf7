package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/kategori/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the operator aborts the import from the picker.
var ErrAborted = errors.New("import aborted by operator")

// Asker implements engine.Asker with a Bubble Tea picker. Each question runs
// its own short-lived program so line output from the reporter stays intact
// between prompts.
type Asker struct {
	cfg Config
}

// Ensure we implement the interface.
var _ engine.Asker = (*Asker)(nil)

// NewAsker creates a TUI asker.
func NewAsker(opts ...Option) *Asker {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Asker{cfg: cfg}
}

// Ask implements engine.Asker.
func (a *Asker) Ask(ctx context.Context, prompt string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.cfg.Input != nil {
		programOpts = append(programOpts, tea.WithInput(a.cfg.Input))
	}
	if a.cfg.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(a.cfg.Output))
	}

	final, err := tea.NewProgram(NewModel(prompt, options, a.cfg), programOpts...).Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to run category picker: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected picker model %T", final)
	}
	if m.Aborted() {
		return "", ErrAborted
	}
	reply, _ := m.Reply()
	return reply, nil
}
