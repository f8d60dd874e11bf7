// Package tui provides a Bubble Tea category picker for the import prompt.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/kategori/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the picker state for one prompt.
type Model struct {
	theme   themes.Theme
	keymap  KeyMap
	help    help.Model
	input   textinput.Model
	prompt  string
	reply   string
	options []string
	cursor  int
	width   int
	done    bool
	aborted bool
}

// NewModel creates a picker for the given prompt and categories.
func NewModel(prompt string, options []string, cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "type a new category, or pick one above"
	ti.Prompt = "› "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)
	ti.CharLimit = 64
	ti.Focus()

	return Model{
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		input:   ti,
		prompt:  prompt,
		options: options,
		width:   cfg.Width,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Skip):
			m.reply = ""
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Select):
			m.reply = m.answer()
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keymap.Home):
			m.cursor = 0
			return m, nil
		case key.Matches(msg, m.keymap.End):
			if len(m.options) > 0 {
				m.cursor = len(m.options) - 1
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// answer returns the typed text when present, otherwise the highlighted
// category's 1-based number so the resolver treats both paths alike.
func (m Model) answer() string {
	if typed := m.input.Value(); strings.TrimSpace(typed) != "" {
		return typed
	}
	if len(m.options) == 0 {
		return ""
	}
	return strconv.Itoa(m.cursor + 1)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.prompt))
	b.WriteString("\n\n")

	if len(m.options) == 0 {
		b.WriteString(m.theme.Muted.Render("No categories found."))
		b.WriteString("\n")
	}
	for i, name := range m.options {
		line := fmt.Sprintf("%2d. %s", i+1, name)
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("> " + line))
		} else {
			b.WriteString(m.theme.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	box := m.theme.RoundedBox
	if m.width > 4 {
		box = box.Width(m.width - 2)
	}
	return box.Render(b.String()) + "\n" + m.help.View(m.keymap)
}

// Reply returns the operator's answer once the picker has finished.
func (m Model) Reply() (string, bool) {
	return m.reply, m.done
}

// Aborted reports whether the operator pressed Ctrl+C.
func (m Model) Aborted() bool {
	return m.aborted
}
