package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModel_Update(t *testing.T) {
	options := []string{"Food", "Transport", "Hus"}

	tests := []struct {
		name          string
		options       []string
		msgs          []tea.Msg
		expectedReply string
		expectedDone  bool
		aborted       bool
	}{
		{
			name:          "enter picks highlighted category",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyEnter)},
			expectedReply: "1",
			expectedDone:  true,
		},
		{
			name:          "down moves the cursor",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyDown), keyPress(tea.KeyDown), keyPress(tea.KeyEnter)},
			expectedReply: "3",
			expectedDone:  true,
		},
		{
			name:          "cursor stops at the last category",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyDown), keyPress(tea.KeyDown), keyPress(tea.KeyDown), keyPress(tea.KeyEnter)},
			expectedReply: "3",
			expectedDone:  true,
		},
		{
			name:          "cursor stops at the first category",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyUp), keyPress(tea.KeyEnter)},
			expectedReply: "1",
			expectedDone:  true,
		},
		{
			name:          "end jumps to the last category",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyEnd), keyPress(tea.KeyEnter)},
			expectedReply: "3",
			expectedDone:  true,
		},
		{
			name:          "typed text wins over the cursor",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyDown), typeText("Travel"), keyPress(tea.KeyEnter)},
			expectedReply: "Travel",
			expectedDone:  true,
		},
		{
			name:          "typed digits are passed through",
			options:       options,
			msgs:          []tea.Msg{typeText("7"), keyPress(tea.KeyEnter)},
			expectedReply: "7",
			expectedDone:  true,
		},
		{
			name:          "enter without categories gives an empty reply",
			msgs:          []tea.Msg{keyPress(tea.KeyEnter)},
			expectedReply: "",
			expectedDone:  true,
		},
		{
			name:          "escape leaves the row uncategorized",
			options:       options,
			msgs:          []tea.Msg{keyPress(tea.KeyDown), keyPress(tea.KeyEsc)},
			expectedReply: "",
			expectedDone:  true,
		},
		{
			name:    "ctrl+c aborts",
			options: options,
			msgs:    []tea.Msg{keyPress(tea.KeyCtrlC)},
			aborted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel("Pick one", tt.options, defaultConfig())
			m = send(t, m, tt.msgs...)

			reply, done := m.Reply()
			assert.Equal(t, tt.expectedDone, done)
			assert.Equal(t, tt.expectedReply, reply)
			assert.Equal(t, tt.aborted, m.Aborted())
		})
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel("No category found for 'KIWI'.", []string{"Food", "Transport"}, defaultConfig())
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 20}, keyPress(tea.KeyDown))

	view := m.View()
	assert.Contains(t, view, "No category found for 'KIWI'.")
	assert.Contains(t, view, " 1. Food")
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, " 2. Transport")

	empty := NewModel("Pick", nil, defaultConfig())
	assert.Contains(t, empty.View(), "No categories found.")

	done := send(t, m, keyPress(tea.KeyEnter))
	assert.Empty(t, done.View())
}

func TestAsker_Ask(t *testing.T) {
	t.Run("runs the picker on the given input", func(t *testing.T) {
		var out bytes.Buffer
		asker := NewAsker(WithIO(strings.NewReader("Travel\r"), &out))

		reply, err := asker.Ask(context.Background(), "Pick", []string{"Food"})
		require.NoError(t, err)
		assert.Equal(t, "Travel", reply)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		asker := NewAsker(WithIO(strings.NewReader(""), &bytes.Buffer{}))
		_, err := asker.Ask(ctx, "Pick", []string{"Food"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
