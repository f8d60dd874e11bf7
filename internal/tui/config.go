package tui

import (
	"io"

	"github.com/Veraticus/kategori/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Input  io.Reader
	Output io.Writer
	Width  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme: themes.Default,
		Width: 80,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithWidth sets the initial terminal width.
func WithWidth(width int) Option {
	return func(c *Config) {
		c.Width = width
	}
}

// WithIO replaces the terminal with the given input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Config) {
		c.Input = in
		c.Output = out
	}
}
