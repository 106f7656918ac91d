// Package tui implements the interactive single-address verification screen.
package tui

import (
	"github.com/Veraticus/pinpoint/internal/service"
	"github.com/Veraticus/pinpoint/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Verifier service.Verifier
	// History backs the history view. Nil hides it.
	History      service.RecordStore
	Theme        themes.Theme
	Width        int
	Height       int
	HistoryLimit int
	AltScreen    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		Width:        80,
		Height:       24,
		HistoryLimit: 10,
		AltScreen:    true,
	}
}

// WithVerifier sets the verification service.
func WithVerifier(v service.Verifier) Option {
	return func(c *Config) {
		c.Verifier = v
	}
}

// WithHistory enables the history view.
func WithHistory(store service.RecordStore, limit int) Option {
	return func(c *Config) {
		c.History = store
		if limit > 0 {
			c.HistoryLimit = limit
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
