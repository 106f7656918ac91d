package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts ...Option) error {
	m := New(ctx, opts...)
	if m.config.Verifier == nil {
		return fmt.Errorf("verifier is required")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
