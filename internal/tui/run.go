package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the breakdown screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Store == nil {
		return fmt.Errorf("storage is required")
	}
	if cfg.Aggregator == nil {
		return fmt.Errorf("aggregator is required")
	}

	program := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
