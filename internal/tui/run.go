package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive dashboard and blocks until the user quits or
// ctx is canceled.
func Run(ctx context.Context, rec *Recorder, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Fetcher == nil {
		return errors.New("dashboard fetcher is required")
	}
	cfg.Context = ctx

	m := newModel(cfg)
	defer m.teardown()

	var root tea.Model = m
	if rec != nil {
		root = recordingModel{rec: rec, inner: m}
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(root, programOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
