package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunestats/internal/auth"
	"github.com/desertthunder/tunestats/internal/shared"
	"github.com/desertthunder/tunestats/internal/ui"
	"github.com/urfave/cli/v3"
)

// Dashboard launches the interactive terminal UI.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	provider, err := r.Provider()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(auth.WithProvider(ctx, provider))
	defer cancel()

	model, err := ui.NewModel(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
