package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/taskchat/internal/monitor"
)

// Run starts the pending monitor and the chat program, and blocks until the
// user quits or ctx is cancelled. The monitor is stopped before Run returns.
func Run(ctx context.Context, opts Options, tasks monitor.Lister, mcfg monitor.Config) error {
	app := NewApp(ctx, opts)

	handle, err := monitor.Start(ctx, tasks, mcfg, app.Publish)
	if err != nil {
		return err
	}
	defer handle.Stop()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
