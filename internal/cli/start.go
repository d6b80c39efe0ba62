package cli

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/benchtree/internal/config"
	"github.com/mwiater/benchtree/internal/session"
	"github.com/mwiater/benchtree/internal/watch"
)

// Start runs the tool window until the user quits. Closing the window
// cancels any discovery or run still in flight.
func Start(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	box := &inbox{}
	out := &programWriter{}
	sess, err := session.FromConfig(cfg, out, box, logger)
	if err != nil {
		return err
	}
	m := newModel(ctx, sess, box)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.send = p.Send
	out.send = p.Send

	if cfg.Watch {
		w, err := watch.New(cfg.Workspace, func(paths []string) {
			p.Send(watchMsg(paths))
		}, watch.Options{Debounce: cfg.WatchDebounce, Logger: logger})
		if err != nil {
			return fmt.Errorf("watch workspace: %w", err)
		}
		defer w.Stop()
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch workspace: %w", err)
		}
	}

	_, err = p.Run()
	return err
}
