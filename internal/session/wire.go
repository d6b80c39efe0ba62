package session

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/mwiater/benchtree/internal/config"
	"github.com/mwiater/benchtree/internal/discovery"
	"github.com/mwiater/benchtree/internal/gotool"
	"github.com/mwiater/benchtree/internal/runner"
)

// FromConfig builds a session backed by the go toolchain. Build and run
// output goes to out; user-facing errors go to n.
func FromConfig(cfg *config.Config, out io.Writer, n runner.Notifier, logger *slog.Logger) (*Session, error) {
	root, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return nil, err
	}
	tc := &gotool.Toolchain{
		OutputDir:      cfg.OutputDir,
		Active:         cfg.ActiveConfiguration,
		Configurations: cfg.Configurations,
		Output:         out,
		Logger:         logger,
	}
	return New(Options{
		NewDiscoverer: func() discovery.Discoverer { return discovery.NewWorkspace(root, logger) },
		Grouping:      cfg.Grouping,
		Properties:    tc,
		Builder:       tc,
		Host:          tc,
		Navigator:     gotool.Navigator{Editor: cfg.Editor},
		Notifier:      n,
		Logger:        logger,
	})
}
