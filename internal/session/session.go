// Package session is the controller behind one tool window: it owns the
// tree state and the last discovered benchmark set, and turns refresh,
// re-group, run and navigation requests into work for background tasks.
//
// Every method of Session must be called from the goroutine that drives the
// UI. Long-running work is returned as a job whose Run method is safe to
// call from any goroutine; its result is handed back to Publish or
// FinishRun on the UI goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/discovery"
	"github.com/mwiater/benchtree/internal/grouping"
	"github.com/mwiater/benchtree/internal/runner"
	"github.com/mwiater/benchtree/internal/tree"
)

// ErrRunInProgress rejects a run while another one is active.
var ErrRunInProgress = errors.New("a benchmark run is already in progress")

// Navigator builds the command that opens a benchmark in an editor.
type Navigator interface {
	Command(ctx context.Context, p bench.Project, sym bench.Symbol) (*exec.Cmd, error)
}

// Options wires a Session to its collaborators.
type Options struct {
	NewDiscoverer func() discovery.Discoverer
	Grouping      string
	Properties    runner.PropertyProvider
	Builder       runner.Builder
	Host          runner.ExecutionHost
	Navigator     Navigator
	Notifier      runner.Notifier
	Logger        *slog.Logger
}

// Session is the state of one tool window.
type Session struct {
	opts     Options
	log      *slog.Logger
	state    *tree.State
	strategy grouping.Strategy
	set      bench.Set

	issued      uint64 // last ticket handed out
	lastRefresh uint64 // ticket of the newest refresh
	setVersion  uint64 // bumped whenever a refresh publishes a new set
	running     bool
}

// New returns a session with an empty tree.
func New(opts Options) (*Session, error) {
	name := opts.Grouping
	if name == "" {
		name = grouping.Default
	}
	strategy, err := grouping.Resolve(name)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{opts: opts, log: log, state: tree.NewState(), strategy: strategy}, nil
}

// State returns the tree state for rendering and selection.
func (s *Session) State() *tree.State { return s.state }

// Grouping returns the active grouping name.
func (s *Session) Grouping() string { return s.strategy.Name() }

// Set returns the last discovered benchmark set.
func (s *Session) Set() bench.Set { return s.set }

// Running reports whether a run is in flight.
func (s *Session) Running() bool { return s.running }

func (s *Session) notify(err error) {
	s.log.Error("operation failed", "error", err)
	if s.opts.Notifier != nil {
		s.opts.Notifier.Error(err.Error())
	}
}

// ExpandAll expands every node.
func (s *Session) ExpandAll() { s.state.ExpandAll() }

// CollapseAll collapses every node.
func (s *Session) CollapseAll() { s.state.CollapseAll() }

// GroupingNames lists the available groupings.
func (s *Session) GroupingNames() []string { return grouping.Names() }

// EditCommand returns the editor command for the selected benchmark. Any
// failure is reported to the user and yields ok == false.
func (s *Session) EditCommand(ctx context.Context) (cmd *exec.Cmd, ok bool) {
	n, selected := s.state.Selection()
	if !selected {
		s.notify(&runner.NoSelectionError{})
		return nil, false
	}
	d := n.Descriptor
	p, found := s.set.ProjectNamed(d.Project)
	if !found {
		s.notify(&runner.ProjectNotFoundError{Project: d.Project})
		return nil, false
	}
	if s.opts.Navigator == nil {
		s.notify(errors.New("go to definition is not available"))
		return nil, false
	}
	cmd, err := s.opts.Navigator.Command(ctx, p, d.Symbol)
	if err != nil {
		s.notify(err)
		return nil, false
	}
	return cmd, true
}

// GoToDefinition opens the selected benchmark in the editor and waits.
func (s *Session) GoToDefinition(ctx context.Context) error {
	cmd, ok := s.EditCommand(ctx)
	if !ok {
		return errors.New("go to definition failed")
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(); err != nil {
		err = fmt.Errorf("open editor: %w", err)
		s.notify(err)
		return err
	}
	return nil
}
