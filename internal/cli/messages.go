package cli

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/benchtree/internal/runner"
	"github.com/mwiater/benchtree/internal/session"
)

// rebuildMsg carries a finished discovery or regroup.
type rebuildMsg struct{ res session.RebuildResult }

// runStateMsg reports a pipeline transition.
type runStateMsg runner.State

// runDoneMsg is sent when the pipeline reaches Done or Failed.
type runDoneMsg struct{ res runner.Result }

// outputMsg is a chunk of build or benchmark output.
type outputMsg string

// watchMsg lists workspace files that changed.
type watchMsg []string

// editorDoneMsg is sent when the editor process exits.
type editorDoneMsg struct{ err error }

// inbox collects user-facing errors. The session reports into it from the
// UI goroutine and from run jobs, so it is drained after every update
// rather than sent through the program.
type inbox struct {
	mu   sync.Mutex
	msgs []string
}

func (b *inbox) Error(msg string) {
	b.mu.Lock()
	b.msgs = append(b.msgs, msg)
	b.mu.Unlock()
}

func (b *inbox) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.msgs
	b.msgs = nil
	return out
}

// programWriter forwards output to the running program.
type programWriter struct {
	send func(tea.Msg)
}

func (w *programWriter) Write(p []byte) (int, error) {
	if w.send != nil {
		w.send(outputMsg(p))
	}
	return len(p), nil
}
