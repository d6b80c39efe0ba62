package cli

import (
	"slices"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/benchtree/internal/runner"
)

// target performs registry commands for the window and collects the
// background work they start. Failures are reported by the session into
// the inbox, so the methods return nil once a failure is reported.
type target struct {
	m    *model
	cmds []tea.Cmd
}

func (t *target) ShowWindow() error {
	if len(t.m.sess.State().Roots()) == 0 && t.m.rebuilding == 0 {
		return t.Refresh()
	}
	return nil
}

func (t *target) Refresh() error {
	m := t.m
	job := m.sess.BeginRefresh()
	m.rebuilding++
	m.status = "discovering benchmarks"
	ctx := m.ctx
	t.cmds = append(t.cmds, m.spinner.Tick, func() tea.Msg {
		return rebuildMsg{res: job.Run(ctx)}
	})
	return nil
}

func (t *target) Run(dryRun bool) error {
	m := t.m
	send := m.send
	job, err := m.sess.BeginRun(dryRun, func(s runner.State) {
		if send != nil {
			send(runStateMsg(s))
		}
	})
	if err != nil {
		return nil
	}
	m.running = true
	m.runState = runner.Idle
	m.outBuf.Reset()
	m.output.SetContent("")
	m.status = ""
	ctx := m.ctx
	t.cmds = append(t.cmds, m.spinner.Tick, func() tea.Msg {
		return runDoneMsg{res: job.Run(ctx)}
	})
	return nil
}

func (t *target) ExpandAll() error {
	t.m.sess.ExpandAll()
	t.m.syncCursor()
	return nil
}

func (t *target) CollapseAll() error {
	t.m.sess.CollapseAll()
	t.m.syncCursor()
	return nil
}

func (t *target) SetGrouping(name string) error {
	m := t.m
	job, err := m.sess.BeginRegroup(name)
	if err != nil || job == nil {
		return nil
	}
	m.rebuilding++
	ctx := m.ctx
	t.cmds = append(t.cmds, m.spinner.Tick, func() tea.Msg {
		return rebuildMsg{res: job.Run(ctx)}
	})
	return nil
}

// ListGroupings opens the grouping picker on the active grouping.
func (t *target) ListGroupings() error {
	m := t.m
	names := m.sess.GroupingNames()
	items := make([]list.Item, len(names))
	for i, n := range names {
		desc := "Group by " + n
		if n == m.sess.Grouping() {
			desc = "Active"
		}
		items[i] = item{title: n, desc: desc}
	}
	t.cmds = append(t.cmds, m.picker.SetItems(items))
	m.picker.Select(slices.Index(names, m.sess.Grouping()))
	m.picking = true
	return nil
}

func (t *target) GoToDefinition() error {
	cmd, ok := t.m.sess.EditCommand(t.m.ctx)
	if !ok {
		return nil
	}
	t.cmds = append(t.cmds, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorDoneMsg{err: err}
	}))
	return nil
}
