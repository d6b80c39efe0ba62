// Package cli is the interactive benchmark tool window.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/benchtree/internal/commands"
	"github.com/mwiater/benchtree/internal/runner"
	"github.com/mwiater/benchtree/internal/session"
	"github.com/mwiater/benchtree/internal/tree"
)

const outputHeight = 8

// model is the tool window. It is the only code that touches the session,
// always from the bubbletea event loop.
type model struct {
	ctx   context.Context
	sess  *session.Session
	inbox *inbox
	// send delivers messages from background goroutines; nil in tests.
	send func(tea.Msg)

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	picker  list.Model
	picking bool
	output  viewport.Model
	outBuf  strings.Builder

	cursor     int
	rebuilding int
	running    bool
	runState   runner.State
	status     string
	errText    string

	width, height int
}

// item is a grouping in the picker.
type item struct {
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

func newModel(ctx context.Context, sess *session.Session, box *inbox) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	picker := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	picker.Title = "Group benchmarks by"
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(false)
	picker.DisableQuitKeybindings()

	return &model{
		ctx:     ctx,
		sess:    sess,
		inbox:   box,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: s,
		picker:  picker,
		output:  viewport.New(80, outputHeight),
	}
}

// Init shows the window, which starts the first discovery.
func (m *model) Init() tea.Cmd {
	return m.exec(commands.ShowWindow)
}

// exec runs a registry command and returns the work it scheduled.
func (m *model) exec(name string, args ...string) tea.Cmd {
	t := &target{m: m}
	if err := commands.Execute(t, name, args...); err != nil {
		m.errText = err.Error()
	}
	return tea.Batch(t.cmds...)
}

func (m *model) busy() bool { return m.rebuilding > 0 || m.running }

// Update handles one message.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.picker.SetSize(msg.Width-4, msg.Height-4)
		m.output.Width = msg.Width
		m.output.Height = outputHeight

	case tea.KeyMsg:
		if m.picking {
			cmds = append(cmds, m.updatePicker(msg))
			break
		}
		cmds = append(cmds, m.handleKey(msg))

	case rebuildMsg:
		m.rebuilding--
		if m.sess.Publish(msg.res) {
			m.syncCursor()
			groups, leaves := m.counts()
			m.status = fmt.Sprintf("%d benchmarks in %d groups", leaves, groups)
		}

	case runStateMsg:
		m.runState = runner.State(msg)

	case runDoneMsg:
		m.running = false
		m.runState = msg.res.State
		m.sess.FinishRun(msg.res)
		if msg.res.State == runner.Done {
			m.status = "finished " + msg.res.Params.Descriptor.Key().String()
		}

	case outputMsg:
		m.outBuf.WriteString(string(msg))
		m.output.SetContent(m.outBuf.String())
		m.output.GotoBottom()

	case watchMsg:
		cmds = append(cmds, m.exec(commands.Refresh))

	case editorDoneMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		}

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if errs := m.inbox.drain(); len(errs) > 0 {
		m.errText = errs[len(errs)-1]
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, m.keys.Toggle):
		if n := m.sess.State().Selected(); n != nil && !n.IsLeaf() {
			m.sess.State().Toggle(n)
			m.syncCursor()
		}
		return nil
	}
	if name, ok := m.keys.commandFor(msg); ok {
		m.errText = ""
		return m.exec(name)
	}
	return nil
}

func (m *model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.picking = false
		return nil
	case "enter":
		m.picking = false
		it, ok := m.picker.SelectedItem().(item)
		if !ok {
			return nil
		}
		return m.exec(commands.SetGrouping, it.title)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

// moveCursor moves the highlighted row and selects the node under it.
func (m *model) moveCursor(delta int) {
	rows := m.sess.State().Visible()
	if len(rows) == 0 {
		return
	}
	m.cursor = max(0, min(len(rows)-1, m.cursor+delta))
	m.sess.State().Select(rows[m.cursor].Node)
}

// syncCursor puts the cursor on the selected node after the visible rows
// changed, or clamps it when the selection is hidden.
func (m *model) syncCursor() {
	rows := m.sess.State().Visible()
	sel := m.sess.State().Selected()
	for i, r := range rows {
		if r.Node == sel {
			m.cursor = i
			return
		}
	}
	m.cursor = max(0, min(len(rows)-1, m.cursor))
}

func (m *model) counts() (groups, leaves int) {
	return tree.Count(m.sess.State().Roots())
}
