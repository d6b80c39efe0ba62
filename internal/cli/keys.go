package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/benchtree/internal/commands"
)

// keyMap holds the tool window bindings. Bindings listed in commandKeys
// dispatch through the command registry.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Refresh     key.Binding
	Run         key.Binding
	DryRun      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Grouping    key.Binding
	Definition  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Run:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run")),
		DryRun:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dry run")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Grouping:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grouping")),
		Definition:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open source")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// commandFor maps a key press to a registry command name.
func (k keyMap) commandFor(msg tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(msg, k.Refresh):
		return commands.Refresh, true
	case key.Matches(msg, k.Run):
		return commands.Run, true
	case key.Matches(msg, k.DryRun):
		return commands.RunDry, true
	case key.Matches(msg, k.ExpandAll):
		return commands.ExpandAll, true
	case key.Matches(msg, k.CollapseAll):
		return commands.CollapseAll, true
	case key.Matches(msg, k.Grouping):
		return commands.ListGroupings, true
	case key.Matches(msg, k.Definition):
		return commands.GoToDefinition, true
	}
	return "", false
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Run, k.Refresh, k.Grouping, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Run, k.DryRun, k.Definition},
		{k.Refresh, k.ExpandAll, k.CollapseAll, k.Grouping},
		{k.Help, k.Quit},
	}
}
