// Package commands is the registry of named tool window commands. Front
// ends bind keys or command lines to these names and supply a Target that
// performs them.
package commands

import (
	"errors"
	"fmt"
	"strings"
)

// Target performs commands against one tool window.
type Target interface {
	ShowWindow() error
	Refresh() error
	Run(dryRun bool) error
	ExpandAll() error
	CollapseAll() error
	SetGrouping(name string) error
	ListGroupings() error
	GoToDefinition() error
}

// Names of the registered commands.
const (
	ShowWindow     = "show-window"
	Refresh        = "refresh"
	Run            = "run"
	RunDry         = "run-dry"
	ExpandAll      = "expand-all"
	CollapseAll    = "collapse-all"
	SetGrouping    = "set-grouping"
	ListGroupings  = "list-groupings"
	GoToDefinition = "go-to-definition"
)

// ErrUnknownCommand is returned for names not in the registry.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one registry entry.
type Command struct {
	Name    string
	Args    []string // argument names, all required
	Summary string
	run     func(t Target, args []string) error
}

// Usage renders the name followed by its arguments.
func (c Command) Usage() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " <" + strings.Join(c.Args, "> <") + ">"
}

var registry = []Command{
	{Name: ShowWindow, Summary: "Open the benchmark tool window", run: func(t Target, _ []string) error { return t.ShowWindow() }},
	{Name: Refresh, Summary: "Rediscover benchmarks and rebuild the tree", run: func(t Target, _ []string) error { return t.Refresh() }},
	{Name: Run, Summary: "Build and run the selected benchmark", run: func(t Target, _ []string) error { return t.Run(false) }},
	{Name: RunDry, Summary: "Build and run the selected benchmark for one iteration", run: func(t Target, _ []string) error { return t.Run(true) }},
	{Name: ExpandAll, Summary: "Expand every node", run: func(t Target, _ []string) error { return t.ExpandAll() }},
	{Name: CollapseAll, Summary: "Collapse every node", run: func(t Target, _ []string) error { return t.CollapseAll() }},
	{Name: SetGrouping, Args: []string{"grouping"}, Summary: "Regroup the tree", run: func(t Target, args []string) error { return t.SetGrouping(args[0]) }},
	{Name: ListGroupings, Summary: "Show the available groupings", run: func(t Target, _ []string) error { return t.ListGroupings() }},
	{Name: GoToDefinition, Summary: "Open the selected benchmark in an editor", run: func(t Target, _ []string) error { return t.GoToDefinition() }},
}

// All returns the registered commands in display order.
func All() []Command {
	out := make([]Command, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a command by name.
func Lookup(name string) (Command, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Execute runs the named command against t.
func Execute(t Target, name string, args ...string) error {
	c, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if len(args) != len(c.Args) {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	return c.run(t, args)
}

// ExecuteLine splits a command line on whitespace and executes it.
func ExecuteLine(t Target, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command line", ErrUnknownCommand)
	}
	return Execute(t, fields[0], fields[1:]...)
}
