package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/benchtree/internal/runner"
	"github.com/mwiater/benchtree/internal/tree"
)

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	groupStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	outputStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(lipgloss.Color("240"))
)

// View renders the window.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.picking {
		return lipgloss.NewStyle().Margin(1, 2).Render(m.picker.View())
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Render("Benchmarks"),
		headerStyle.MarginLeft(1).Render("Grouping: "+m.sess.Grouping()),
	))
	b.WriteString("\n\n")
	b.WriteString(m.treeView())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	if m.outBuf.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(outputStyle.Render(m.output.View()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *model) treeView() string {
	rows := m.sess.State().Visible()
	if len(rows) == 0 {
		if m.rebuilding > 0 {
			return faintStyle.Render("  Looking for benchmarks...") + "\n"
		}
		return faintStyle.Render("  No benchmarks found.") + "\n"
	}
	var b strings.Builder
	for i, r := range rows {
		line := strings.Repeat("  ", r.Depth) + marker(r.Node) + " " + r.Node.Label
		switch {
		case i == m.cursor:
			line = cursorStyle.Render("> " + line)
		case !r.Node.IsLeaf():
			line = "  " + groupStyle.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func marker(n *tree.Node) string {
	switch {
	case n.IsLeaf():
		return "•"
	case n.Expanded:
		return "▾"
	default:
		return "▸"
	}
}

func (m *model) statusLine() string {
	var parts []string
	if m.busy() {
		text := "Refreshing"
		if m.running {
			text = runLabel(m.runState)
		}
		parts = append(parts, fmt.Sprintf("%s %s...", m.spinner.View(), text))
	} else if m.status != "" {
		parts = append(parts, faintStyle.Render(m.status))
	}
	if m.errText != "" {
		parts = append(parts, errorStyle.Render("Error: "+m.errText))
	}
	return strings.Join(parts, "  ")
}

func runLabel(s runner.State) string {
	switch s {
	case runner.Building:
		return "Building"
	case runner.Executing:
		return "Running"
	default:
		return "Preparing"
	}
}
