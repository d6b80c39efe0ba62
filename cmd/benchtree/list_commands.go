// cmd/benchtree/list_commands.go
package benchtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/benchtree/internal/commands"
)

// commandsCmd implements 'list commands', which prints the CLI command tree
// and the tool window commands in two columns.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Long:  `The 'commands' subcommand lists all CLI commands in a hierarchical, indented format, followed by the commands available in the tool window.`,
	Run: func(cmd *cobra.Command, args []string) {
		listAllCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

type commandInfo struct {
	path        string
	description string
}

// listAllCommands prints the command tree under root and the registry of
// tool window commands, each padded to a shared first column.
func listAllCommands(w io.Writer, root *cobra.Command) {
	cliData := collectCommandData(root, "", "")
	var windowData []commandInfo
	for _, c := range commands.All() {
		windowData = append(windowData, commandInfo{path: c.Usage(), description: c.Summary})
	}

	width := 0
	for _, data := range append(cliData, windowData...) {
		width = max(width, len(data.path))
	}

	fmt.Fprintln(w, "Commands and Subcommands:")
	printColumns(w, cliData, width)
	fmt.Fprintln(w, "\nTool Window Commands:")
	printColumns(w, windowData, width)
}

func printColumns(w io.Writer, rows []commandInfo, width int) {
	for _, data := range rows {
		fmt.Fprintf(w, "  %s%s%s\n", data.path, strings.Repeat(" ", width-len(data.path)+2), data.description)
	}
}

// collectCommandData walks the command tree and returns a flattened slice
// of path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}
	all := []commandInfo{{path: indent + fullPath, description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}
