// cmd/benchtree/list.go
package benchtree

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/benchtree/internal/tree"
)

var listExpandAll, listCollapseAll bool

var groupStyle = lipgloss.NewStyle().Bold(true)

// listCmd prints the benchmark tree and groups subcommands that list
// other information.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the benchmark tree",
	Long: `The 'list' command discovers benchmarks and prints the tree using the active grouping.
Top-level groups are expanded unless --expand-all or --collapse-all is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTree(cmd, listExpandAll, listCollapseAll)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listExpandAll, "expand-all", false, "expand every group")
	listCmd.Flags().BoolVar(&listCollapseAll, "collapse-all", false, "collapse every group")
	listCmd.MarkFlagsMutuallyExclusive("expand-all", "collapse-all")
	rootCmd.AddCommand(listCmd)
}

func listTree(cmd *cobra.Command, expandAll, collapseAll bool) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	switch {
	case expandAll:
		sess.ExpandAll()
	case collapseAll:
		sess.CollapseAll()
	}
	out := cmd.OutOrStdout()
	rows := sess.State().Visible()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No benchmarks found.")
		return nil
	}
	for _, r := range rows {
		fmt.Fprintln(out, formatRow(r))
	}
	return nil
}

func formatRow(r tree.Row) string {
	indent := strings.Repeat("  ", r.Depth)
	n := r.Node
	if n.IsLeaf() {
		return fmt.Sprintf("%s%s  %s:%d", indent, n.Label, n.Descriptor.Symbol.File, n.Descriptor.Symbol.Line)
	}
	marker := "+"
	if n.Expanded {
		marker = "-"
	}
	return indent + groupStyle.Render(marker+" "+n.Label)
}
