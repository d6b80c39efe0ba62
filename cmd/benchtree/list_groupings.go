// cmd/benchtree/list_groupings.go
package benchtree

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/benchtree/internal/grouping"
)

// listGroupingsCmd implements 'list groupings'.
var listGroupingsCmd = &cobra.Command{
	Use:   "groupings",
	Short: "List the available tree groupings",
	Long:  `The 'groupings' subcommand lists the names accepted by --grouping, marking the active one.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range grouping.Names() {
			mark := " "
			if name == cfg.Grouping {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, name)
		}
	},
}

func init() {
	listCmd.AddCommand(listGroupingsCmd)
}
