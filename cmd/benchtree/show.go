// cmd/benchtree/show.go
package benchtree

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mwiater/benchtree/internal/cli"
)

var startWindow = cli.Start

// showCmd implements the 'show' command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Open the benchmark tool window",
	Long: `The 'show' command opens the interactive benchmark tree. When standard output is
not a terminal it prints the tree instead, like 'benchtree list'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return listTree(cmd, false, false)
		}
		return startWindow(cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
