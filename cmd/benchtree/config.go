// cmd/benchtree/config.go
package benchtree

import (
	"os"

	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// configCmd pretty-prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `The 'config' command prints the configuration after defaults, the config file, BENCHTREE_ environment variables and flags are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pp.ColoringEnabled = isatty.IsTerminal(os.Stdout.Fd())
		_, err := pp.Fprintln(cmd.OutOrStdout(), cfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
