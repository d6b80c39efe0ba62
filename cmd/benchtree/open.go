// cmd/benchtree/open.go
package benchtree

import (
	"github.com/spf13/cobra"
)

// openCmd opens a benchmark's declaration in the configured editor.
var openCmd = &cobra.Command{
	Use:   "open <benchmark>",
	Short: "Open a benchmark in the editor",
	Long: `The 'open' command opens the declaration of a benchmark in the editor set by the
'editor' config key, $VISUAL or $EDITOR. The argument is matched like 'benchtree run'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := selectBenchmark(sess, args[0]); err != nil {
			return err
		}
		if err := sess.GoToDefinition(cmd.Context()); err != nil {
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
