// cmd/benchtree/root.go
package benchtree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/benchtree/internal/config"
	"github.com/mwiater/benchtree/internal/logging"
	"github.com/mwiater/benchtree/internal/runner"
	"github.com/mwiater/benchtree/internal/session"
)

// errReported marks a failure already shown to the user.
var errReported = errors.New("error already reported")

var (
	cfgFile   string
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

// rootCmd is the base Cobra command for the benchtree application.
// All subcommands are attached to this root to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "benchtree",
	Short: "Browse, build and run Go benchmarks",
	Long: `benchtree discovers the benchmark functions in a Go workspace, shows them as a
tree grouped by module, package or type, and builds and runs the selected one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cfgFile)
		if err != nil {
			return err
		}
		for _, name := range []string{"workspace", "grouping", "log_file"} {
			if err := v.BindPFlag(name, cmd.Root().PersistentFlags().Lookup(flagName(name))); err != nil {
				return err
			}
		}
		if cfg, err = config.Load(v); err != nil {
			return err
		}
		logger, logCloser, err = logging.ToFile(cfg.LogFile, cfg.LogLevel)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// flagName maps a config key to its flag.
func flagName(key string) string {
	if key == "log_file" {
		return "log-file"
	}
	return key
}

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./benchtree.json if present)")
	rootCmd.PersistentFlags().String("workspace", "", "workspace root to scan for Go modules")
	rootCmd.PersistentFlags().String("grouping", "", "tree grouping (see 'benchtree list groupings')")
	rootCmd.PersistentFlags().String("log-file", "", "log file (default benchtree.log)")
}

// stderrNotifier prints each user-facing error once.
type stderrNotifier struct{ w io.Writer }

func (n stderrNotifier) Error(msg string) { fmt.Fprintln(n.w, "Error:", msg) }

var _ runner.Notifier = stderrNotifier{}

// newSession discovers the workspace and returns a populated session.
func newSession(cmd *cobra.Command) (*session.Session, error) {
	sess, err := session.FromConfig(cfg, cmd.OutOrStdout(), stderrNotifier{w: cmd.ErrOrStderr()}, logger)
	if err != nil {
		return nil, err
	}
	if err := sess.Refresh(cmd.Context()); err != nil {
		return nil, errReported
	}
	return sess, nil
}
