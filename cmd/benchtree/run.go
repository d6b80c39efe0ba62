// cmd/benchtree/run.go
package benchtree

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/benchtree/internal/runner"
	"github.com/mwiater/benchtree/internal/session"
	"github.com/mwiater/benchtree/internal/tree"
)

var runDry bool

// runCmd builds the benchmark's module and runs it.
var runCmd = &cobra.Command{
	Use:   "run <benchmark>",
	Short: "Build and run one benchmark",
	Long: `The 'run' command discovers benchmarks, selects the one named by the argument, builds
its module with the active configuration and runs it. The argument is a benchmark function
name such as BenchmarkEncode, or "Type.Method" or "<package>.<Method>" when the plain name is
ambiguous. With --dry the benchmark runs for a single iteration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := selectBenchmark(sess, args[0]); err != nil {
			return err
		}
		if res := sess.Run(cmd.Context(), runDry); res.State != runner.Done {
			return errReported
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDry, "dry", false, "run a single iteration")
	rootCmd.AddCommand(runCmd)
}

// selectBenchmark selects the single leaf matching name.
func selectBenchmark(sess *session.Session, name string) error {
	matches := matchLeaves(sess.State().Leaves(), name)
	switch len(matches) {
	case 0:
		return fmt.Errorf("no benchmark matches %q", name)
	case 1:
		sess.State().Select(matches[0])
		return nil
	}
	var keys []string
	for _, n := range matches {
		keys = append(keys, n.Descriptor.Key().String())
	}
	return fmt.Errorf("%q is ambiguous, it matches:\n  %s", name, strings.Join(keys, "\n  "))
}

// matchLeaves finds leaves whose method, Type.Method, package.Method or
// full key equals name.
func matchLeaves(leaves []*tree.Node, name string) []*tree.Node {
	var out []*tree.Node
	for _, n := range leaves {
		d := n.Descriptor
		candidates := []string{d.Method, d.Namespace + "." + d.Method, d.Key().String()}
		if d.Type != "" {
			candidates = append(candidates, d.Type+"."+d.Method)
		}
		for _, c := range candidates {
			if c == name {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
