package benchtree

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/tree"
)

func TestRoot_SubcommandsPresent(t *testing.T) {
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
		if c.Name() == "list" {
			sub := map[string]bool{}
			for _, sc := range c.Commands() {
				sub[sc.Name()] = true
			}
			assert.True(t, sub["groupings"], "list groupings")
			assert.True(t, sub["commands"], "list commands")
		}
	}
	for _, want := range []string{"show", "list", "run", "open", "config"} {
		assert.True(t, have[want], "missing subcommand %s", want)
	}
}

func TestCommands_HaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		assert.NotEmpty(t, cmd.Short, cmd.Name())
		assert.NotEmpty(t, cmd.Long, cmd.Name())
		for _, sc := range cmd.Commands() {
			check(sc)
		}
	}
	check(rootCmd)
}

func TestListCommands_PrintsTree(t *testing.T) {
	var buf bytes.Buffer
	listAllCommands(&buf, rootCmd)
	out := buf.String()
	for _, want := range []string{"benchtree list groupings", "Tool Window Commands:", "set-grouping <grouping>", "run-dry"} {
		assert.Contains(t, out, want)
	}
}

// execute runs the CLI against a workspace and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--log-file", filepath.Join(t.TempDir(), "benchtree.log")}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"go.mod": "module example.com/shapes\n\ngo 1.22\n",
		"shapes_test.go": `package shapes

import "testing"

func BenchmarkArea(b *testing.B) {}

func BenchmarkCircle_Perimeter(b *testing.B) {}
`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestList_PrintsDiscoveredTree(t *testing.T) {
	ws := writeWorkspace(t)
	out, _, err := execute(t, "--workspace", ws, "list", "--expand-all")
	require.NoError(t, err)
	for _, want := range []string{"- example.com/shapes", "- (none)", "BenchmarkArea", "- Circle", "BenchmarkCircle_Perimeter", "shapes_test.go:5"} {
		assert.Contains(t, out, want)
	}

	out, _, err = execute(t, "--workspace", ws, "--grouping", "flat", "list", "--expand-all=false")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, out)
	assert.True(t, strings.HasPrefix(lines[0], "BenchmarkArea"), out)
}

func TestList_UnknownGrouping(t *testing.T) {
	_, _, err := execute(t, "--workspace", t.TempDir(), "--grouping", "by-size", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown grouping "by-size"`)
}

func TestList_DiscoveryFailureIsReportedOnce(t *testing.T) {
	_, stderr, err := execute(t, "--workspace", filepath.Join(t.TempDir(), "missing"), "--grouping", "project-class", "list")
	assert.Equal(t, errReported, err)
	assert.Equal(t, 1, strings.Count(stderr, "Error:"), stderr)
}

func TestListGroupings_MarksActive(t *testing.T) {
	out, _, err := execute(t, "--grouping", "project", "list", "groupings")
	require.NoError(t, err)
	assert.Contains(t, out, "* project\n")
	assert.Contains(t, out, "  flat\n")
}

func TestRun_NoMatch(t *testing.T) {
	ws := writeWorkspace(t)
	_, _, err := execute(t, "--workspace", ws, "--grouping", "project-class", "run", "BenchmarkMissing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no benchmark matches "BenchmarkMissing"`)
}

func TestMatchLeaves(t *testing.T) {
	s := tree.NewState()
	s.ReplaceRoots([]*tree.Node{
		{Label: "a", Descriptor: &bench.Descriptor{Project: "p", Namespace: "p/x", Type: "Enc", Method: "BenchmarkEnc_Run"}},
		{Label: "b", Descriptor: &bench.Descriptor{Project: "p", Namespace: "p/y", Type: "Enc", Method: "BenchmarkEnc_Run"}},
		{Label: "c", Descriptor: &bench.Descriptor{Project: "p", Namespace: "p/y", Method: "BenchmarkPlain"}},
	})
	leaves := s.Leaves()

	tests := []struct {
		name string
		want int
	}{
		{"BenchmarkEnc_Run", 2},
		{"Enc.BenchmarkEnc_Run", 2},
		{"p/x.BenchmarkEnc_Run", 1},
		{"p p/y.Enc.BenchmarkEnc_Run", 1},
		{"BenchmarkPlain", 1},
		{"BenchmarkNope", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, matchLeaves(leaves, tt.name), tt.want)
		})
	}
}
