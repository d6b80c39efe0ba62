package gotool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"

	"golang.org/x/perf/benchfmt"

	"github.com/mwiater/benchtree/internal/runner"
)

// HostRuntime is the GOOS/GOARCH pair test binaries must target to run here.
var HostRuntime = runtime.GOOS + "/" + runtime.GOARCH

// Execute runs the compiled test binary for the selected benchmark. The
// combined output is streamed to Output and kept in a log file next to the
// binary; benchmark result lines are parsed back and logged.
func (t *Toolchain) Execute(ctx context.Context, params runner.RunParameters) error {
	if params.Runtime != "" && params.Runtime != HostRuntime {
		return fmt.Errorf("test binary targets %s and cannot run on %s", params.Runtime, HostRuntime)
	}
	if _, err := os.Stat(params.AssemblyPath); err != nil {
		return fmt.Errorf("test binary for %s not found: %w", params.Descriptor.Namespace, err)
	}

	logPath := RunLogPath(params)
	logFile, err := os.Create(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, params.AssemblyPath, runArgs(params)...)
	cmd.Dir = params.WorkDir
	cmd.Env = append(os.Environ(), t.Env...)
	w := io.MultiWriter(logFile, t.output())
	cmd.Stdout, cmd.Stderr = w, w

	t.logger().Info("running", "run", params.RunID, "binary", params.AssemblyPath, "benchmark", params.Descriptor.Method, "dry", params.DryRun)
	runErr := cmd.Run()

	results, perr := t.logResults(logPath, params)
	if perr != nil {
		t.logger().Warn("could not read benchmark output", "run", params.RunID, "error", perr)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Errorf("%s exited with code %d (output in %s)", params.Descriptor.Method, exitErr.ExitCode(), logPath)
		}
		return runErr
	}
	if results == 0 {
		t.logger().Warn("benchmark produced no results", "run", params.RunID, "benchmark", params.Descriptor.Method)
	}
	return nil
}

// RunLogPath is where Execute keeps the output of a run.
func RunLogPath(params runner.RunParameters) string {
	id := params.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(params.OutputPath, fmt.Sprintf("%s.%s.txt", params.Descriptor.Method, id))
}

func runArgs(params runner.RunParameters) []string {
	args := []string{
		"-test.run=^$",
		"-test.bench=^" + regexp.QuoteMeta(params.Descriptor.Method) + "$",
		"-test.benchmem",
	}
	if params.DryRun {
		args = append(args, "-test.benchtime=1x")
	}
	return args
}

// logResults parses the benchmark format lines of a run log.
func (t *Toolchain) logResults(path string, params runner.RunParameters) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	r := benchfmt.NewReader(f, path)
	for r.Scan() {
		switch rec := r.Result().(type) {
		case *benchfmt.Result:
			n++
			attrs := []any{"run", params.RunID, "name", rec.Name.String(), "iters", rec.Iters}
			for _, v := range rec.Values {
				attrs = append(attrs, v.Unit, v.Value)
			}
			t.logger().Info("benchmark result", attrs...)
		case *benchfmt.SyntaxError:
			t.logger().Debug("unparsed benchmark line", "run", params.RunID, "error", rec.Error())
		}
	}
	return n, r.Err()
}
