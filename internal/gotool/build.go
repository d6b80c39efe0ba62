package gotool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/runner"
)

// Build compiles a test binary for every package of p that has test
// files, each under the name runner.TestBinaryName gives it in the
// project's output path. It returns false with the compiler output in the
// error when the build ran and failed.
func (t *Toolchain) Build(ctx context.Context, configuration string, p bench.Project, suppressUI bool) (bool, error) {
	conf, err := t.configuration(configuration)
	if err != nil {
		return false, err
	}
	out := t.outputPath(p.Dir)
	if err := os.MkdirAll(out, 0o755); err != nil {
		return false, err
	}

	pkgs, err := t.testPackages(ctx, p.Dir, conf)
	if err != nil {
		t.logger().Error("listing packages failed", "project", p.Name, "error", err)
		return false, err
	}
	t.logger().Info("building", "project", p.Name, "configuration", configuration, "packages", len(pkgs))

	var buf bytes.Buffer
	for _, pkg := range pkgs {
		args := buildArgs(conf, filepath.Join(out, runner.TestBinaryName(pkg)), pkg)
		t.logger().Debug("building package", "project", p.Name, "args", strings.Join(args, " "))

		cmd := t.command(ctx, p.Dir, args...)
		if suppressUI {
			cmd.Stdout, cmd.Stderr = &buf, &buf
		} else {
			w := io.MultiWriter(&buf, t.output())
			cmd.Stdout, cmd.Stderr = w, w
		}
		if err := cmd.Run(); err != nil {
			t.logger().Error("build failed", "project", p.Name, "package", pkg, "error", err, "output", buf.String())
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return false, fmt.Errorf("%s: %w\n%s", pkg, err, tail(buf.String(), 20))
			}
			return false, err
		}
	}
	return true, nil
}

// testPackages lists the import paths of the packages under dir that have
// test files, honouring the build tags of conf.
func (t *Toolchain) testPackages(ctx context.Context, dir string, conf Configuration) ([]string, error) {
	args := []string{"list", "-e", "-f", "{{if or .TestGoFiles .XTestGoFiles}}{{.ImportPath}}{{end}}"}
	if len(conf.Tags) > 0 {
		args = append(args, "-tags="+strings.Join(conf.Tags, ","))
	}
	args = append(args, "./...")

	var stderr bytes.Buffer
	cmd := t.command(ctx, dir, args...)
	cmd.Stderr = &stderr
	stdout, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("go list: %w\n%s", err, tail(stderr.String(), 20))
	}
	var pkgs []string
	for _, line := range strings.Split(string(stdout), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			pkgs = append(pkgs, line)
		}
	}
	return pkgs, nil
}

func buildArgs(conf Configuration, binary, pkg string) []string {
	args := []string{"test", "-c", "-o", binary}
	if conf.GCFlags != "" {
		args = append(args, "-gcflags="+conf.GCFlags)
	}
	if len(conf.Tags) > 0 {
		args = append(args, "-tags="+strings.Join(conf.Tags, ","))
	}
	return append(args, pkg)
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
