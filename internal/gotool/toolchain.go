// Package gotool implements the project-facing collaborators of the run
// pipeline on top of the go command: property loading, building test
// binaries, running them, and opening an editor at a benchmark.
package gotool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Configuration is a named set of build flags, like "release" or "debug".
type Configuration struct {
	GCFlags string   `json:"gcflags" mapstructure:"gcflags"`
	Tags    []string `json:"tags" mapstructure:"tags"`
}

// Toolchain runs the go command for one workspace.
type Toolchain struct {
	// GoBin is the go command; "go" when empty.
	GoBin string
	// OutputDir receives test binaries and run logs. A relative path is
	// resolved against each project's directory.
	OutputDir      string
	Active         string
	Configurations map[string]Configuration
	Env            []string
	// Output, when set, receives the output of builds that are not
	// suppressed and of benchmark runs.
	Output io.Writer
	Logger *slog.Logger
}

func (t *Toolchain) goBin() string {
	if t.GoBin == "" {
		return "go"
	}
	return t.GoBin
}

func (t *Toolchain) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

func (t *Toolchain) output() io.Writer {
	if t.Output == nil {
		return io.Discard
	}
	return t.Output
}

func (t *Toolchain) configuration(name string) (Configuration, error) {
	c, ok := t.Configurations[name]
	if !ok {
		return Configuration{}, fmt.Errorf("unknown build configuration %q", name)
	}
	return c, nil
}

func (t *Toolchain) command(ctx context.Context, dir string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, t.goBin(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), t.Env...)
	return cmd
}

// goEnv returns the values of the named go env variables, one per name.
func (t *Toolchain) goEnv(ctx context.Context, dir string, names ...string) ([]string, error) {
	var stderr bytes.Buffer
	cmd := t.command(ctx, dir, append([]string{"env"}, names...)...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("go env %s: %w: %s", strings.Join(names, " "), err, strings.TrimSpace(stderr.String()))
	}
	lines := strings.Split(strings.TrimRight(string(out), "\r\n"), "\n")
	if len(lines) != len(names) {
		return nil, fmt.Errorf("go env %s: expected %d values, got %d", strings.Join(names, " "), len(names), len(lines))
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines, nil
}

// outputPath resolves where a project's artifacts go.
func (t *Toolchain) outputPath(projectDir string) string {
	dir := t.OutputDir
	if dir == "" {
		dir = filepath.Join(".benchtree", "bin")
	}
	if filepath.IsAbs(dir) {
		return filepath.Join(dir, filepath.Base(projectDir))
	}
	return filepath.Join(projectDir, dir)
}
