package gotool

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mwiater/benchtree/internal/bench"
)

// Navigator opens an editor at a benchmark declaration.
type Navigator struct {
	// Editor is a command template. {file}, {line} and {col} are replaced
	// with the symbol's position. When empty, $VISUAL or $EDITOR is used
	// as "<editor> +{line} {file}".
	Editor string
}

// Command returns the editor invocation for sym, run from the project dir.
func (n Navigator) Command(ctx context.Context, p bench.Project, sym bench.Symbol) (*exec.Cmd, error) {
	if sym.File == "" {
		return nil, errors.New("benchmark has no source position")
	}
	tmpl := n.Editor
	if tmpl == "" {
		editor := os.Getenv("VISUAL")
		if editor == "" {
			editor = os.Getenv("EDITOR")
		}
		if editor == "" {
			return nil, errors.New("no editor configured: set editor in the config file, $VISUAL or $EDITOR")
		}
		tmpl = editor + " +{line} {file}"
	}
	r := strings.NewReplacer("{file}", sym.File, "{line}", strconv.Itoa(sym.Line), "{col}", strconv.Itoa(sym.Column))
	fields := strings.Fields(tmpl)
	for i := range fields {
		fields[i] = r.Replace(fields[i])
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = p.Dir
	return cmd, nil
}
