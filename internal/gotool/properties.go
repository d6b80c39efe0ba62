package gotool

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/runner"
)

// LoadProperties resolves the output path, target runtime, and
// optimization state of p under the active configuration. If only the
// GOFLAGS probe fails, the properties are returned together with an error
// wrapping runner.ErrOptimizationUnknown.
func (t *Toolchain) LoadProperties(ctx context.Context, p bench.Project) (runner.Properties, error) {
	conf, err := t.configuration(t.Active)
	if err != nil {
		return runner.Properties{}, err
	}
	target, err := t.goEnv(ctx, p.Dir, "GOOS", "GOARCH")
	if err != nil {
		return runner.Properties{}, err
	}
	props := runner.Properties{
		OutputPath:    t.outputPath(p.Dir),
		TargetRuntime: target[0] + "/" + target[1],
		Configuration: t.Active,
	}

	goflags, err := t.goEnv(ctx, p.Dir, "GOFLAGS")
	if err != nil {
		props.Optimization = runner.OptimizationUnknown
		return props, fmt.Errorf("probe GOFLAGS: %w: %v", runner.ErrOptimizationUnknown, err)
	}
	if disablesOptimization(conf.GCFlags) || disablesOptimization(gcflagsFromGOFLAGS(goflags[0])) {
		props.Optimization = runner.Unoptimized
	} else {
		props.Optimization = runner.Optimized
	}
	t.logger().Debug("project properties", "project", p.Name, "runtime", props.TargetRuntime,
		"output", props.OutputPath, "configuration", t.Active, "optimized", props.Optimization == runner.Optimized)
	return props, nil
}

// disablesOptimization reports whether a -gcflags value turns off the
// optimizer (-N) or inlining (-l). Package patterns such as "all=" are
// ignored.
func disablesOptimization(gcflags string) bool {
	for _, f := range strings.Fields(gcflags) {
		if !strings.HasPrefix(f, "-") {
			if i := strings.Index(f, "="); i >= 0 {
				f = f[i+1:]
			}
		}
		if f == "-N" || f == "-l" {
			return true
		}
	}
	return false
}

// gcflagsFromGOFLAGS extracts the -gcflags values set through GOFLAGS.
func gcflagsFromGOFLAGS(goflags string) string {
	var vals []string
	for _, f := range strings.Fields(goflags) {
		if v, ok := strings.CutPrefix(strings.TrimLeft(f, "-"), "gcflags="); ok {
			vals = append(vals, v)
		}
	}
	return strings.Join(vals, " ")
}
