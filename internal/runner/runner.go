// Package runner drives the build-then-run pipeline for a selected
// benchmark.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mwiater/benchtree/internal/bench"
)

// State is a step of the run pipeline.
type State int

const (
	Idle State = iota
	ResolvingSelection
	ResolvingProjectProperties
	ValidatingBuildConfig
	Building
	PreparingRunParameters
	Executing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ResolvingSelection:
		return "resolving selection"
	case ResolvingProjectProperties:
		return "loading project properties"
	case ValidatingBuildConfig:
		return "validating build configuration"
	case Building:
		return "building"
	case PreparingRunParameters:
		return "preparing run"
	case Executing:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Optimization is a tri-state: a failed probe yields Unknown.
type Optimization int

const (
	OptimizationUnknown Optimization = iota
	Optimized
	Unoptimized
)

// Properties are the build-relevant settings of a project.
type Properties struct {
	OutputPath    string
	TargetRuntime string // GOOS/GOARCH
	Optimization  Optimization
	// OutputFilename names the single artifact of the project. When empty,
	// each package has its own test binary named by TestBinaryName.
	OutputFilename string
	Configuration  string
}

// AssemblyPath returns the artifact that contains d.
func (p Properties) AssemblyPath(d bench.Descriptor) string {
	if p.OutputFilename != "" {
		return filepath.Join(p.OutputPath, p.OutputFilename)
	}
	return filepath.Join(p.OutputPath, TestBinaryName(d.Namespace))
}

// TestBinaryName is the file name of the test binary built for the package
// with the given import path. Every package of a module gets a distinct
// name, including packages that share their last path element.
func TestBinaryName(importPath string) string {
	return strings.ReplaceAll(importPath, "/", "_") + ".test"
}

// RunParameters is everything the execution host needs for one run.
type RunParameters struct {
	RunID        string
	OutputPath   string
	Runtime      string
	AssemblyPath string
	WorkDir      string
	DryRun       bool
	Descriptor   bench.Descriptor
}

// Selection supplies the currently selected benchmark.
type Selection interface {
	Selected() (bench.Descriptor, bool)
}

// ProjectLocator finds an open project by exact name. The first match wins.
type ProjectLocator interface {
	Project(name string) (bench.Project, bool)
}

// PropertyProvider loads build properties for a project.
type PropertyProvider interface {
	LoadProperties(ctx context.Context, p bench.Project) (Properties, error)
}

// Builder compiles a project with a named configuration. A false result
// without error means the build ran and failed.
type Builder interface {
	Build(ctx context.Context, configuration string, p bench.Project, suppressUI bool) (bool, error)
}

// ExecutionHost runs a compiled benchmark.
type ExecutionHost interface {
	Execute(ctx context.Context, params RunParameters) error
}

// Notifier shows an error to the user.
type Notifier interface {
	Error(msg string)
}

// Result is the outcome of one Run.
type Result struct {
	State  State
	Err    error
	Params *RunParameters
}

// Orchestrator sequences the run pipeline. Each Run is independent; the
// orchestrator keeps no state between runs.
type Orchestrator struct {
	Selection  Selection
	Projects   ProjectLocator
	Properties PropertyProvider
	Builder    Builder
	Host       ExecutionHost
	Notifier   Notifier
	Logger     *slog.Logger

	// OnTransition, if set, is called on every state change.
	OnTransition func(State)
}

// Run executes the pipeline for the current selection. Any failure is
// reported through the Notifier exactly once and returned in the Result.
// Once ctx is cancelled the pipeline is abandoned at the current step and
// nothing is reported, since the host that would show it is gone.
func (o *Orchestrator) Run(ctx context.Context, dryRun bool) Result {
	log := o.logger()
	var params *RunParameters
	state := Idle
	enter := func(s State) {
		state = s
		log.Debug("run state", "state", s.String())
		if o.OnTransition != nil {
			o.OnTransition(s)
		}
	}
	fail := func(err error) Result {
		failedIn := state
		enter(Failed)
		if ctx.Err() != nil {
			log.Info("run abandoned", "step", failedIn.String(), "error", err)
			return Result{State: Failed, Err: err, Params: params}
		}
		log.Error("run failed", "step", failedIn.String(), "error", err)
		if o.Notifier != nil {
			o.Notifier.Error(err.Error())
		}
		return Result{State: Failed, Err: err, Params: params}
	}

	enter(ResolvingSelection)
	desc, ok := o.Selection.Selected()
	if !ok {
		return fail(&NoSelectionError{})
	}
	project, ok := o.Projects.Project(desc.Project)
	if !ok {
		return fail(&ProjectNotFoundError{Project: desc.Project})
	}

	enter(ResolvingProjectProperties)
	props, err := o.Properties.LoadProperties(ctx, project)
	if err != nil {
		if !errors.Is(err, ErrOptimizationUnknown) {
			return fail(fmt.Errorf("load properties for %s: %w", project.Name, err))
		}
		log.Warn("optimization probe failed, continuing", "project", project.Name, "error", err)
		props.Optimization = OptimizationUnknown
	}

	enter(ValidatingBuildConfig)
	if props.Optimization == Unoptimized {
		return fail(&UnoptimizedBuildError{Configuration: props.Configuration})
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	enter(Building)
	okBuild, err := o.Builder.Build(ctx, props.Configuration, project, true)
	if err != nil || !okBuild {
		return fail(&BuildFailedError{Project: project.Name, Err: err})
	}

	enter(PreparingRunParameters)
	params = &RunParameters{
		RunID:        uuid.NewString(),
		OutputPath:   props.OutputPath,
		Runtime:      props.TargetRuntime,
		AssemblyPath: props.AssemblyPath(desc),
		WorkDir:      desc.Dir,
		DryRun:       dryRun,
		Descriptor:   desc,
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	enter(Executing)
	log.Info("executing benchmark", "run", params.RunID, "benchmark", desc.Key().String(), "dry", dryRun)
	if err := o.Host.Execute(ctx, *params); err != nil {
		return fail(&ExecutionHostError{Err: err})
	}

	enter(Done)
	return Result{State: Done, Params: params}
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
