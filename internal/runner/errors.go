package runner

import (
	"errors"
	"fmt"
)

// ErrOptimizationUnknown is returned (possibly wrapped) by a PropertyProvider
// when only the optimization probe failed. The orchestrator treats it as an
// unknown optimization state instead of a failure.
var ErrOptimizationUnknown = errors.New("optimization setting could not be determined")

// NoSelectionError means no benchmark leaf is selected.
type NoSelectionError struct{}

func (*NoSelectionError) Error() string { return "no benchmark selected" }

// ProjectNotFoundError means the selected benchmark's project is not open.
type ProjectNotFoundError struct {
	Project string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("unexpected project: %s", e.Project)
}

// UnoptimizedBuildError stops a run whose build configuration disables
// compiler optimizations.
type UnoptimizedBuildError struct {
	Configuration string
}

func (e *UnoptimizedBuildError) Error() string {
	return fmt.Sprintf("the %q build configuration disables compiler optimizations (-N/-l in gcflags) "+
		"and is not suitable for running benchmarks.\n\n"+
		"Remove -N and -l from the configuration's gcflags and from GOFLAGS, "+
		"or switch to an optimized configuration (e.g. 'release') before running a benchmark.",
		e.Configuration)
}

// BuildFailedError means the build subsystem reported failure.
type BuildFailedError struct {
	Project string
	Err     error
}

func (e *BuildFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("last build failed for %s: %v", e.Project, e.Err)
	}
	return fmt.Sprintf("last build failed for %s", e.Project)
}

func (e *BuildFailedError) Unwrap() error { return e.Err }

// ExecutionHostError carries a failure raised by the execution host.
type ExecutionHostError struct {
	Err error
}

func (e *ExecutionHostError) Error() string { return e.Err.Error() }

func (e *ExecutionHostError) Unwrap() error { return e.Err }
