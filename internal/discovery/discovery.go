// Package discovery finds Go benchmark functions in a workspace.
package discovery

import (
	"context"
	"fmt"

	"github.com/mwiater/benchtree/internal/bench"
)

// Discoverer yields the benchmarks of a workspace. Initialize must succeed
// before the first FindBenchmarks call.
type Discoverer interface {
	Initialize(ctx context.Context) error
	FindBenchmarks(ctx context.Context) ([]bench.Descriptor, error)
	Projects() []bench.Project
}

// DiscoveryError wraps any failure to scan the workspace.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover benchmarks in %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Discover initializes d and returns a complete descriptor set.
func Discover(ctx context.Context, d Discoverer) (bench.Set, error) {
	if err := d.Initialize(ctx); err != nil {
		return bench.Set{}, err
	}
	descs, err := d.FindBenchmarks(ctx)
	if err != nil {
		return bench.Set{}, err
	}
	return bench.Set{Projects: d.Projects(), Descriptors: descs}, nil
}
