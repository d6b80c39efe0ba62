package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/benchtree/internal/bench"
)

var m1 = bench.Descriptor{Project: "A", Namespace: "A/n1", Type: "C1", Method: "BenchmarkC1_M1", Dir: "/ws/a/n1"}

type fakeSelection struct {
	d  bench.Descriptor
	ok bool
}

func (f fakeSelection) Selected() (bench.Descriptor, bool) { return f.d, f.ok }

type fakeProjects map[string]bench.Project

func (f fakeProjects) Project(name string) (bench.Project, bool) {
	p, ok := f[name]
	return p, ok
}

type fakeProps struct {
	props Properties
	err   error
	calls int
}

func (f *fakeProps) LoadProperties(ctx context.Context, p bench.Project) (Properties, error) {
	f.calls++
	return f.props, f.err
}

type fakeBuilder struct {
	ok    bool
	err   error
	calls int
	conf  string
}

func (f *fakeBuilder) Build(ctx context.Context, configuration string, p bench.Project, suppressUI bool) (bool, error) {
	f.calls++
	f.conf = configuration
	return f.ok, f.err
}

type fakeHost struct {
	err    error
	calls  int
	params RunParameters
}

func (f *fakeHost) Execute(ctx context.Context, params RunParameters) error {
	f.calls++
	f.params = params
	return f.err
}

type fakeNotifier struct{ msgs []string }

func (f *fakeNotifier) Error(msg string) { f.msgs = append(f.msgs, msg) }

type fixture struct {
	props    *fakeProps
	builder  *fakeBuilder
	host     *fakeHost
	notifier *fakeNotifier
	states   []State
	orch     *Orchestrator
}

func newFixture(selected bool) *fixture {
	f := &fixture{
		props: &fakeProps{props: Properties{
			OutputPath:    "/ws/a/bin",
			TargetRuntime: "linux/amd64",
			Optimization:  Optimized,
			Configuration: "release",
		}},
		builder:  &fakeBuilder{ok: true},
		host:     &fakeHost{},
		notifier: &fakeNotifier{},
	}
	f.orch = &Orchestrator{
		Selection:    fakeSelection{d: m1, ok: selected},
		Projects:     fakeProjects{"A": {Name: "A", Dir: "/ws/a"}},
		Properties:   f.props,
		Builder:      f.builder,
		Host:         f.host,
		Notifier:     f.notifier,
		OnTransition: func(s State) { f.states = append(f.states, s) },
	}
	return f
}

func TestRun_Success(t *testing.T) {
	f := newFixture(true)

	res := f.orch.Run(context.Background(), true)

	require.NoError(t, res.Err)
	assert.Equal(t, Done, res.State)
	assert.Equal(t, []State{
		ResolvingSelection, ResolvingProjectProperties, ValidatingBuildConfig,
		Building, PreparingRunParameters, Executing, Done,
	}, f.states)
	assert.Equal(t, 1, f.builder.calls)
	assert.Equal(t, "release", f.builder.conf)
	require.Equal(t, 1, f.host.calls)

	p := f.host.params
	assert.Equal(t, "/ws/a/bin", p.OutputPath)
	assert.Equal(t, "linux/amd64", p.Runtime)
	assert.Equal(t, "/ws/a/bin/A_n1.test", p.AssemblyPath)
	assert.Equal(t, "/ws/a/n1", p.WorkDir)
	assert.True(t, p.DryRun)
	assert.Equal(t, m1, p.Descriptor)
	assert.NotEmpty(t, p.RunID)
	assert.Empty(t, f.notifier.msgs)
}

func TestRun_FreshParametersPerRun(t *testing.T) {
	f := newFixture(true)
	first := f.orch.Run(context.Background(), false)
	second := f.orch.Run(context.Background(), false)
	require.NotNil(t, first.Params)
	require.NotNil(t, second.Params)
	assert.NotEqual(t, first.Params.RunID, second.Params.RunID)
	assert.False(t, second.Params.DryRun)
}

func TestRun_NoSelection(t *testing.T) {
	f := newFixture(false)

	res := f.orch.Run(context.Background(), false)

	var target *NoSelectionError
	assert.True(t, errors.As(res.Err, &target))
	assert.Equal(t, Failed, res.State)
	assert.Equal(t, 0, f.props.calls)
	assert.Len(t, f.notifier.msgs, 1)
}

func TestRun_ProjectNotFound(t *testing.T) {
	f := newFixture(true)
	f.orch.Projects = fakeProjects{}

	res := f.orch.Run(context.Background(), false)

	var target *ProjectNotFoundError
	require.True(t, errors.As(res.Err, &target))
	assert.Equal(t, "A", target.Project)
	assert.Equal(t, 0, f.props.calls)
	assert.Len(t, f.notifier.msgs, 1)
}

func TestRun_UnoptimizedIsHardStop(t *testing.T) {
	f := newFixture(true)
	f.props.props.Optimization = Unoptimized

	res := f.orch.Run(context.Background(), false)

	var target *UnoptimizedBuildError
	require.True(t, errors.As(res.Err, &target))
	assert.Equal(t, 0, f.builder.calls)
	assert.Equal(t, 0, f.host.calls)
	require.Len(t, f.notifier.msgs, 1)
	assert.Contains(t, f.notifier.msgs[0], "optimizations")
	assert.Equal(t, []State{ResolvingSelection, ResolvingProjectProperties, ValidatingBuildConfig, Failed}, f.states)
}

func TestRun_UnknownOptimizationProceeds(t *testing.T) {
	f := newFixture(true)
	f.props.props.Optimization = Unoptimized
	f.props.err = fmt.Errorf("probe GOFLAGS: %w", ErrOptimizationUnknown)

	res := f.orch.Run(context.Background(), false)

	require.NoError(t, res.Err)
	assert.Equal(t, 1, f.builder.calls)
	assert.Equal(t, 1, f.host.calls)
	assert.Empty(t, f.notifier.msgs)
}

func TestRun_PropertyFailurePropagates(t *testing.T) {
	f := newFixture(true)
	f.props.err = errors.New("go env: exit status 1")

	res := f.orch.Run(context.Background(), false)

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "go env")
	assert.Equal(t, 0, f.builder.calls)
	assert.Equal(t, 0, f.host.calls)
	assert.Len(t, f.notifier.msgs, 1)
}

func TestRun_BuildFailureSkipsExecution(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		err  error
	}{
		{"reported failure", false, nil},
		{"build error", false, errors.New("exit status 2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(true)
			f.builder.ok, f.builder.err = tt.ok, tt.err

			res := f.orch.Run(context.Background(), false)

			var target *BuildFailedError
			require.True(t, errors.As(res.Err, &target))
			assert.Equal(t, 1, f.builder.calls, "no retry")
			assert.Equal(t, 0, f.host.calls)
			require.Len(t, f.notifier.msgs, 1)
			assert.Contains(t, f.notifier.msgs[0], "last build failed")
		})
	}
}

func TestRun_HostErrorIsCaught(t *testing.T) {
	f := newFixture(true)
	f.host.err = errors.New("benchmark binary crashed")

	res := f.orch.Run(context.Background(), false)

	var target *ExecutionHostError
	require.True(t, errors.As(res.Err, &target))
	assert.Equal(t, Failed, res.State)
	assert.Equal(t, []string{"benchmark binary crashed"}, f.notifier.msgs)
}

func TestRun_CancelledContextAbandonsSilently(t *testing.T) {
	f := newFixture(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.orch.Run(ctx, false)

	assert.Equal(t, Failed, res.State)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 0, f.builder.calls)
	assert.Equal(t, 0, f.host.calls)
	assert.Empty(t, f.notifier.msgs)
}

func TestProperties_AssemblyPath(t *testing.T) {
	p := Properties{OutputPath: "/out"}
	assert.Equal(t, "/out/example.com_a_codec.test", p.AssemblyPath(bench.Descriptor{Namespace: "example.com/a/codec"}))
	assert.NotEqual(t,
		p.AssemblyPath(bench.Descriptor{Namespace: "example.com/a/util"}),
		p.AssemblyPath(bench.Descriptor{Namespace: "example.com/b/util"}))
	assert.Equal(t, "/out/example.com_m_v2.test", p.AssemblyPath(bench.Descriptor{Namespace: "example.com/m/v2"}))

	p.OutputFilename = "all.test"
	assert.Equal(t, "/out/all.test", p.AssemblyPath(bench.Descriptor{Namespace: "example.com/a/codec"}))
}
