package session

import (
	"context"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/runner"
)

// fixedSelection is the selection as it was when a run was requested, so
// the background pipeline never reads the live tree.
type fixedSelection struct {
	d  bench.Descriptor
	ok bool
}

func (f fixedSelection) Selected() (bench.Descriptor, bool) { return f.d, f.ok }

type projects bench.Set

func (p projects) Project(name string) (bench.Project, bool) { return bench.Set(p).ProjectNamed(name) }

// RunJob is one orchestrated build-then-run.
type RunJob struct {
	DryRun bool
	orch   *runner.Orchestrator
}

// Run executes the pipeline. Safe to call off the UI goroutine.
func (j *RunJob) Run(ctx context.Context) runner.Result { return j.orch.Run(ctx, j.DryRun) }

// BeginRun captures the current selection and returns a job for it.
// onTransition may be nil; it is called from the goroutine running the job.
func (s *Session) BeginRun(dryRun bool, onTransition func(runner.State)) (*RunJob, error) {
	if s.running {
		s.notify(ErrRunInProgress)
		return nil, ErrRunInProgress
	}
	var sel fixedSelection
	if n, ok := s.state.Selection(); ok {
		sel = fixedSelection{d: *n.Descriptor, ok: true}
	}
	s.running = true
	return &RunJob{
		DryRun: dryRun,
		orch: &runner.Orchestrator{
			Selection:    sel,
			Projects:     projects(s.set),
			Properties:   s.opts.Properties,
			Builder:      s.opts.Builder,
			Host:         s.opts.Host,
			Notifier:     s.opts.Notifier,
			Logger:       s.log,
			OnTransition: onTransition,
		},
	}, nil
}

// FinishRun marks the in-flight run as complete.
func (s *Session) FinishRun(res runner.Result) {
	s.running = false
	if res.State == runner.Done {
		s.log.Info("run finished", "run", res.Params.RunID, "benchmark", res.Params.Descriptor.Key().String())
	}
}

// Run requests a run and waits for it.
func (s *Session) Run(ctx context.Context, dryRun bool) runner.Result {
	job, err := s.BeginRun(dryRun, nil)
	if err != nil {
		return runner.Result{State: runner.Failed, Err: err}
	}
	res := job.Run(ctx)
	s.FinishRun(res)
	return res
}
