package session

import (
	"context"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/discovery"
	"github.com/mwiater/benchtree/internal/grouping"
	"github.com/mwiater/benchtree/internal/tree"
)

// RebuildJob computes a new forest off the UI goroutine.
type RebuildJob struct {
	ticket     uint64
	refresh    bool
	setVersion uint64
	strategy   grouping.Strategy
	set        bench.Set
	discoverer discovery.Discoverer
}

// RebuildResult is handed back to Session.Publish.
type RebuildResult struct {
	job   *RebuildJob
	Set   bench.Set
	Roots []*tree.Node
	Err   error
}

// Refresh reports whether the job re-ran discovery.
func (j *RebuildJob) Refresh() bool { return j.refresh }

// Run discovers (for a refresh) and builds the forest. It touches no
// session state.
func (j *RebuildJob) Run(ctx context.Context) RebuildResult {
	set := j.set
	if j.refresh {
		var err error
		set, err = discovery.Discover(ctx, j.discoverer)
		if err != nil {
			return RebuildResult{job: j, Err: err}
		}
	}
	return RebuildResult{job: j, Set: set, Roots: tree.Build(set.Descriptors, j.strategy)}
}

// BeginRefresh starts a new discovery and rebuild.
func (s *Session) BeginRefresh() *RebuildJob {
	s.issued++
	s.lastRefresh = s.issued
	return &RebuildJob{
		ticket:     s.issued,
		refresh:    true,
		strategy:   s.strategy,
		discoverer: s.opts.NewDiscoverer(),
	}
}

// BeginRegroup switches the grouping and returns the job that rebuilds the
// tree from the last discovered set. It returns nil when there is nothing
// to rebuild: the grouping is unchanged, or nothing has been discovered
// yet. Unknown names are reported and returned as an error.
func (s *Session) BeginRegroup(name string) (*RebuildJob, error) {
	strategy, err := grouping.Resolve(name)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	if strategy.Name() == s.strategy.Name() {
		return nil, nil
	}
	s.strategy = strategy
	s.log.Info("grouping changed", "grouping", name)
	if s.set.Empty() {
		return nil, nil
	}
	s.issued++
	return &RebuildJob{
		ticket:     s.issued,
		setVersion: s.setVersion,
		strategy:   strategy,
		set:        s.set,
	}, nil
}

// Publish installs a finished rebuild unless newer work supersedes it. A
// refresh wins over any re-group issued before it completes: if the
// grouping changed meanwhile, its set is rebuilt with the current grouping.
// Errors are reported once. It returns whether the tree was replaced.
func (s *Session) Publish(res RebuildResult) bool {
	j := res.job
	if res.Err != nil {
		if j.refresh && j.ticket < s.lastRefresh {
			s.log.Debug("dropping failed stale refresh", "ticket", j.ticket, "error", res.Err)
			return false
		}
		s.notify(res.Err)
		return false
	}

	roots := res.Roots
	if j.refresh {
		if j.ticket < s.lastRefresh {
			s.log.Debug("dropping stale refresh", "ticket", j.ticket, "latest", s.lastRefresh)
			return false
		}
		if j.strategy.Name() != s.strategy.Name() {
			roots = tree.Build(res.Set.Descriptors, s.strategy)
		}
		s.set = res.Set
		s.setVersion++
	} else if j.ticket < s.issued || j.setVersion != s.setVersion {
		s.log.Debug("dropping stale regroup", "ticket", j.ticket, "latest", s.issued)
		return false
	}

	tree.Capture(s.state.Roots()).Apply(roots)
	s.state.ReplaceRoots(roots)
	groups, leaves := tree.Count(roots)
	s.log.Info("tree published", "ticket", j.ticket, "grouping", s.strategy.Name(), "groups", groups, "benchmarks", leaves)
	return true
}

// Refresh runs discovery and publishes the result synchronously.
func (s *Session) Refresh(ctx context.Context) error {
	res := s.BeginRefresh().Run(ctx)
	s.Publish(res)
	return res.Err
}

// SetGrouping re-groups synchronously.
func (s *Session) SetGrouping(ctx context.Context, name string) error {
	job, err := s.BeginRegroup(name)
	if err != nil || job == nil {
		return err
	}
	s.Publish(job.Run(ctx))
	return nil
}
