package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/benchtree/internal/grouping"
)

func newTestState(t *testing.T) (*State, *[]Event) {
	t.Helper()
	s := NewState()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })
	s.ReplaceRoots(Build(mixedDescriptors(), grouping.MustResolve(grouping.ProjectClass)))
	events = events[:0]
	return s, &events
}

func allNodes(roots []*Node) []*Node {
	var out []*Node
	walk(roots, 0, func(n *Node, _ int) { out = append(out, n) })
	return out
}

func TestState_ReplaceRootsEmitsOneEvent(t *testing.T) {
	s := NewState()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	s.ReplaceRoots(Build(twoDescriptors(), grouping.MustResolve(grouping.ProjectClass)))

	require.Len(t, events, 1)
	assert.Equal(t, Structure, events[0].Kind)
	assert.Nil(t, events[0].Node)
	assert.Len(t, s.Roots(), 1)
}

func TestState_ExpandAllThenCollapseAll(t *testing.T) {
	s, events := newTestState(t)

	s.ExpandAll()
	for _, n := range allNodes(s.Roots()) {
		assert.True(t, n.Expanded, n.Label)
	}
	nodes := len(allNodes(s.Roots()))
	assert.Len(t, *events, nodes)

	*events = (*events)[:0]
	s.CollapseAll()
	for _, n := range allNodes(s.Roots()) {
		assert.False(t, n.Expanded, n.Label)
	}
	assert.Len(t, *events, nodes)
}

func TestState_ExpansionIdempotent(t *testing.T) {
	s, events := newTestState(t)
	s.CollapseAll()
	*events = (*events)[:0]

	s.CollapseAll()
	assert.Empty(t, *events)

	s.ExpandAll()
	*events = (*events)[:0]
	s.ExpandAll()
	assert.Empty(t, *events)
}

func TestState_ExpandAllTraversalOrder(t *testing.T) {
	s, events := newTestState(t)
	s.ExpandAll()

	var labels []string
	for _, e := range *events {
		require.Equal(t, ExpandedChanged, e.Kind)
		labels = append(labels, e.Node.Label)
	}
	assert.Equal(t, []string{
		"B", "Zed", "BenchmarkZed_A", "BenchmarkZed_B", grouping.None, "BenchmarkPlain",
		"A", "Yak", "BenchmarkYak_A", "BenchmarkYak_B",
	}, labels)
}

func TestState_SelectSingle(t *testing.T) {
	s, events := newTestState(t)
	a, ok := s.Lookup([]string{"A", "Yak", "BenchmarkYak_A"})
	require.True(t, ok)
	b, ok := s.Lookup([]string{"A", "Yak", "BenchmarkYak_B"})
	require.True(t, ok)

	s.Select(a)
	s.Select(b)

	assert.False(t, a.Selected)
	assert.True(t, b.Selected)
	got, ok := s.Selection()
	require.True(t, ok)
	assert.Same(t, b, got)
	assert.Len(t, *events, 3)

	s.Select(nil)
	_, ok = s.Selection()
	assert.False(t, ok)
	assert.False(t, b.Selected)
}

func TestState_GroupSelectionIsNotALeaf(t *testing.T) {
	s, _ := newTestState(t)
	g, ok := s.Lookup([]string{"B"})
	require.True(t, ok)

	s.Select(g)

	assert.Same(t, g, s.Selected())
	_, ok = s.Selection()
	assert.False(t, ok)
}

func TestState_ReplaceRootsKeepsOneSelection(t *testing.T) {
	s := NewState()
	roots := Build(twoDescriptors(), grouping.MustResolve(grouping.Flat))
	roots[0].Selected = true
	roots[1].Selected = true

	s.ReplaceRoots(roots)

	got, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "M1", got.Label)
	assert.False(t, roots[1].Selected)
}

func TestState_VisibleFollowsExpansion(t *testing.T) {
	s, _ := newTestState(t)
	s.CollapseAll()
	assert.Len(t, s.Visible(), 2)

	b, _ := s.Lookup([]string{"B"})
	s.Toggle(b)
	rows := s.Visible()
	require.Len(t, rows, 4)
	assert.Equal(t, "Zed", rows[1].Node.Label)
	assert.Equal(t, 1, rows[1].Depth)

	s.ExpandAll()
	assert.Len(t, s.Visible(), len(allNodes(s.Roots())))
}

func TestState_Unsubscribe(t *testing.T) {
	s := NewState()
	calls := 0
	cancel := s.Subscribe(func(Event) { calls++ })
	s.ReplaceRoots(nil)
	cancel()
	s.ReplaceRoots(nil)
	assert.Equal(t, 1, calls)
}

func TestState_LeavesIgnoresExpansion(t *testing.T) {
	s, _ := newTestState(t)
	s.CollapseAll()
	leaves := s.Leaves()
	require.Len(t, leaves, len(mixedDescriptors()))
	for _, n := range leaves {
		assert.True(t, n.IsLeaf())
	}
}
