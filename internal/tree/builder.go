package tree

import (
	"slices"

	"github.com/mwiater/benchtree/internal/bench"
	"github.com/mwiater/benchtree/internal/grouping"
)

// Build arranges descriptors into a forest using the strategy's key paths.
// Sibling order is the order in which keys are first seen. Two descriptors
// with the same full key path produce two leaves under the same label.
func Build(descriptors []bench.Descriptor, strategy grouping.Strategy) []*Node {
	root := &Node{}
	for i := range descriptors {
		d := descriptors[i]
		keys := strategy.Keys(d)
		parent := root
		for depth, key := range keys[:len(keys)-1] {
			next := parent.child(key)
			if next == nil {
				next = &Node{Label: key, Path: slices.Clone(keys[:depth+1])}
				parent.Children = append(parent.Children, next)
			}
			parent = next
		}
		parent.Children = append(parent.Children, &Node{
			Label:      keys[len(keys)-1],
			Path:       slices.Clone(keys),
			Descriptor: &d,
		})
	}
	return root.Children
}

// Snapshot records the view state of a forest that must survive a rebuild.
// Capture it on the goroutine that owns the forest; Apply it to the new
// forest before publishing.
type Snapshot struct {
	expanded map[string]bool
	selected *bench.Key
	empty    bool
}

// Capture records expanded group paths and the selected leaf.
func Capture(roots []*Node) Snapshot {
	s := Snapshot{expanded: map[string]bool{}, empty: len(roots) == 0}
	walk(roots, 0, func(n *Node, _ int) {
		if n.Expanded && !n.IsLeaf() {
			s.expanded[pathKey(n.Path)] = true
		}
		if n.Selected && n.IsLeaf() && s.selected == nil {
			k := n.Descriptor.Key()
			s.selected = &k
		}
	})
	return s
}

// Selected returns the captured selection, if any.
func (s Snapshot) Selected() (bench.Key, bool) {
	if s.selected == nil {
		return bench.Key{}, false
	}
	return *s.selected, true
}

// Apply re-expands groups whose paths were expanded and re-selects the leaf
// matching the captured descriptor identity. The top-level groups are
// expanded instead when the captured forest was empty, or when it had
// expanded groups and none of their paths exist any more. A forest the
// user fully collapsed stays collapsed.
func (s Snapshot) Apply(roots []*Node) {
	matched := false
	selected := false
	walk(roots, 0, func(n *Node, _ int) {
		n.Expanded = false
		n.Selected = false
		if !n.IsLeaf() && s.expanded[pathKey(n.Path)] {
			n.Expanded = true
			matched = true
		}
		if n.IsLeaf() && s.selected != nil && !selected && n.Descriptor.Key() == *s.selected {
			n.Selected = true
			selected = true
		}
	})
	if matched || (!s.empty && len(s.expanded) == 0) {
		return
	}
	for _, n := range roots {
		if !n.IsLeaf() {
			n.Expanded = true
		}
	}
}

// Rebuild builds a new forest and carries view state over from old.
func Rebuild(old []*Node, descriptors []bench.Descriptor, strategy grouping.Strategy) []*Node {
	snap := Capture(old)
	roots := Build(descriptors, strategy)
	snap.Apply(roots)
	return roots
}
