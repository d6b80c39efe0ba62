// Package tree arranges benchmark descriptors into a grouped hierarchy and
// owns the live node forest shown by the tool window.
package tree

import (
	"strings"

	"github.com/mwiater/benchtree/internal/bench"
)

// Node is either a group or a leaf benchmark. A node has exactly one owner:
// the State for roots, its parent otherwise. There are no parent pointers;
// use State.Lookup to go from a path to a node.
type Node struct {
	Label      string
	Path       []string // key path from the root, ending with Label
	Children   []*Node  // first-seen order, never re-sorted
	Descriptor *bench.Descriptor
	Expanded   bool
	Selected   bool
}

// IsLeaf reports whether the node carries a benchmark.
func (n *Node) IsLeaf() bool { return n.Descriptor != nil }

// child returns the group child with the given label.
func (n *Node) child(label string) *Node {
	for _, c := range n.Children {
		if !c.IsLeaf() && c.Label == label {
			return c
		}
	}
	return nil
}

// pathKey joins a key path into a map key. Labels never contain NUL.
func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}

// walk visits the forest depth first, parents before children.
func walk(nodes []*Node, depth int, fn func(n *Node, depth int)) {
	for _, n := range nodes {
		fn(n, depth)
		walk(n.Children, depth+1, fn)
	}
}

// Count returns the number of groups and leaves in the forest.
func Count(roots []*Node) (groups, leaves int) {
	walk(roots, 0, func(n *Node, _ int) {
		if n.IsLeaf() {
			leaves++
		} else {
			groups++
		}
	})
	return groups, leaves
}
