package tree

// EventKind says what changed.
type EventKind int

const (
	// Structure means the root sequence was replaced.
	Structure EventKind = iota
	// ExpandedChanged means Node.Expanded flipped.
	ExpandedChanged
	// SelectedChanged means Node.Selected flipped.
	SelectedChanged
)

func (k EventKind) String() string {
	switch k {
	case Structure:
		return "structure"
	case ExpandedChanged:
		return "expanded"
	case SelectedChanged:
		return "selected"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after each mutation. Node is nil for
// Structure events.
type Event struct {
	Kind EventKind
	Node *Node
}

// Row is one visible line of the forest.
type Row struct {
	Node  *Node
	Depth int
}

// State owns the live forest. It is not safe for concurrent use: every
// method must be called from the goroutine that drives the UI. Background
// work builds a new forest separately and hands it to ReplaceRoots.
type State struct {
	roots    []*Node
	index    map[string]*Node
	selected *Node

	observers map[int]func(Event)
	nextID    int
}

// NewState returns an empty state.
func NewState() *State {
	return &State{index: map[string]*Node{}, observers: map[int]func(Event){}}
}

// Subscribe registers fn for every change event and returns a function
// that removes it.
func (s *State) Subscribe(fn func(Event)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *State) emit(e Event) {
	for _, fn := range s.observers {
		fn(e)
	}
}

// Roots returns the current root sequence.
func (s *State) Roots() []*Node { return s.roots }

// ReplaceRoots swaps in a fully built forest and emits one Structure event.
// If the new forest carries more than one selected node, only the first in
// depth-first order stays selected.
func (s *State) ReplaceRoots(roots []*Node) {
	index := make(map[string]*Node)
	var selected *Node
	walk(roots, 0, func(n *Node, _ int) {
		k := pathKey(n.Path)
		if _, ok := index[k]; !ok {
			index[k] = n
		}
		if n.Selected {
			if selected == nil {
				selected = n
			} else {
				n.Selected = false
			}
		}
	})
	s.roots, s.index, s.selected = roots, index, selected
	s.emit(Event{Kind: Structure})
}

// ExpandAll sets Expanded on every node.
func (s *State) ExpandAll() { s.setExpansion(s.roots, true) }

// CollapseAll clears Expanded on every node.
func (s *State) CollapseAll() { s.setExpansion(s.roots, false) }

func (s *State) setExpansion(nodes []*Node, expanded bool) {
	for _, n := range nodes {
		if n.Expanded != expanded {
			n.Expanded = expanded
			s.emit(Event{Kind: ExpandedChanged, Node: n})
		}
		s.setExpansion(n.Children, expanded)
	}
}

// Toggle flips the expansion of a single node.
func (s *State) Toggle(n *Node) {
	n.Expanded = !n.Expanded
	s.emit(Event{Kind: ExpandedChanged, Node: n})
}

// Select makes n the only selected node. A nil n clears the selection.
func (s *State) Select(n *Node) {
	if n == s.selected {
		return
	}
	if s.selected != nil {
		s.selected.Selected = false
		s.emit(Event{Kind: SelectedChanged, Node: s.selected})
	}
	s.selected = n
	if n != nil {
		n.Selected = true
		s.emit(Event{Kind: SelectedChanged, Node: n})
	}
}

// Selected returns the selected node, group or leaf.
func (s *State) Selected() *Node { return s.selected }

// Selection returns the selected leaf.
func (s *State) Selection() (*Node, bool) {
	if s.selected == nil || !s.selected.IsLeaf() {
		return nil, false
	}
	return s.selected, true
}

// Lookup returns the first node with the given key path.
func (s *State) Lookup(path []string) (*Node, bool) {
	n, ok := s.index[pathKey(path)]
	return n, ok
}

// Visible flattens the forest into the rows a renderer shows: every root,
// and the children of every expanded node.
func (s *State) Visible() []Row {
	var rows []Row
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			rows = append(rows, Row{Node: n, Depth: depth})
			if n.Expanded {
				visit(n.Children, depth+1)
			}
		}
	}
	visit(s.roots, 0)
	return rows
}

// Leaves returns every leaf in pre-order, hidden or not.
func (s *State) Leaves() []*Node {
	var out []*Node
	walk(s.roots, 0, func(n *Node, _ int) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}
