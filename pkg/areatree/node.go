package areatree

import "sort"

// RootName is the name given to the synthetic node spanning the whole image.
const RootName = "-entire flash-"

// noParent marks the root in the parent index.
const noParent = -1

// Area is one named range as read from a region map.
type Area struct {
	Name  string
	Start uint32
	Size  uint32
}

// Extent returns the half-open range covered by the area.
func (a Area) Extent() Extent {
	return Span(a.Start, a.Size)
}

// Node is one range in the tree: an area (plus the names of its exact
// duplicates) or the synthetic root.
//
// Nodes live in the [Tree] arena. Their links are arena indices and are only
// reachable through the owning tree.
type Node struct {
	Name string
	Extent

	// Aliases lists names that cover exactly the same range, most recently
	// merged first.
	Aliases []string

	id       int
	parent   int
	children []int
}

// NewNode returns an unlinked node for an area.
func NewNode(a Area) Node {
	return Node{Name: a.Name, Extent: a.Extent(), parent: noParent}
}

// ID returns the node's index in its tree.
func (n *Node) ID() int { return n.id }

// Tree is a resolved area hierarchy.
type Tree struct {
	nodes []Node
	root  int

	// Conflicts holds the partial overlaps that were tolerated in relaxed
	// mode. It is always empty for trees built in strict mode.
	Conflicts []Conflict
}

// Root returns the synthetic node spanning the whole image.
func (t *Tree) Root() *Node { return &t.nodes[t.root] }

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id, or nil if there is none.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Nodes returns every node in arena order: the coalesced areas in input
// order followed by the root.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	for i := range t.nodes {
		out[i] = &t.nodes[i]
	}
	return out
}

// Parent returns n's parent, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	if n.parent == noParent {
		return nil
	}
	return &t.nodes[n.parent]
}

// Children returns n's children in the order they were linked.
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, len(n.children))
	for i, c := range n.children {
		out[i] = &t.nodes[c]
	}
	return out
}

// SortedChildren returns n's children by descending start offset. Children
// with equal starts keep their link order.
func (t *Tree) SortedChildren(n *Node) []*Node {
	out := t.Children(n)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start > out[j].Start
	})
	return out
}

// Depth returns the number of links between n and the root.
func (t *Tree) Depth(n *Node) int {
	d := 0
	for p := t.Parent(n); p != nil; p = t.Parent(p) {
		d++
	}
	return d
}
