package areatree

import (
	"github.com/matzehuels/dumpfmap/pkg/errors"
)

// Options configures [Build].
type Options struct {
	// RootName names the synthetic root. Defaults to [RootName].
	RootName string

	// OverlapTolerance counts the requests for relaxed overlap handling.
	// Overlaps are fatal below [RelaxedThreshold].
	OverlapTolerance int
}

// Relaxed reports whether partial overlaps are tolerated.
func (o Options) Relaxed() bool {
	return o.OverlapTolerance >= RelaxedThreshold
}

// Build converts areas into a tree rooted at a node spanning image.
//
// Duplicate ranges are coalesced, parents resolved and child lists linked.
// When partial overlaps are found and opts is not relaxed, Build returns a
// STRUCTURAL_OVERLAP error wrapping an [*OverlapError] and no tree.
func Build(areas []Area, image Extent, opts Options) (*Tree, error) {
	if opts.RootName == "" {
		opts.RootName = RootName
	}

	nodes := make([]Node, len(areas))
	for i, a := range areas {
		nodes[i] = NewNode(a)
	}
	nodes = Coalesce(nodes)

	root := len(nodes)
	nodes = append(nodes, Node{Name: opts.RootName, Extent: image, parent: noParent})

	parents, conflicts := Resolve(nodes, root)
	if len(conflicts) > 0 && !opts.Relaxed() {
		return nil, errors.Wrap(errors.ErrCodeStructuralOverlap,
			&OverlapError{Conflicts: conflicts}, "can't build area tree")
	}

	t := &Tree{nodes: nodes, root: root, Conflicts: conflicts}
	t.link(parents)
	return t, nil
}

// link records parents and fills in child lists in arena order.
func (t *Tree) link(parents []int) {
	for i := range t.nodes {
		t.nodes[i].id = i
		t.nodes[i].parent = parents[i]
		t.nodes[i].children = nil
	}
	for i, p := range parents {
		if p != noParent {
			t.nodes[p].children = append(t.nodes[p].children, i)
		}
	}
}
