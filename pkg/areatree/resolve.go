package areatree

// Resolve picks a parent for every node except root.
//
// A node's parent is the smallest other node that encloses it. The root is
// the fallback and ranks above every area, even one spanning the whole
// image. A candidate is only replaced by a strictly smaller one, so among
// equally sized candidates the first in slice order wins.
//
// Nodes that partially overlap are never each other's parent; each such pair
// is reported once, with the earlier-starting node first.
//
// The returned slice is indexed like nodes and holds -1 for the root.
// Resolve expects nodes to be coalesced already: exact duplicates would
// enclose each other.
func Resolve(nodes []Node, root int) ([]int, []Conflict) {
	parents := make([]int, len(nodes))
	var conflicts []Conflict

	for i := range nodes {
		if i == root {
			parents[i] = noParent
			continue
		}
		best := noParent
		for j := range nodes {
			if i == j {
				continue
			}
			a, b := &nodes[i], &nodes[j]
			switch {
			case a.Overlaps(b.Extent):
				conflicts = append(conflicts, conflictOf(a, b))
			case b.Overlaps(a.Extent):
				// Reported when j is scanned, except for the root which
				// never is.
				if j == root {
					conflicts = append(conflicts, conflictOf(b, a))
				}
			case j == root:
				// fallback only
			case b.Encloses(a.Extent) && (best == noParent || b.Size() < nodes[best].Size()):
				best = j
			}
		}
		if best == noParent {
			best = root
		}
		parents[i] = best
	}
	return parents, conflicts
}

func conflictOf(first, second *Node) Conflict {
	return Conflict{
		First:  Region{Name: first.Name, Extent: first.Extent},
		Second: Region{Name: second.Name, Extent: second.Extent},
	}
}
