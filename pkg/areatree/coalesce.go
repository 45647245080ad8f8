package areatree

// Coalesce merges nodes that cover exactly the same range.
//
// The first node seen for a range stays the primary; the names of later
// duplicates (and any aliases they already carry) are put in front of the
// primary's alias list, so aliases read most recently merged first. The
// result keeps input order and no two of its nodes duplicate each other,
// which makes Coalesce idempotent.
//
// The input slice is not modified.
func Coalesce(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		k := indexOfDuplicate(out, n.Extent)
		if k < 0 {
			n.Aliases = append([]string(nil), n.Aliases...)
			out = append(out, n)
			continue
		}
		merged := make([]string, 0, 1+len(n.Aliases)+len(out[k].Aliases))
		merged = append(merged, n.Name)
		merged = append(merged, n.Aliases...)
		out[k].Aliases = append(merged, out[k].Aliases...)
	}
	return out
}

func indexOfDuplicate(nodes []Node, e Extent) int {
	for i := range nodes {
		if nodes[i].Duplicates(e) {
			return i
		}
	}
	return -1
}
