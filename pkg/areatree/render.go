package areatree

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	header  = "# name                     start       end         size\n"
	warning = "\nWARNING: unused regions found. Use -H to see them\n"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	// ShowGaps prints a row for every uncovered stretch instead of a single
	// trailing warning.
	ShowGaps bool

	// ShowRoot prints the root as the first row. The command line turns it
	// on together with ShowGaps so the gaps directly under the root have a
	// row to belong to.
	ShowRoot bool
}

// Entry is one slot in a node's display order: a child or a gap.
type Entry struct {
	Child *Node
	Gap   Extent
}

// IsGap reports whether the entry is a synthesized gap.
func (e Entry) IsGap() bool { return e.Child == nil }

// Layout returns n's children by descending start with the gaps around them
// interleaved: the stretch above the first child, between each pair of
// neighbours, and below the last child. Bounds that abut produce no gap.
func (t *Tree) Layout(n *Node) []Entry {
	kids := t.SortedChildren(n)
	var out []Entry
	for i, c := range kids {
		if i == 0 && n.End != c.End {
			out = append(out, Entry{Gap: Extent{Start: c.End, End: n.End}})
		}
		out = append(out, Entry{Child: c})
		if i < len(kids)-1 && c.Start != kids[i+1].End {
			out = append(out, Entry{Gap: Extent{Start: kids[i+1].End, End: c.Start}})
		}
		if i == len(kids)-1 && c.Start != n.Start {
			out = append(out, Entry{Gap: Extent{Start: n.Start, End: c.Start}})
		}
	}
	return out
}

// Gaps returns the uncovered stretches directly under n, highest first.
func (t *Tree) Gaps(n *Node) []Extent {
	var out []Extent
	for _, e := range t.Layout(n) {
		if e.IsGap() {
			out = append(out, e.Gap)
		}
	}
	return out
}

// Render writes the tree listing to w and returns how many gaps it found.
// Gaps are counted whether or not their rows are printed.
func Render(w io.Writer, t *Tree, opts RenderOptions) (int, error) {
	r := &renderer{w: bufio.NewWriter(w), opts: opts}
	r.w.WriteString(header)
	r.show(t, t.Root(), 0, opts.ShowRoot)
	if r.gaps > 0 && !opts.ShowGaps {
		r.w.WriteString(warning)
	}
	return r.gaps, r.w.Flush()
}

type renderer struct {
	w    *bufio.Writer
	opts RenderOptions
	gaps int
}

func (r *renderer) show(t *Tree, n *Node, indent int, showSelf bool) {
	if showSelf {
		r.line(indent, n.Name, n.Extent, "")
		for _, alias := range n.Aliases {
			r.line(indent, alias, n.Extent, "  // DUPLICATE")
		}
	}
	depth := indent
	if showSelf {
		depth++
	}
	for _, e := range t.Layout(n) {
		if !e.IsGap() {
			r.show(t, e.Child, depth, true)
			continue
		}
		r.gaps++
		if r.opts.ShowGaps {
			r.line(indent+1, "", e.Gap, "  // gap in "+n.Name)
		}
	}
}

func (r *renderer) line(indent int, name string, e Extent, suffix string) {
	r.w.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(r.w, "%-25s  %08x    %08x    %08x%s\n", name, e.Start, e.End, e.Size(), suffix)
}
