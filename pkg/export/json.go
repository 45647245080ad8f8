package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
)

type document struct {
	Root      node       `json:"root"`
	Conflicts []conflict `json:"conflicts,omitempty"`
}

type node struct {
	Name     string   `json:"name"`
	Start    uint32   `json:"start"`
	End      uint32   `json:"end"`
	Size     uint32   `json:"size"`
	Aliases  []string `json:"aliases,omitempty"`
	Children []node   `json:"children,omitempty"`
	Gaps     []span   `json:"gaps,omitempty"`
}

type span struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Size  uint32 `json:"size"`
}

type conflict struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// WriteJSON encodes t as an indented JSON document and writes it to w.
// Overlaps tolerated while building t are listed under "conflicts".
func WriteJSON(w io.Writer, t *areatree.Tree) error {
	doc := document{Root: toNode(t, t.Root())}
	for _, c := range t.Conflicts {
		doc.Conflicts = append(doc.Conflicts, conflict{First: c.First.Name, Second: c.Second.Name})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func toNode(t *areatree.Tree, n *areatree.Node) node {
	out := node{
		Name:    n.Name,
		Start:   n.Start,
		End:     n.End,
		Size:    n.Size(),
		Aliases: n.Aliases,
	}
	for _, e := range t.Layout(n) {
		if e.IsGap() {
			out.Gaps = append(out.Gaps, span{Start: e.Gap.Start, End: e.Gap.End, Size: e.Gap.Size()})
			continue
		}
		out.Children = append(out.Children, toNode(t, e.Child))
	}
	return out
}
