package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
)

// ToDOT converts t to Graphviz DOT source. Nodes are labelled with their
// name, aliases and range; the root is drawn dashed.
func ToDOT(t *areatree.Tree) string {
	var buf bytes.Buffer
	buf.WriteString("digraph fmap {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace];\n")
	buf.WriteString("\n")

	root := t.Root()
	for _, n := range t.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", label(n))}
		if n == root {
			attrs = append(attrs, "style=\"rounded,dashed\"")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range t.Nodes() {
		for _, c := range t.SortedChildren(n) {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.ID(), c.ID())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(n *areatree.Node) string {
	names := append([]string{n.Name}, n.Aliases...)
	return fmt.Sprintf("%s\n[%08x, %08x)", strings.Join(names, " = "), n.Start, n.End)
}

// RenderSVG lays out DOT source with Graphviz and returns the SVG document.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
