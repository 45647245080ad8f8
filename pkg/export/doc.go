// Package export writes resolved area trees in machine readable forms.
//
// # JSON
//
// [WriteJSON] emits the tree as nested objects. Children appear in display
// order (descending start offset) and every node lists the gaps directly
// under it, so consumers get the same picture as the text listing:
//
//	err := export.WriteJSON(os.Stdout, tree)
//
// # DOT and SVG
//
// [ToDOT] produces Graphviz DOT source with one box per node and an edge
// from every parent to each child. [RenderSVG] lays it out in process:
//
//	dot := export.ToDOT(tree)
//	svg, err := export.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package export
