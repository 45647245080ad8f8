// Package areatree reconstructs the containment hierarchy of a firmware
// region map and renders it as an indented listing.
//
// # Overview
//
// A region map is a flat, unordered list of named byte ranges ("areas").
// Areas may nest, they may repeat the exact same range under a different
// name, but they must never partially overlap. This package turns such a
// list into a tree rooted at one synthetic node spanning the whole image:
//
//	areas := []areatree.Area{
//	    {Name: "RO_SECTION", Start: 0x000000, Size: 0x200000},
//	    {Name: "FMAP", Start: 0x100000, Size: 0x000800},
//	    {Name: "RW_SECTION_A", Start: 0x200000, Size: 0x100000},
//	}
//	tree, err := areatree.Build(areas, areatree.Span(0, 0x400000), areatree.Options{})
//	if err != nil {
//	    return err // *OverlapError wrapped with STRUCTURAL_OVERLAP
//	}
//	_, err = areatree.Render(os.Stdout, tree, areatree.RenderOptions{})
//
// # Construction
//
// [Build] runs four stages over a single node arena:
//
//  1. Areas become nodes and exact duplicates are merged by [Coalesce]; the
//     first occurrence keeps the range and later names become aliases.
//  2. The root node is appended after all areas.
//  3. [Resolve] picks each node's parent: the smallest other range that
//     encloses it, defaulting to the root. Partial overlaps are collected
//     as [Conflict] values along the way.
//  4. Parent links are turned into child lists.
//
// Parent and child links are indices into the arena, so the tree carries
// no pointer cycles and can be navigated in both directions.
//
// # Overlaps
//
// Overlaps are fatal unless [Options.OverlapTolerance] reaches
// [RelaxedThreshold]. In relaxed mode the tree is still built, the
// conflicting pairs are kept in [Tree.Conflicts] and overlapping ranges are
// simply never chosen as each other's parent.
//
// # Rendering
//
// [Render] walks the tree depth first. Siblings are listed by descending
// start offset and every uncovered stretch between siblings, or between a
// child and its parent's bounds, is counted as a gap. Gap rows are only
// printed with [RenderOptions.ShowGaps]; otherwise a single warning line
// mentions them.
package areatree
