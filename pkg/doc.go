// Package pkg provides the libraries behind dumpfmap, a tool that reads the
// region map (FMAP) embedded in a firmware image and shows how its areas
// nest.
//
// # Overview
//
// A region map is a flat table of named byte ranges. dumpfmap prints that
// table as is, or reconstructs the containment hierarchy it implies and
// prints it as an indented tree with the unused stretches marked.
//
// # Architecture
//
// The typical data flow through dumpfmap:
//
//	Firmware image
//	         ↓
//	    [image] package (read-only mapping)
//	         ↓
//	    [fmap] package (find + decode the region map)
//	         ↓
//	    [dump] package (flat listing)  or  [areatree] package (hierarchy)
//	         ↓
//	    text listing, or [export] (JSON/DOT/SVG)
//
// # Quick Start
//
//	img, _ := image.Open("bios.bin")
//	defer img.Close()
//	m, _ := fmap.Locate(img.Bytes())
//
//	tree, err := areatree.Build(pipeline.Areas(m),
//	    areatree.Span(m.ImageBase(), m.ImageSize()), areatree.Options{})
//	if err != nil {
//	    // STRUCTURAL_OVERLAP: two areas partially overlap
//	}
//	areatree.Render(os.Stdout, tree, areatree.RenderOptions{ShowGaps: true, ShowRoot: true})
//
// # Main Packages
//
// [areatree] - Range classification, duplicate coalescing, parent resolution
// and the tree listing with gap synthesis.
//
// [fmap] - The on-flash region map format: signature search, decoding and
// encoding.
//
// [dump] - The flat formats: field listing, script friendly and flashrom.
//
// [extract] - Saving area contents to files.
//
// [image] - Read-only access to image files (mmap on unix).
//
// [export] - JSON, Graphviz DOT and SVG renditions of a resolved tree.
//
// [pipeline] - Open → build → render, shared by every command.
//
// [observability] - Hooks around pipeline stages for metrics backends.
//
// [errors] - Structured error codes.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/areatree/...       # Specific package
//	go test -run Example ./pkg/...   # Examples only
//
// [areatree]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/areatree
// [fmap]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/fmap
// [dump]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/dump
// [extract]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/extract
// [image]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/image
// [export]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/dumpfmap/pkg/buildinfo
package pkg
