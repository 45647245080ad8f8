package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
	"github.com/matzehuels/dumpfmap/pkg/dump"
	"github.com/matzehuels/dumpfmap/pkg/extract"
	"github.com/matzehuels/dumpfmap/pkg/fmap"
	"github.com/matzehuels/dumpfmap/pkg/image"
	"github.com/matzehuels/dumpfmap/pkg/observability"
)

// Open maps the image at path and locates its region map. In the normal
// format the file name and the map offset are announced on opts.Stdout.
// The caller must close the returned image.
func (r *Runner) Open(ctx context.Context, path string, opts Options) (*image.Image, *fmap.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	normal := opts.Format == dump.FormatNormal

	start := time.Now()
	observability.Pipeline().OnOpenStart(ctx, path)
	img, m, err := r.open(path, normal, opts)
	areas := 0
	if m != nil {
		areas = len(m.Areas)
	}
	observability.Pipeline().OnOpenComplete(ctx, path, areas, time.Since(start), err)
	return img, m, err
}

func (r *Runner) open(path string, normal bool, opts Options) (*image.Image, *fmap.Map, error) {
	img, err := image.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r.logger().Debug("opened image", "path", path, "bytes", img.Len())
	if normal {
		fmt.Fprintf(opts.Stdout, "opened %s\n", path)
	}

	m, err := fmap.Locate(img.Bytes())
	if err != nil {
		_ = img.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if normal {
		fmt.Fprintf(opts.Stdout, "hit at 0x%08x\n", m.Offset)
	}
	return img, m, nil
}

// Areas converts the map's area records into tree input.
func Areas(m *fmap.Map) []areatree.Area {
	out := make([]areatree.Area, len(m.Areas))
	for i, a := range m.Areas {
		out[i] = areatree.Area{Name: a.Name, Start: a.Offset, Size: a.Size}
	}
	return out
}

// Build resolves the area tree of m. The root spans the image the map
// describes.
//
// Fatal overlaps are written to opts.Report before the error is returned;
// tolerated ones are written there too and kept on the tree.
func (r *Runner) Build(ctx context.Context, m *fmap.Map, opts Options) (*areatree.Tree, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	root := areatree.Span(m.ImageBase(), m.ImageSize())

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(m.Areas))
	tree, err := areatree.Build(Areas(m), root, opts.TreeOptions())
	nodes, conflicts := 0, 0
	if tree != nil {
		nodes, conflicts = tree.Len(), len(tree.Conflicts)
	}
	observability.Pipeline().OnBuildComplete(ctx, nodes, conflicts, time.Since(start), err)
	if err != nil {
		var overlap *areatree.OverlapError
		if stderrors.As(err, &overlap) {
			if werr := areatree.WriteConflicts(opts.Report, overlap.Conflicts, true); werr != nil {
				return nil, werr
			}
		}
		return nil, err
	}

	if len(tree.Conflicts) > 0 {
		r.logger().Warn("tolerating overlapping areas", "pairs", len(tree.Conflicts))
		if err := areatree.WriteConflicts(opts.Report, tree.Conflicts, false); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// RenderFlat prints m in one of the flat formats, extracting areas from data
// when opts.Extract is set.
func (r *Runner) RenderFlat(data []byte, m *fmap.Map, opts Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	dopts := dump.Options{Format: opts.Format, Names: opts.Names}
	if opts.Extract {
		dopts.Extract = func(a fmap.Area) (string, error) {
			path, err := extract.Write(opts.ExtractDir, a, data)
			if err != nil {
				r.logger().Error("extraction failed", "area", a.Name, "error", err)
				return "", err
			}
			r.logger().Debug("extracted area", "area", a.Name, "path", path, "bytes", a.Size)
			return path, nil
		}
	}
	return dump.Write(opts.Stdout, m, dopts)
}
