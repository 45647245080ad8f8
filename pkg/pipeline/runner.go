package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
	"github.com/matzehuels/dumpfmap/pkg/dump"
	"github.com/matzehuels/dumpfmap/pkg/observability"
)

// Runner executes the pipeline stages and logs their progress.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards all log output.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{Logger: logger}
}

// logger returns the runner's logger, or one that discards everything.
func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return r.Logger
}

// Execute opens the image at path and prints its region map to opts.Stdout
// in the selected format.
//
// A STRUCTURAL_OVERLAP error means the overlap report was already written to
// opts.Report.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 1: Open
	openStart := time.Now()
	img, m, err := r.Open(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := img.Close(); err != nil {
			r.logger().Warn("closing image", "path", path, "error", err)
		}
	}()
	result.Map = m
	result.Stats.OpenTime = time.Since(openStart)
	result.Stats.Areas = len(m.Areas)

	r.logger().Debug("located region map",
		"name", m.Name,
		"offset", fmt.Sprintf("0x%x", m.Offset),
		"areas", len(m.Areas),
		"duration", result.Stats.OpenTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !opts.IsTree() {
		renderStart := time.Now()
		observability.Pipeline().OnRenderStart(ctx, string(opts.Format))
		err := r.RenderFlat(img.Bytes(), m, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		observability.Pipeline().OnRenderComplete(ctx, string(opts.Format), result.Stats.RenderTime, err)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		r.logger().Debug("printed areas", "format", opts.Format, "duration", result.Stats.RenderTime)
		return result, nil
	}

	if len(opts.Names) > 0 || opts.Extract {
		r.logger().Warn("area names and extraction are ignored by the tree listing")
	}

	// Stage 2: Build
	buildStart := time.Now()
	tree, err := r.Build(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Nodes = tree.Len()

	r.logger().Debug("resolved area tree",
		"nodes", tree.Len(),
		"conflicts", len(tree.Conflicts),
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, string(opts.Format))
	gaps, err := areatree.Render(opts.Stdout, tree, opts.RenderOptions())
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, string(opts.Format), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Gaps = gaps

	r.logger().Debug("printed area tree",
		"gaps", gaps,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Tree opens the image at path and resolves its area tree without printing
// a listing. Overlap diagnostics still go to opts.Report.
func (r *Runner) Tree(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.Format = dump.FormatHuman
	opts.Names, opts.Extract = nil, false
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}
	openStart := time.Now()
	img, m, err := r.Open(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	// The map is decoded into its own memory; the image is not needed past
	// this point.
	if err := img.Close(); err != nil {
		r.logger().Warn("closing image", "path", path, "error", err)
	}
	result.Map = m
	result.Stats.OpenTime = time.Since(openStart)
	result.Stats.Areas = len(m.Areas)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	tree, err := r.Build(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Gaps = countGaps(tree)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Nodes = tree.Len()

	r.logger().Debug("resolved area tree",
		"nodes", tree.Len(),
		"gaps", result.Gaps,
		"duration", result.Stats.BuildTime)

	return result, nil
}

func countGaps(t *areatree.Tree) int {
	n := 0
	for _, node := range t.Nodes() {
		n += len(t.Gaps(node))
	}
	return n
}
