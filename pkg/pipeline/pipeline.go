// Package pipeline runs dumpfmap end to end: open an image, locate its region
// map, then print it as a flat listing or as a resolved area tree.
//
// This package is shared by the root command and the export command so both
// see the same map and the same tree for a given image.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Open: map the image and locate the region map inside it
//  2. Build: resolve the area hierarchy (tree formats only)
//  3. Render: print the flat dump or the tree listing
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, "bios.bin", pipeline.Options{
//	    Format: dump.FormatHuman,
//	    Gaps:   true,
//	})
//
// Build the tree without printing it:
//
//	result, err := runner.Tree(ctx, "bios.bin", pipeline.Options{})
//	dot := export.ToDOT(result.Tree)
package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
	"github.com/matzehuels/dumpfmap/pkg/dump"
	"github.com/matzehuels/dumpfmap/pkg/errors"
	"github.com/matzehuels/dumpfmap/pkg/fmap"
)

const (
	// DefaultFormat is the output format when none is selected.
	DefaultFormat = dump.FormatNormal

	// DefaultExtractDir is where extracted areas are written.
	DefaultExtractDir = "."
)

// Options contains all configuration for a pipeline run.
type Options struct {
	// Format selects the output. Gaps or a positive OverlapTolerance imply
	// [dump.FormatHuman].
	Format dump.Format

	// Names restricts the flat formats to these area names.
	Names []string

	// Extract saves every printed area to ExtractDir (flat formats only).
	Extract    bool
	ExtractDir string

	// Tree options
	Gaps             bool
	OverlapTolerance int
	RootName         string

	// Stdout receives the listing. Defaults to os.Stdout.
	Stdout io.Writer

	// Report receives overlap diagnostics. Defaults to Stdout.
	Report io.Writer

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Map is the decoded region map.
	Map *fmap.Map

	// Tree is the resolved area tree. Nil for the flat formats.
	Tree *areatree.Tree

	// Gaps is the number of uncovered stretches found while rendering.
	Gaps int

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Areas      int
	Nodes      int
	OpenTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.OverlapTolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "overlap tolerance must not be negative, got %d", o.OverlapTolerance)
	}
	if o.Gaps || o.OverlapTolerance > 0 {
		o.Format = dump.FormatHuman
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if _, err := dump.ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if o.RootName == "" {
		o.RootName = areatree.RootName
	}
	if o.ExtractDir == "" {
		o.ExtractDir = DefaultExtractDir
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Report == nil {
		o.Report = o.Stdout
	}
	o.validated = true
	return nil
}

// IsTree reports whether the options select the tree listing.
func (o *Options) IsTree() bool {
	return o.Format == dump.FormatHuman
}

// TreeOptions returns the options for [areatree.Build].
func (o *Options) TreeOptions() areatree.Options {
	return areatree.Options{
		RootName:         o.RootName,
		OverlapTolerance: o.OverlapTolerance,
	}
}

// RenderOptions returns the options for [areatree.Render]. The root row is
// printed together with the gaps.
func (o *Options) RenderOptions() areatree.RenderOptions {
	return areatree.RenderOptions{
		ShowGaps: o.Gaps,
		ShowRoot: o.Gaps,
	}
}
