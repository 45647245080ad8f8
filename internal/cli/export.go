package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
	"github.com/matzehuels/dumpfmap/pkg/errors"
	"github.com/matzehuels/dumpfmap/pkg/export"
	"github.com/matzehuels/dumpfmap/pkg/pipeline"
)

// Export formats.
const (
	exportJSON = "json"
	exportDOT  = "dot"
	exportSVG  = "svg"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	format  string // json, dot or svg
	output  string // output file; stdout when empty
	relaxed bool   // keep overlapping areas instead of failing
}

// exportCommand creates the export command, which writes the resolved area
// tree in a machine readable form.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: exportJSON}

	cmd := &cobra.Command{
		Use:   "export [flags] FLASHIMAGE",
		Short: "Export the area tree as JSON, DOT or SVG",
		Long: `Export resolves the area hierarchy of an image the same way -h does and
writes it as a JSON document, Graphviz DOT source or a rendered SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.relaxed, "relaxed", false, "tolerate overlapping areas")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, cmd *cobra.Command, path string, opts exportOpts) error {
	if !validExportFormat(opts.format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg)", opts.format)
	}

	tolerance := c.config.OverlapTolerance
	if opts.relaxed {
		tolerance = max(tolerance, areatree.RelaxedThreshold)
	}

	prog := newProgress(c.Logger)
	runner := pipeline.NewRunner(c.Logger)
	result, err := runner.Tree(ctx, path, pipeline.Options{
		RootName:         c.config.RootName,
		OverlapTolerance: tolerance,
		Stdout:           io.Discard,
		Report:           cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	data, err := c.encodeTree(ctx, cmd, result.Tree, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "can't write %s", opts.output)
	}
	prog.done("exported area tree")

	out := cmd.OutOrStdout()
	printSuccess(out, "Exported %s", opts.format)
	printFile(out, opts.output)
	printDetail(out, "%d areas · %d nodes · %d gaps", result.Stats.Areas, result.Stats.Nodes, result.Gaps)
	if n := len(result.Tree.Conflicts); n > 0 {
		printWarning(out, "%d overlapping area pair(s) tolerated", n)
	}
	return nil
}

func (c *CLI) encodeTree(ctx context.Context, cmd *cobra.Command, tree *areatree.Tree, opts exportOpts) ([]byte, error) {
	switch opts.format {
	case exportJSON:
		var buf bytes.Buffer
		if err := export.WriteJSON(&buf, tree); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		return buf.Bytes(), nil
	case exportDOT:
		return []byte(export.ToDOT(tree)), nil
	default:
		dot := export.ToDOT(tree)
		var spinner *Spinner
		if opts.output != "" {
			spinner = newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Rendering SVG...")
			spinner.Start()
		}
		svg, err := export.RenderSVG(ctx, dot)
		if spinner != nil {
			if err != nil {
				spinner.StopWithError("SVG rendering failed")
			} else {
				spinner.StopWithSuccess("Rendered SVG")
			}
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return svg, nil
	}
}

func validExportFormat(format string) bool {
	switch format {
	case exportJSON, exportDOT, exportSVG:
		return true
	}
	return false
}
