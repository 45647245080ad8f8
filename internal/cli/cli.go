package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dumpfmap/pkg/buildinfo"
	"github.com/matzehuels/dumpfmap/pkg/dump"
	"github.com/matzehuels/dumpfmap/pkg/errors"
	"github.com/matzehuels/dumpfmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dumpfmap"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// config is loaded before any command runs.
	config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// globalOpts holds the flags shared by every command.
type globalOpts struct {
	verbose    bool
	configPath string
	rootName   string
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself prints the region map of an image.
func (c *CLI) RootCommand() *cobra.Command {
	var global globalOpts
	var opts dumpOpts

	root := &cobra.Command{
		Use:   "dumpfmap [-x] [-p|-f|-h|-H] FLASHIMAGE [NAME...]",
		Short: "Display the FMAP components of a BIOS image",
		Long: `Display (and extract with -x) the FMAP components from a BIOS image.
The -p option makes the output easier to parse by scripts.
The -f option emits the FMAP in the format used by flashrom.

Specify one or more NAMEs to only print sections that exactly match.

The -h option shows the whole FMAP in human-readable form.
  Use -H to also display any gaps.
Overlapping areas are an error unless -h or -H is given at least twice.`,
		Version:       buildinfo.Version,
		Args:          requireImage,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(global.configPath)
			if err != nil {
				return err
			}
			if global.rootName != "" {
				cfg.RootName = global.rootName
			}
			c.config = cfg

			level := LogInfo
			if global.verbose || cfg.Verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDump(cmd, args, opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&global.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dumpfmap/config.toml)")
	root.PersistentFlags().StringVar(&global.rootName, "root-name", "", "name of the node spanning the whole image")

	// -h belongs to the human format, so help is long-form only.
	root.Flags().Bool("help", false, "help for dumpfmap")
	root.Flags().BoolVarP(&opts.extract, "extract", "x", false, "save each printed area to a file named after it")
	root.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "print areas as 'name offset size' for scripts")
	root.Flags().BoolVarP(&opts.flashrom, "flashrom", "f", false, "print the layout in flashrom format")
	root.Flags().CountVarP(&opts.human, "human", "h", "print the area tree (repeat to tolerate overlaps)")
	root.Flags().CountVarP(&opts.gaps, "gaps", "H", "print the area tree with gaps (implies -h)")
	root.Flags().StringVar(&opts.extractDir, "extract-dir", "", "directory extracted areas are written to")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func requireImage(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "missing FLASHIMAGE argument (see %s --help)", cmd.Name())
	}
	return nil
}

// =============================================================================
// Dump
// =============================================================================

// dumpOpts holds the command-line flags of the root command.
type dumpOpts struct {
	extract    bool
	pretty     bool
	flashrom   bool
	human      int // times -h was given
	gaps       int // times -H was given
	extractDir string
}

// pipelineOptions merges the flags over the config file values. Any -h or
// -H selects the tree; each one adds to the overlap tolerance.
func (o dumpOpts) pipelineOptions(cfg *Config) pipeline.Options {
	opts := pipeline.Options{
		Format:           dump.Format(cfg.Format),
		Gaps:             cfg.Gaps,
		OverlapTolerance: cfg.OverlapTolerance,
		RootName:         cfg.RootName,
		ExtractDir:       cfg.ExtractDir,
		Extract:          o.extract,
	}
	if o.extractDir != "" {
		opts.ExtractDir = o.extractDir
	}

	switch {
	case o.human > 0 || o.gaps > 0:
		opts.Format = dump.FormatHuman
		opts.OverlapTolerance = o.human + o.gaps
		opts.Gaps = opts.Gaps || o.gaps > 0
	case o.flashrom:
		opts.Format = dump.FormatFlashrom
		opts.Gaps, opts.OverlapTolerance = false, 0
	case o.pretty:
		opts.Format = dump.FormatPretty
		opts.Gaps, opts.OverlapTolerance = false, 0
	}
	return opts
}

func (c *CLI) runDump(cmd *cobra.Command, args []string, o dumpOpts) error {
	opts := o.pipelineOptions(c.config)
	opts.Names = args[1:]
	opts.Stdout = cmd.OutOrStdout()

	runner := pipeline.NewRunner(c.Logger)
	result, err := runner.Execute(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	c.Logger.Debug("done",
		"areas", result.Stats.Areas,
		"nodes", result.Stats.Nodes,
		"gaps", result.Gaps)
	return nil
}
