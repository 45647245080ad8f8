// Package cli implements the dumpfmap command-line interface.
//
// The root command prints the region map (FMAP) of a firmware image in one of
// the flat formats or as an indented area tree. It is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The commands are:
//   - dumpfmap: Print (and optionally extract) the areas of an image
//   - export: Write the resolved area tree as JSON, DOT or SVG
//   - completion: Generate shell completion scripts
//
// # Output
//
// Listings go to stdout and keep the exact text layout scripts depend on.
// Log lines go to stderr. All commands support --verbose (-v) for debug-level
// logging.
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/dumpfmap/config.toml, or from the
// file named with --config. Flags always win.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Exported area tree (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
