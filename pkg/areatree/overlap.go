package areatree

import (
	"fmt"
	"io"
	"strings"
)

// RelaxedThreshold is the overlap tolerance at which partial overlaps stop
// being fatal. Each request for relaxed behaviour raises the tolerance by one.
const RelaxedThreshold = 2

// Conflict is a pair of areas that partially overlap. First is the one that
// starts earlier.
type Conflict struct {
	First  Region
	Second Region
}

// Region is a named extent as reported in diagnostics.
type Region struct {
	Name string
	Extent
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s and %s overlap", c.First.Name, c.Second.Name)
}

// OverlapError is returned by [Build] when partial overlaps were found and the
// tolerance did not allow them. It carries every conflicting pair.
type OverlapError struct {
	Conflicts []Conflict
}

func (e *OverlapError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%d overlapping area pair(s): %s", len(e.Conflicts), strings.Join(parts, "; "))
}

// WriteConflicts prints the diagnostics for each conflict. When fatal is set
// every report ends with a hint about the relaxed mode.
func WriteConflicts(w io.Writer, conflicts []Conflict, fatal bool) error {
	for _, c := range conflicts {
		if _, err := fmt.Fprintf(w, "ERROR: %s\n  %s: %s\n  %s: %s\n",
			c, c.First.Name, c.First.Extent, c.Second.Name, c.Second.Extent); err != nil {
			return err
		}
		if fatal {
			if _, err := io.WriteString(w, "Use more -h args to ignore this error\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
