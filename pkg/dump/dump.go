// Package dump prints region maps in the flat, one-area-at-a-time formats:
// a verbose field listing, a script friendly form and the flashrom layout
// form.
package dump

import (
	stderrors "errors"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/dumpfmap/pkg/errors"
	"github.com/matzehuels/dumpfmap/pkg/fmap"
)

// Format selects how areas are printed.
type Format string

// Supported formats. FormatHuman is the area tree, which is not printed by
// this package but shares the selector.
const (
	FormatNormal   Format = "normal"
	FormatPretty   Format = "pretty"
	FormatFlashrom Format = "flashrom"
	FormatHuman    Format = "human"
)

// ValidFormats is the set of supported formats.
var ValidFormats = map[Format]bool{
	FormatNormal:   true,
	FormatPretty:   true,
	FormatFlashrom: true,
	FormatHuman:    true,
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: normal, pretty, flashrom, human)", s)
	}
	return f, nil
}

// ExtractFunc saves one area and returns where it went.
type ExtractFunc func(fmap.Area) (string, error)

// Options configures [Write].
type Options struct {
	Format Format

	// Names restricts the output to areas with exactly these names. Empty
	// means every area.
	Names []string

	// Extract, when set, is called for every printed area.
	Extract ExtractFunc
}

// Write prints m to w.
//
// Extraction failures do not stop the listing; they are collected and
// returned together once every area was handled.
func Write(w io.Writer, m *fmap.Map, opts Options) error {
	if opts.Format == "" {
		opts.Format = FormatNormal
	}
	if opts.Format == FormatHuman {
		return errors.New(errors.ErrCodeInvalidFormat, "the human format is rendered by areatree")
	}

	if opts.Format == FormatNormal {
		if err := writeHeader(w, m); err != nil {
			return err
		}
	}

	var failed []error
	for i, a := range m.Areas {
		if len(opts.Names) > 0 && !slices.Contains(opts.Names, a.Name) {
			continue
		}
		if err := writeArea(w, opts.Format, i, a); err != nil {
			return err
		}
		if opts.Extract == nil {
			continue
		}
		path, err := opts.Extract(a)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		if opts.Format == FormatNormal {
			if _, err := fmt.Fprintf(w, "saved as \"%s\"\n", path); err != nil {
				return err
			}
		}
	}

	if len(failed) > 0 {
		return errors.Wrap(errors.ErrCodeIO, stderrors.Join(failed...),
			"%d of the selected areas could not be extracted", len(failed))
	}
	return nil
}

func writeHeader(w io.Writer, m *fmap.Map) error {
	_, err := fmt.Fprintf(w,
		"fmap_signature   %s\n"+
			"fmap_version:    %d.%d\n"+
			"fmap_base:       0x%x\n"+
			"fmap_size:       0x%08x (%d)\n"+
			"fmap_name:       %s\n"+
			"fmap_nareas:     %d\n",
		fmap.Signature, m.VersionMajor, m.VersionMinor, m.Base, m.Size, m.Size, m.Name, len(m.Areas))
	return err
}

func writeArea(w io.Writer, format Format, i int, a fmap.Area) error {
	var err error
	switch format {
	case FormatPretty:
		_, err = fmt.Fprintf(w, "%s %d %d\n", a.Name, a.Offset, a.Size)
	case FormatFlashrom:
		if a.Size > 0 {
			_, err = fmt.Fprintf(w, "0x%08x:0x%08x %s\n", a.Offset, a.End()-1, a.Name)
		}
	default:
		_, err = fmt.Fprintf(w,
			"area:            %d\n"+
				"area_offset:     0x%08x\n"+
				"area_size:       0x%08x (%d)\n"+
				"area_name:       %s\n",
			i+1, a.Offset, a.Size, a.Size, a.Name)
	}
	return err
}
