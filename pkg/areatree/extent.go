package areatree

import "fmt"

// Extent is a half-open byte range [Start, End).
//
// All arithmetic is plain uint32 arithmetic: an extent built with [Span]
// from a start and size that exceed 32 bits wraps, and no attempt is made
// to detect that.
type Extent struct {
	Start uint32
	End   uint32
}

// Span returns the extent that starts at start and covers size bytes.
func Span(start, size uint32) Extent {
	return Extent{Start: start, End: start + size}
}

// Size returns the number of bytes covered by e.
func (e Extent) Size() uint32 {
	return e.End - e.Start
}

// Overlaps reports whether e starts first and ends inside o:
// e.Start < o.Start < e.End < o.End.
//
// The relation is directional. Use [Extent.Conflicts] when the order of the
// two ranges is not known.
func (e Extent) Overlaps(o Extent) bool {
	return e.Start < o.Start && o.Start < e.End && e.End < o.End
}

// Conflicts reports whether e and o partially overlap in either direction.
func (e Extent) Conflicts(o Extent) bool {
	return e.Overlaps(o) || o.Overlaps(e)
}

// Encloses reports whether o lies within e. Every extent encloses itself
// and its exact duplicates.
func (e Extent) Encloses(o Extent) bool {
	return e.Start <= o.Start && e.End >= o.End
}

// Duplicates reports whether e and o cover exactly the same bytes.
func (e Extent) Duplicates(o Extent) bool {
	return e.Start == o.Start && e.End == o.End
}

// String formats e the way overlap diagnostics print it.
func (e Extent) String() string {
	return fmt.Sprintf("0x%x - 0x%x", e.Start, e.End)
}
