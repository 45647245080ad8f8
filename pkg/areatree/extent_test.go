package areatree

import "testing"

func TestExtentPredicates(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Extent
		overlaps   bool
		conflicts  bool
		encloses   bool
		duplicates bool
	}{
		{"identical", Extent{0, 100}, Extent{0, 100}, false, false, true, true},
		{"a starts first, ends inside b", Extent{0, 60}, Extent{40, 100}, true, true, false, false},
		{"b starts first, ends inside a", Extent{40, 100}, Extent{0, 60}, false, true, false, false},
		{"a contains b", Extent{0, 100}, Extent{10, 20}, false, false, true, false},
		{"b contains a", Extent{10, 20}, Extent{0, 100}, false, false, false, false},
		{"shared start", Extent{0, 100}, Extent{0, 50}, false, false, true, false},
		{"shared end", Extent{0, 100}, Extent{50, 100}, false, false, true, false},
		{"abutting", Extent{0, 50}, Extent{50, 100}, false, false, false, false},
		{"disjoint", Extent{0, 10}, Extent{20, 30}, false, false, false, false},
		{"empty inside", Extent{0, 100}, Extent{50, 50}, false, false, true, false},
		{"empty at edge", Extent{0, 50}, Extent{50, 50}, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
			if got := tt.a.Conflicts(tt.b); got != tt.conflicts {
				t.Errorf("Conflicts = %v, want %v", got, tt.conflicts)
			}
			if got := tt.b.Conflicts(tt.a); got != tt.conflicts {
				t.Errorf("Conflicts (swapped) = %v, want %v", got, tt.conflicts)
			}
			if got := tt.a.Encloses(tt.b); got != tt.encloses {
				t.Errorf("Encloses = %v, want %v", got, tt.encloses)
			}
			if got := tt.a.Duplicates(tt.b); got != tt.duplicates {
				t.Errorf("Duplicates = %v, want %v", got, tt.duplicates)
			}
		})
	}
}

func TestSpan(t *testing.T) {
	e := Span(0x1000, 0x200)
	if e.Start != 0x1000 || e.End != 0x1200 {
		t.Errorf("Span = %+v, want {0x1000 0x1200}", e)
	}
	if e.Size() != 0x200 {
		t.Errorf("Size = %#x, want 0x200", e.Size())
	}
	if got := e.String(); got != "0x1000 - 0x1200" {
		t.Errorf("String = %q", got)
	}

	// uint32 arithmetic wraps but size is preserved
	w := Span(0xfffffff0, 0x20)
	if w.Size() != 0x20 {
		t.Errorf("wrapped Size = %#x, want 0x20", w.Size())
	}
}
