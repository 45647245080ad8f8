package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/dumpfmap/pkg/areatree"
	"github.com/matzehuels/dumpfmap/pkg/dump"
	"github.com/matzehuels/dumpfmap/pkg/errors"
	"github.com/matzehuels/dumpfmap/pkg/fmap"
)

const mapOffset = 0x100

func sampleMap() *fmap.Map {
	return &fmap.Map{
		Size: 0x1000,
		Name: "FMAP",
		Areas: []fmap.Area{
			{Offset: 0x000, Size: 0x800, Name: "RO_SECTION"},
			{Offset: 0x100, Size: 0x100, Name: "FMAP"},
			{Offset: 0x800, Size: 0x800, Name: "RW_SECTION"},
		},
	}
}

// writeImage stores m at mapOffset inside a 4 KiB image and returns its path.
func writeImage(t *testing.T, m *fmap.Map) string {
	t.Helper()
	enc, err := m.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	img := make([]byte, 0x1000)
	for i := range img {
		img[i] = byte(i)
	}
	copy(img[mapOffset:], enc)

	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func row(indent int, name string, start, end, size uint32, suffix string) string {
	return strings.Repeat("  ", indent) + fmt.Sprintf("%-25s  %08x    %08x    %08x%s", name, start, end, size, suffix)
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", opts.Format, DefaultFormat)
	}
	if opts.RootName != areatree.RootName {
		t.Errorf("RootName = %q", opts.RootName)
	}
	if opts.ExtractDir != DefaultExtractDir {
		t.Errorf("ExtractDir = %q", opts.ExtractDir)
	}
	if opts.Stdout != os.Stdout || opts.Report != os.Stdout {
		t.Error("Stdout and Report should default to os.Stdout")
	}
}

func TestOptionsImplyHuman(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want dump.Format
	}{
		{"gaps", Options{Format: dump.FormatPretty, Gaps: true}, dump.FormatHuman},
		{"tolerance", Options{OverlapTolerance: 1}, dump.FormatHuman},
		{"flashrom", Options{Format: dump.FormatFlashrom}, dump.FormatFlashrom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("ValidateAndSetDefaults: %v", err)
			}
			if tt.opts.Format != tt.want {
				t.Errorf("Format = %q, want %q", tt.opts.Format, tt.want)
			}
		})
	}
}

func TestOptionsInvalid(t *testing.T) {
	opts := Options{Format: "yaml"}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: err = %v", err)
	}
	opts = Options{OverlapTolerance: -1}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative tolerance: err = %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Gaps: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first: %v", err)
	}
	opts.Gaps = false
	opts.Format = dump.FormatPretty
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second: %v", err)
	}
	if opts.Format != dump.FormatPretty {
		t.Error("second call changed the options")
	}
}

func TestExecuteNormal(t *testing.T) {
	path := writeImage(t, sampleMap())
	var out bytes.Buffer

	result, err := NewRunner(nil).Execute(context.Background(), path, Options{Stdout: &out})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	prefix := lines("opened "+path, "hit at 0x00000100", "fmap_signature   __FMAP__")
	if !strings.HasPrefix(got, prefix) {
		t.Errorf("output starts with:\n%s\nwant:\n%s", got[:min(len(got), len(prefix))], prefix)
	}
	if !strings.HasSuffix(got, "area_name:       RW_SECTION\n") {
		t.Errorf("output does not end with the last area:\n%s", got)
	}
	if result.Tree != nil {
		t.Error("flat format built a tree")
	}
	if result.Stats.Areas != 3 || result.Map.Offset != mapOffset {
		t.Errorf("Stats.Areas = %d, Map.Offset = %#x", result.Stats.Areas, result.Map.Offset)
	}
}

func TestExecuteFlatQuiet(t *testing.T) {
	path := writeImage(t, sampleMap())
	var out bytes.Buffer

	_, err := NewRunner(nil).Execute(context.Background(), path, Options{
		Format: dump.FormatFlashrom,
		Names:  []string{"FMAP"},
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if diff := cmp.Diff(lines("0x00000100:0x000001ff FMAP"), out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteHuman(t *testing.T) {
	path := writeImage(t, sampleMap())

	tests := []struct {
		name     string
		opts     Options
		want     string
		wantGaps int
	}{
		{
			name: "gaps hidden",
			opts: Options{Format: dump.FormatHuman},
			want: lines(
				"# name                     start       end         size",
				row(0, "RW_SECTION", 0x800, 0x1000, 0x800, ""),
				row(0, "RO_SECTION", 0x000, 0x800, 0x800, ""),
				row(1, "FMAP", 0x100, 0x200, 0x100, ""),
				"",
				"WARNING: unused regions found. Use -H to see them",
			),
			wantGaps: 2,
		},
		{
			name: "gaps shown",
			opts: Options{Gaps: true, OverlapTolerance: 1},
			want: lines(
				"# name                     start       end         size",
				row(0, "-entire flash-", 0x000, 0x1000, 0x1000, ""),
				row(1, "RW_SECTION", 0x800, 0x1000, 0x800, ""),
				row(1, "RO_SECTION", 0x000, 0x800, 0x800, ""),
				row(2, "", 0x200, 0x800, 0x600, "  // gap in RO_SECTION"),
				row(2, "FMAP", 0x100, 0x200, 0x100, ""),
				row(2, "", 0x000, 0x100, 0x100, "  // gap in RO_SECTION"),
			),
			wantGaps: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tt.opts.Stdout = &out
			result, err := NewRunner(nil).Execute(context.Background(), path, tt.opts)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if diff := cmp.Diff(tt.want, out.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
			if result.Gaps != tt.wantGaps {
				t.Errorf("Gaps = %d, want %d", result.Gaps, tt.wantGaps)
			}
			if result.Stats.Nodes != 4 {
				t.Errorf("Stats.Nodes = %d, want 4", result.Stats.Nodes)
			}
		})
	}
}

func overlapMap() *fmap.Map {
	return &fmap.Map{
		Size: 0x1000,
		Areas: []fmap.Area{
			{Offset: 0x000, Size: 0x600, Name: "P"},
			{Offset: 0x400, Size: 0x600, Name: "Q"},
		},
	}
}

func TestExecuteOverlapFatal(t *testing.T) {
	path := writeImage(t, overlapMap())
	var out bytes.Buffer

	_, err := NewRunner(nil).Execute(context.Background(), path, Options{OverlapTolerance: 1, Stdout: &out})
	if !errors.Is(err, errors.ErrCodeStructuralOverlap) {
		t.Fatalf("Execute error = %v, want STRUCTURAL_OVERLAP", err)
	}
	if !errors.Reported(err) {
		t.Error("overlap error should count as reported")
	}
	want := lines(
		"ERROR: P and Q overlap",
		"  P: 0x0 - 0x600",
		"  Q: 0x400 - 0xa00",
		"Use more -h args to ignore this error",
	)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteOverlapRelaxed(t *testing.T) {
	path := writeImage(t, overlapMap())
	var out bytes.Buffer

	result, err := NewRunner(nil).Execute(context.Background(), path, Options{
		OverlapTolerance: areatree.RelaxedThreshold,
		Stdout:           &out,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := out.String()
	wantPrefix := lines(
		"ERROR: P and Q overlap",
		"  P: 0x0 - 0x600",
		"  Q: 0x400 - 0xa00",
		"# name                     start       end         size",
	)
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("output mismatch, got:\n%s", got)
	}
	if strings.Contains(got, "Use more -h") {
		t.Error("relaxed mode asks for more -h")
	}
	if len(result.Tree.Conflicts) != 1 {
		t.Errorf("Conflicts = %v", result.Tree.Conflicts)
	}
}

func TestExecuteExtract(t *testing.T) {
	path := writeImage(t, sampleMap())
	dir := t.TempDir()
	var out bytes.Buffer

	_, err := NewRunner(nil).Execute(context.Background(), path, Options{
		Names:      []string{"RW_SECTION"},
		Extract:    true,
		ExtractDir: dir,
		Stdout:     &out,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	saved := filepath.Join(dir, "RW_SECTION")
	if !strings.Contains(out.String(), fmt.Sprintf("saved as \"%s\"\n", saved)) {
		t.Errorf("output does not announce %s:\n%s", saved, out.String())
	}
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 0x800 || data[0] != byte(0x800%256) {
		t.Errorf("extracted %d bytes starting with %#x", len(data), data[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "RO_SECTION")); !os.IsNotExist(err) {
		t.Error("unselected area was extracted")
	}
}

func TestExecuteErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "blank.bin")
	if err := os.WriteFile(empty, make([]byte, 4096), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want errors.Code
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.bin"), errors.ErrCodeFileNotFound},
		{"no region map", empty, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil).Execute(context.Background(), tt.path, Options{Stdout: &bytes.Buffer{}})
			if !errors.Is(err, tt.want) {
				t.Errorf("Execute error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestExecuteCanceled(t *testing.T) {
	path := writeImage(t, sampleMap())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := NewRunner(nil).Execute(ctx, path, Options{Stdout: &out})
	if errors.ExitCode(err) != 130 {
		t.Errorf("Execute error = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("canceled run printed:\n%s", out.String())
	}
}

func TestTree(t *testing.T) {
	path := writeImage(t, sampleMap())
	var out bytes.Buffer

	result, err := NewRunner(nil).Tree(context.Background(), path, Options{Format: dump.FormatNormal, Stdout: &out})
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Tree printed:\n%s", out.String())
	}
	root := result.Tree.Root()
	var names []string
	for _, c := range result.Tree.SortedChildren(root) {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"RW_SECTION", "RO_SECTION"}, names); diff != "" {
		t.Errorf("root children mismatch (-want +got):\n%s", diff)
	}
	if result.Gaps != 2 {
		t.Errorf("Gaps = %d, want 2", result.Gaps)
	}
}
