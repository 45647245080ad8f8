package image

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dumpfmap/pkg/errors"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bios.bin")
	want := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 1024)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if img.Len() != len(want) || !bytes.Equal(img.Bytes(), want) {
		t.Errorf("contents differ: got %d bytes", img.Len())
	}
	if img.Path() != path {
		t.Errorf("Path = %q", img.Path())
	}
	if err := img.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := img.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer img.Close()
	if img.Len() != 0 {
		t.Errorf("Len = %d, want 0", img.Len())
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.bin"), errors.ErrCodeFileNotFound},
		{"directory", dir, errors.ErrCodeIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Open(%q) error = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}
