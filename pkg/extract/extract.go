// Package extract writes the raw contents of region map areas to files.
package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dumpfmap/pkg/errors"
	"github.com/matzehuels/dumpfmap/pkg/fmap"
)

// FileName returns the file name an area is saved under: its name with
// spaces replaced by underscores.
func FileName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// Write saves area's bytes from image into dir and returns the path written.
// Empty areas produce empty files. An area that does not lie within image
// is rejected without creating a file.
func Write(dir string, area fmap.Area, image []byte) (string, error) {
	start, end := uint64(area.Offset), uint64(area.Offset)+uint64(area.Size)
	if end > uint64(len(image)) {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"area %s (0x%x + 0x%x) lies outside the %d byte image", area.Name, area.Offset, area.Size, len(image))
	}

	path := filepath.Join(dir, FileName(area.Name))
	if err := os.WriteFile(path, image[start:end], 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "can't write %s", path)
	}
	return path, nil
}
