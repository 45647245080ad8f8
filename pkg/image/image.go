// Package image gives read-only access to a firmware image file.
//
// On unix systems the file is memory mapped privately, so large images are
// not copied into the heap. Elsewhere the file is read in full.
package image

import (
	"io/fs"
	"os"

	"github.com/matzehuels/dumpfmap/pkg/errors"
)

// Image is an open firmware image.
type Image struct {
	path  string
	bytes []byte
	unmap func() error
}

// Open opens the image at path.
//
// A missing file is reported with FILE_NOT_FOUND, anything else that keeps
// the file from being read with IO.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "can't open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "can't open %s", path)
	}
	defer f.Close() // the mapping outlives the descriptor

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "can't stat %s", path)
	}
	if !stat.Mode().IsRegular() {
		return nil, errors.Wrap(errors.ErrCodeIO, &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid},
			"%s is not a regular file", path)
	}

	img := &Image{path: path}
	if err := img.load(f, stat.Size()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "can't map %s", path)
	}
	return img, nil
}

// Path returns the path the image was opened from.
func (i *Image) Path() string { return i.path }

// Bytes returns the image contents. The slice must not be modified and is
// only valid until Close.
func (i *Image) Bytes() []byte { return i.bytes }

// Len returns the image size in bytes.
func (i *Image) Len() int { return len(i.bytes) }

// Close releases the image contents.
func (i *Image) Close() error {
	unmap := i.unmap
	i.bytes, i.unmap = nil, nil
	if unmap == nil {
		return nil
	}
	if err := unmap(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "can't unmap %s", i.path)
	}
	return nil
}
