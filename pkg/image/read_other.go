//go:build !unix

package image

import (
	"io"
	"os"
)

func (i *Image) load(f *os.File, size int64) error {
	b := make([]byte, size)
	if _, err := io.ReadFull(f, b); err != nil {
		return err
	}
	i.bytes = b
	return nil
}
