//go:build unix

package image

import (
	"os"

	"golang.org/x/sys/unix"
)

func (i *Image) load(f *os.File, size int64) error {
	if size == 0 {
		i.bytes = []byte{}
		return nil
	}
	b, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	i.bytes = b
	i.unmap = func() error { return unix.Munmap(b) }
	return nil
}
