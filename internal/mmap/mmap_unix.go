//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// open memory-maps f (already known to have a positive size) and advises
// the kernel of sequential access, per the Mapped Source contract.
func open(f *os.File, size int64) (*Region, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return &Region{}, err
	}

	// Best-effort hint; a failure here does not invalidate the mapping.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	r := &Region{data: data, valid: true}
	r.closer = func() error {
		return unix.Munmap(data)
	}
	return r, nil
}
