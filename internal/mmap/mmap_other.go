//go:build !unix

package mmap

import (
	"io"
	"os"
)

// open falls back to a single buffered read on platforms without a unix
// mmap syscall. The returned Region still satisfies every invariant the
// engine relies on (a stable, immutable, read-only byte range); it just
// isn't backed by the OS page cache directly.
func open(f *os.File, size int64) (*Region, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return &Region{}, err
	}

	return &Region{
		data:   data,
		valid:  true,
		closer: func() error { return nil },
	}, nil
}
