// Package mmap exposes a file's contents as a stable, read-only byte range.
//
// A Region is the Mapped Source of the parsing engine: on unix platforms it
// wraps a real OS mapping (golang.org/x/sys/unix), advised for sequential
// access; on other platforms it falls back to reading the file once into a
// heap buffer so the module still builds and behaves correctly, at the cost
// of the true zero-copy guarantee.
package mmap

import (
	"os"
)

// Region is a non-copyable, read-only view over a file's bytes.
//
// The zero value is not usable; obtain a Region via Open. Every byte slice
// derived from a Region (including all Field values built on top of it)
// must not be retained past a call to Close.
type Region struct {
	data   []byte
	closer func() error
	valid  bool
}

// Open maps path read-only and returns the resulting Region.
//
// Open never panics on a bad path; it returns a non-nil error, and the
// zero Region reports Valid() == false so callers who prefer to check
// validity instead of unwrapping an error still have that option.
func Open(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Region{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return &Region{}, err
	}

	if fi.Size() == 0 {
		return &Region{data: []byte{}, closer: func() error { return nil }, valid: true}, nil
	}

	return open(f, fi.Size())
}

// Data returns the mapped byte range. The returned slice must not outlive
// the Region.
func (r *Region) Data() []byte { return r.data }

// Len reports the size of the mapped byte range.
func (r *Region) Len() int { return len(r.data) }

// Valid reports whether the Region wraps a live mapping.
func (r *Region) Valid() bool { return r.valid }

// Close releases the underlying OS resources. It is safe to call once;
// calling it again is a no-op returning nil.
func (r *Region) Close() error {
	if r.closer == nil {
		return nil
	}
	closer := r.closer
	r.closer = nil
	r.data = nil
	r.valid = false
	return closer()
}
