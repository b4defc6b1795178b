package scanner

import "sync"

var uint32Pool = sync.Pool{
	New: func() interface{} {
		return make([]uint32, 0, 64)
	},
}

// GetUint32Slice returns a zero-length []uint32 with at least capacity n,
// reused across record iterator instances the way the teacher's
// tokenPool amortized allocation across decode calls.
func GetUint32Slice(n int) []uint32 {
	s := uint32Pool.Get().([]uint32)
	if cap(s) < n {
		return make([]uint32, 0, n)
	}
	return s[:0]
}

// PutUint32Slice returns s to the pool for reuse.
func PutUint32Slice(s []uint32) {
	if cap(s) > 4096 {
		return
	}
	uint32Pool.Put(s[:0]) //nolint:staticcheck // intentionally reset length, keep capacity
}
