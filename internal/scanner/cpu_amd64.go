//go:build amd64

package scanner

import "golang.org/x/sys/cpu"

// hasSIMD reports whether the vectorized scan path should be used. SSE2 is
// part of the amd64 baseline, so this is true on every real amd64 CPU; the
// feature check exists so the dispatch mirrors the teacher's cpu.X86-gated
// AVX2/SSE4.2 selection instead of hard-coding "always on".
func hasSIMD() bool {
	return cpu.X86.HasSSE2
}

const vectorName = "sse2-swar"
