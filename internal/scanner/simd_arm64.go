//go:build arm64

package scanner

// hasSIMD is always true on arm64: the SWAR vectorized path needs nothing
// beyond 64-bit registers, which every arm64 CPU has. There is no NEON
// assembly here (see DESIGN.md) — "vectorized" means the register-width
// trick in vector.go, not an actual NEON intrinsic.
func hasSIMD() bool {
	return true
}

const vectorName = "neon-width-swar"
