//go:build !amd64 && !arm64

package scanner

// hasSIMD is false on architectures we have not measured the SWAR path
// against; the scalar loop is always correct there.
func hasSIMD() bool {
	return false
}

const vectorName = "scalar"
