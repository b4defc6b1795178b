// Package scanner provides the two byte-range primitives the record
// iterator builds on: locating the next field terminator and the next
// record terminator. Both primitives have a vectorized ("SIMD within a
// register") fast path and a scalar fallback that is used for short inputs
// and for whatever the fast path leaves in its tail.
package scanner

// FindFieldEnd returns the least index i such that data[i] is delim, '\n',
// or '\r', or len(data) if no such byte exists.
func FindFieldEnd(data []byte, delim byte) int {
	if len(data) < minVectorLen || !hasSIMD() {
		return findFieldEndScalar(data, delim)
	}
	return findFieldEndVector(data, delim)
}

// FindNewline returns the least index i such that data[i] == '\n', or
// len(data) if no such byte exists.
func FindNewline(data []byte) int {
	if len(data) < minVectorLen || !hasSIMD() {
		return findNewlineScalar(data)
	}
	return findNewlineVector(data)
}

// Capability names the scan path currently selected for this process, for
// startup diagnostics only; it has no effect on parsing semantics.
func Capability() string {
	if hasSIMD() {
		return vectorName
	}
	return "scalar"
}

const minVectorLen = 16
