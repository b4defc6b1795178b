package simdcsv

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/vectorrow/simdcsv-go/internal/mmap"
	"github.com/vectorrow/simdcsv-go/internal/scanner"
)

// chunk is a newline-aligned sub-range of the post-header region.
type chunk struct {
	start uint32
	end   uint32
}

// ParallelReader splits a mapped file into worker chunks and parses each
// chunk with an independently-instantiated single-threaded Reader. Error
// checking is implicitly ENABLED for every worker (short rows are silently
// skipped), matching the parallel surface's documented contract.
type ParallelReader[NP NullPolicy] struct {
	region  *mmap.Region
	data    []byte
	n       int
	delim   byte
	headers []Field
	chunks  []chunk
}

// OpenParallel maps path, parses the header row identically to Open, and
// partitions the remaining bytes into up to workers newline-aligned
// chunks.
func OpenParallel[NP NullPolicy](path string, n int, delim byte, workers int, skipHeader bool) (*ParallelReader[NP], error) {
	region, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	data := region.Data()
	pr := &ParallelReader[NP]{
		region: region,
		data:   data,
		n:      n,
		delim:  delim,
	}

	base := uint32(0)
	pr.headers = make([]Field, n)
	if skipHeader {
		tmp := &Reader[ErrOff, NP]{
			data:   data,
			n:      n,
			delim:  delim,
			starts: scanner.GetUint32Slice(n)[:n],
			ends:   scanner.GetUint32Slice(n)[:n],
		}
		tmp.parseHeader()
		pr.headers = tmp.headers
		base = tmp.cursor
		scanner.PutUint32Slice(tmp.starts)
		scanner.PutUint32Slice(tmp.ends)
	}

	pr.chunks = partition(data, base, uint32(len(data)), workers)

	slog.Debug("simdcsv: parallel reader opened", "path", path, "workers", len(pr.chunks), "scanner", scanner.Capability())

	return pr, nil
}

// partition computes up to workers disjoint sub-ranges of [base, end) that
// each start exactly at a record boundary and contain whole rows only, per
// the chunking rule: advance from base+i*size to the byte just past the
// next newline.
func partition(data []byte, base, end uint32, workers int) []chunk {
	total := end - base
	if total == 0 || workers < 1 {
		return nil
	}
	if uint32(workers) > total {
		workers = int(total)
	}
	if workers < 1 {
		workers = 1
	}
	size := total / uint32(workers)
	if size == 0 {
		size = 1
	}

	chunks := make([]chunk, 0, workers)
	start := base
	for i := 0; i < workers-1 && start < end; i++ {
		target := base + uint32(i+1)*size
		if target >= end {
			break
		}
		nl := scanner.FindNewline(data[target:end])
		boundary := target + uint32(nl)
		if boundary < end {
			boundary++
		} else {
			boundary = end
		}
		if boundary <= start {
			continue
		}
		chunks = append(chunks, chunk{start: start, end: boundary})
		start = boundary
	}
	if start < end {
		chunks = append(chunks, chunk{start: start, end: end})
	}
	return chunks
}

// Headers returns the N header field references captured at construction.
func (pr *ParallelReader[NP]) Headers() []Field {
	return pr.headers
}

// Close releases the underlying mapping.
func (pr *ParallelReader[NP]) Close() error {
	return pr.region.Close()
}

// ForEachParallel spawns one goroutine per chunk, each running the
// single-threaded engine over its slice of the mapping with error checking
// implicitly enabled. The callback must tolerate concurrent invocation
// from multiple goroutines. Record order across chunks is unspecified;
// within a chunk, order is preserved. Returns the summed per-worker record
// count and the first non-nil worker error, if any.
func (pr *ParallelReader[NP]) ForEachParallel(cb func(fields []Field)) (int, error) {
	if len(pr.chunks) == 0 {
		return 0, nil
	}

	var wg sync.WaitGroup
	counts := make([]int, len(pr.chunks))

	for i, c := range pr.chunks {
		wg.Add(1)
		go func(i int, c chunk) {
			defer wg.Done()
			worker := &Reader[ErrBasic, NP]{
				data:   pr.data,
				cursor: c.start,
				n:      pr.n,
				delim:  pr.delim,
				starts: scanner.GetUint32Slice(pr.n)[:pr.n],
				ends:   scanner.GetUint32Slice(pr.n)[:pr.n],
				fields: make([]Field, pr.n),
			}
			counts[i] = worker.forEachInRange(c.end, cb)
			scanner.PutUint32Slice(worker.starts)
			scanner.PutUint32Slice(worker.ends)
		}(i, c)
	}
	wg.Wait()

	total := 0
	for _, c := range counts {
		total += c
	}
	// No worker can currently fail: the mapping is already open by the
	// time chunks are computed. The error return is kept for parity with
	// the single-threaded Open's fallible construction and as a home for
	// a future per-chunk failure mode.
	return total, nil
}

// forEachInRange is scanRow/ForEach restricted to end rather than
// len(r.data), letting one Reader instance parse a parallel chunk without
// reading past its assigned sub-range.
func (r *Reader[E, NP]) forEachInRange(end uint32, cb func(fields []Field)) int {
	count := 0
	for r.cursor < end {
		starts, ends, col := r.scanRowBounded(end)
		if col == 0 {
			break
		}
		if col != r.n {
			continue
		}
		for i := 0; i < r.n; i++ {
			r.fields[i] = newField(r.data, starts[i], ends[i])
		}
		cb(r.fields)
		count++
	}
	return count
}

// scanRowBounded is scanRow with the scan window capped at end instead of
// len(r.data), used by the parallel engine so each worker never reads past
// its assigned chunk.
func (r *Reader[E, NP]) scanRowBounded(end uint32) ([]uint32, []uint32, int) {
	data := r.data

	for r.cursor < end {
		switch data[r.cursor] {
		case '\n':
			r.cursor++
			continue
		case '\r':
			r.cursor++
			if r.cursor < end && data[r.cursor] == '\n' {
				r.cursor++
			}
			continue
		}
		break
	}
	if r.cursor >= end {
		return r.starts, r.ends, 0
	}

	lineLen := scanner.FindNewline(data[r.cursor:end])
	lineEnd := r.cursor + uint32(lineLen)
	effectiveEnd := lineEnd
	if effectiveEnd > r.cursor && data[effectiveEnd-1] == '\r' {
		effectiveEnd--
	}

	ptr := r.cursor
	col := 0
	for col < r.n && ptr < effectiveEnd {
		r.starts[col] = ptr
		advance := scanner.FindFieldEnd(data[ptr:effectiveEnd], r.delim)
		ptr += uint32(advance)
		r.ends[col] = ptr
		col++
		if ptr < effectiveEnd && data[ptr] == r.delim {
			ptr++
		}
	}

	if col > 0 && col < r.n && r.ends[col-1] < effectiveEnd && data[r.ends[col-1]] == r.delim {
		r.starts[col] = ptr
		r.ends[col] = ptr
		col++
	}

	if lineEnd < end {
		r.cursor = lineEnd + 1
	} else {
		r.cursor = end
	}

	for i := col; i < r.n; i++ {
		r.starts[i] = ptr
		r.ends[i] = ptr
	}

	return r.starts, r.ends, col
}
