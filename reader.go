package simdcsv

import (
	"log/slog"

	"github.com/vectorrow/simdcsv-go/internal/mmap"
	"github.com/vectorrow/simdcsv-go/internal/scanner"
)

// Reader is the single-threaded record iterator, parameterized by an
// ErrorPolicy and a NullPolicy. Both type parameters are zero-sized marker
// types; the tracking fields below (lastLine, lastColumn, lastCode) are
// plain uint32/ErrorCode regardless of policy, since Go generics cannot
// conditionally elide struct fields based on a type parameter — see
// DESIGN.md for the const-generics gap this works around.
type Reader[E ErrorPolicy, NP NullPolicy] struct {
	region *mmap.Region
	data   []byte
	cursor uint32
	n      int
	delim  byte

	headers     []Field
	headerNames map[string]int

	errPolicy  E
	lastCode   ErrorCode
	lastLine   uint32
	lastColumn uint32
	line       uint32

	starts []uint32
	ends   []uint32
	fields []Field
}

// Open constructs a Reader over the file at path with the given column
// count and delimiter. skipHeader treats the first line as a header row.
func Open[E ErrorPolicy, NP NullPolicy](path string, n int, delim byte, skipHeader bool) (*Reader[E, NP], error) {
	region, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader[E, NP]{
		region: region,
		data:   region.Data(),
		n:      n,
		delim:  delim,
		starts: scanner.GetUint32Slice(n)[:n],
		ends:   scanner.GetUint32Slice(n)[:n],
		fields: make([]Field, n),
	}

	if skipHeader {
		r.parseHeader()
	}

	slog.Debug("simdcsv: reader opened", "path", path, "columns", n, "scanner", scanner.Capability())

	return r, nil
}

func (r *Reader[E, NP]) parseHeader() {
	if r.cursor >= uint32(len(r.data)) {
		r.headers = make([]Field, r.n)
		return
	}
	starts, ends, col := r.scanRow()
	r.headers = make([]Field, r.n)
	r.headerNames = make(map[string]int, col)
	for i := 0; i < col; i++ {
		f := newField(r.data, starts[i], ends[i])
		r.headers[i] = f
		r.headerNames[f.String()] = i
	}
	for i := col; i < r.n; i++ {
		r.headers[i] = newField(r.data, r.cursor, r.cursor)
	}
}

// Headers returns the N header field references (empty slices past the
// parsed count, if the header row had fewer than N fields).
func (r *Reader[E, NP]) Headers() []Field {
	return r.headers
}

// HeaderNames returns the header row as strings.
func (r *Reader[E, NP]) HeaderNames() []string {
	names := make([]string, len(r.headers))
	for i, f := range r.headers {
		names[i] = f.String()
	}
	return names
}

// ColumnIndex looks up a header name, mirroring the inverted-index pattern
// used for building name-to-position lookups over a parsed header row.
func (r *Reader[E, NP]) ColumnIndex(name string) (int, bool) {
	i, ok := r.headerNames[name]
	return i, ok
}

// ColumnName returns the header name at index i, or "" if out of range.
func (r *Reader[E, NP]) ColumnName(i int) string {
	if i < 0 || i >= len(r.headers) {
		return ""
	}
	return r.headers[i].String()
}

// LastError returns the most recently recorded diagnostic. Line and column
// are zero unless the active ErrorPolicy tracks them.
func (r *Reader[E, NP]) LastError() ErrorInfo {
	return ErrorInfo{Code: r.lastCode, Line: r.lastLine, Column: r.lastColumn}
}

// HasError reports whether LastError holds anything other than Ok.
func (r *Reader[E, NP]) HasError() bool {
	return r.lastCode != Ok
}

// RowNumber returns the 1-based line counter, valid only when the active
// ErrorPolicy tracks line numbers (ErrBasic or ErrFull).
func (r *Reader[E, NP]) RowNumber() uint32 {
	return r.line
}

// Close releases the underlying mapping and returns the scratch offset
// slices to the shared pool.
func (r *Reader[E, NP]) Close() error {
	scanner.PutUint32Slice(r.starts)
	scanner.PutUint32Slice(r.ends)
	r.starts, r.ends = nil, nil
	return r.region.Close()
}

// scanRow implements the per-record algorithm's steps 1-6 and returns the
// starts/ends slices (reused across calls) along with the number of
// columns actually found.
func (r *Reader[E, NP]) scanRow() ([]uint32, []uint32, int) {
	data := r.data
	n := uint32(len(data))

	// Step 1: skip the terminators of any empty lines (and a '\r' at the
	// start of a line) before the next record. Skipped lines are not counted
	// as rows.
	for r.cursor < n {
		switch data[r.cursor] {
		case '\n':
			r.cursor++
			continue
		case '\r':
			r.cursor++
			if r.cursor < n && data[r.cursor] == '\n' {
				r.cursor++
			}
			continue
		}
		break
	}
	if r.cursor >= n {
		return r.starts, r.ends, 0
	}

	if r.errPolicy.trackLine() {
		r.line++
	}

	lineLen := scanner.FindNewline(data[r.cursor:])
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

	// Step 5: trailing empty field after a terminal delimiter.
	if col > 0 && col < r.n && r.ends[col-1] < effectiveEnd && data[r.ends[col-1]] == r.delim {
		r.starts[col] = ptr
		r.ends[col] = ptr
		col++
	}

	// Step 6: advance the cursor past this record.
	if lineEnd < n {
		r.cursor = lineEnd + 1
	} else {
		r.cursor = n
	}

	for i := col; i < r.n; i++ {
		r.starts[i] = ptr
		r.ends[i] = ptr
	}

	return r.starts, r.ends, col
}

func (r *Reader[E, NP]) recordColumn(col int) {
	if r.errPolicy.trackColumn() {
		r.lastColumn = uint32(col)
	}
}

// ForEachRaw invokes cb with the raw starts/ends offset arrays for each
// emitted row. It returns the number of rows for which cb was invoked.
func (r *Reader[E, NP]) ForEachRaw(cb func(starts, ends []uint32)) int {
	count := 0
	for {
		starts, ends, col := r.scanRow()
		if col == 0 && r.cursor >= uint32(len(r.data)) {
			break
		}
		enabled := r.errPolicy.trackLine() || r.errPolicy.trackColumn()
		if enabled && col != r.n {
			r.lastCode = ColumnCountMismatch
			r.lastLine = r.line
			r.recordColumn(col)
			continue
		}
		cb(starts, ends)
		count++
	}
	return count
}

// ForEach invokes cb with an N-length Field slice for each emitted row.
func (r *Reader[E, NP]) ForEach(cb func(fields []Field)) int {
	return r.ForEachRaw(func(starts, ends []uint32) {
		for i := 0; i < r.n; i++ {
			r.fields[i] = newField(r.data, starts[i], ends[i])
		}
		cb(r.fields)
	})
}

// ForEachUntil invokes cb with an N-length Field slice for each row until
// cb returns false. It returns the number of invocations that occurred.
func (r *Reader[E, NP]) ForEachUntil(cb func(fields []Field) bool) int {
	count := 0
	for {
		starts, ends, col := r.scanRow()
		if col == 0 && r.cursor >= uint32(len(r.data)) {
			break
		}
		if col != r.n && (r.errPolicy.trackLine() || r.errPolicy.trackColumn()) {
			r.lastCode = ColumnCountMismatch
			r.lastLine = r.line
			r.recordColumn(col)
			continue
		}
		for i := 0; i < r.n; i++ {
			r.fields[i] = newField(r.data, starts[i], ends[i])
		}
		count++
		if !cb(r.fields) {
			break
		}
	}
	return count
}
