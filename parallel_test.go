package simdcsv

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// S5: 10,000 rows valued 1..10000 in column 1; sum equals 50,005,000 and
// invocation count equals 10,000 with four workers.
func TestParallelSumAndCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 1; i <= 10000; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "nums.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	pr, err := OpenParallel[NullStandard](path, 1, ',', 4, true)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()

	var mu sync.Mutex
	var sum int64
	count, err := pr.ForEachParallel(func(fields []Field) {
		v, _ := fields[0].ParseInt64()
		mu.Lock()
		sum += v
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("ForEachParallel error: %v", err)
	}
	if count != 10000 {
		t.Errorf("count = %d, want 10000", count)
	}
	if sum != 50005000 {
		t.Errorf("sum = %d, want 50005000", sum)
	}
}

// P5: the multiset of records from the parallel reader equals the
// single-threaded reader's, for a small file with several worker counts.
func TestParallelMatchesSingleThreaded(t *testing.T) {
	content := "a,b\n"
	for i := 0; i < 500; i++ {
		content += strconv.Itoa(i) + "," + strconv.Itoa(i*2) + "\n"
	}
	path := filepath.Join(t.TempDir(), "match.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	single, err := Open[ErrBasic, NullStandard](path, 2, ',', true)
	if err != nil {
		t.Fatal(err)
	}
	defer single.Close()

	wantCounts := make(map[string]int)
	single.ForEach(func(fields []Field) {
		wantCounts[fields[0].String()+","+fields[1].String()]++
	})

	for _, workers := range []int{1, 2, 3, 7} {
		pr, err := OpenParallel[NullStandard](path, 2, ',', workers, true)
		if err != nil {
			t.Fatal(err)
		}
		gotCounts := make(map[string]int)
		var mu sync.Mutex
		n, _ := pr.ForEachParallel(func(fields []Field) {
			key := fields[0].String() + "," + fields[1].String()
			mu.Lock()
			gotCounts[key]++
			mu.Unlock()
		})
		pr.Close()

		if n != 500 {
			t.Errorf("workers=%d: count = %d, want 500", workers, n)
		}
		if len(gotCounts) != len(wantCounts) {
			t.Errorf("workers=%d: distinct rows = %d, want %d", workers, len(gotCounts), len(wantCounts))
			continue
		}
		for k, v := range wantCounts {
			if gotCounts[k] != v {
				t.Errorf("workers=%d: row %q count = %d, want %d", workers, k, gotCounts[k], v)
			}
		}
	}
}

func TestParallelHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdr.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pr, err := OpenParallel[NullStandard](path, 2, ',', 2, true)
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()

	headers := pr.Headers()
	if headers[0].String() != "x" || headers[1].String() != "y" {
		t.Errorf("headers = %v", headers)
	}
}
