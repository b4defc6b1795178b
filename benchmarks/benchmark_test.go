package benchmarks

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	simdcsv "github.com/vectorrow/simdcsv-go"
)

func generateCSV(rows int) string {
	var b strings.Builder
	b.WriteString("id,name,value\n")
	for i := 0; i < rows; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",row-name-")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",")
		b.WriteString(strconv.Itoa(i * 7))
		b.WriteString("\n")
	}
	return b.String()
}

func benchmarkFile(b *testing.B, rows int) string {
	b.Helper()
	path := filepath.Join(b.TempDir(), "bench.csv")
	if err := os.WriteFile(path, []byte(generateCSV(rows)), 0o644); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkTurboSmall(b *testing.B) {
	path := benchmarkFile(b, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := simdcsv.OpenTurbo(path, 3, ',', true)
		if err != nil {
			b.Fatal(err)
		}
		r.ForEach(func(fields []simdcsv.Field) {})
		r.Close()
	}
}

func BenchmarkTurboMedium(b *testing.B) {
	path := benchmarkFile(b, 10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := simdcsv.OpenTurbo(path, 3, ',', true)
		if err != nil {
			b.Fatal(err)
		}
		r.ForEach(func(fields []simdcsv.Field) {})
		r.Close()
	}
}

func BenchmarkCheckedMedium(b *testing.B) {
	path := benchmarkFile(b, 10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, err := simdcsv.OpenChecked(path, 3, ',', true)
		if err != nil {
			b.Fatal(err)
		}
		r.ForEach(func(fields []simdcsv.Field) {})
		r.Close()
	}
}

func BenchmarkParallelLarge(b *testing.B) {
	path := benchmarkFile(b, 100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pr, err := simdcsv.OpenParallel[simdcsv.NullStandard](path, 3, ',', 4, true)
		if err != nil {
			b.Fatal(err)
		}
		pr.ForEachParallel(func(fields []simdcsv.Field) {})
		pr.Close()
	}
}

func BenchmarkParseInt64(b *testing.B) {
	path := benchmarkFile(b, 10_000)
	b.ResetTimer()
	var sum int64
	for i := 0; i < b.N; i++ {
		r, err := simdcsv.OpenTurbo(path, 3, ',', true)
		if err != nil {
			b.Fatal(err)
		}
		r.ForEach(func(fields []simdcsv.Field) {
			v, _ := fields[0].ParseInt64()
			sum += v
		})
		r.Close()
	}
}
