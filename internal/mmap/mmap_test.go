package mmap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	content := "hello,world\nfoo,bar\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Valid() {
		t.Fatal("region should be valid")
	}
	if r.Len() != len(content) {
		t.Fatalf("Len() = %d, want %d", r.Len(), len(content))
	}
	if string(r.Data()) != content {
		t.Fatalf("Data() = %q, want %q", r.Data(), content)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Valid() {
		t.Fatal("empty file region should still be valid")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.txt")
	if _, err := Open(path); err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}
