package vfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirFilesystemReadAll(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.bin"), []byte("hello world"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	fs := NewDirFilesystem(dir)
	f, err := fs.Open("hello.bin")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
}

func TestDirFilesystemMissingFile(t *testing.T) {
	fs := NewDirFilesystem(t.TempDir())
	if _, err := fs.Open("missing.bin"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
