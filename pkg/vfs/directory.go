package vfs

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirFilesystem serves reads directly from an OS directory, rooted at
// Root. This is the "archive is an unpacked directory" case: a plain
// directory holding _.index.bin and the *.bundle.bin files alongside it.
type DirFilesystem struct {
	Root string
}

func NewDirFilesystem(root string) *DirFilesystem {
	return &DirFilesystem{Root: root}
}

func (d *DirFilesystem) Open(path string) (File, error) {
	full := filepath.Join(d.Root, filepath.FromSlash(path))
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("vfs: opening %s: %w", full, err)
	}
	return &osFile{f: f}, nil
}

type osFile struct {
	f *os.File
}

func (o *osFile) Close() error { return o.f.Close() }

func (o *osFile) Size() (int64, error) {
	info, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (o *osFile) ReadAt(p []byte, off int64) (int, error) {
	return o.f.ReadAt(p, off)
}
