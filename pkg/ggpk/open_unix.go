//go:build unix

package ggpk

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open memory-maps path and parses it as a GGPK pack. The mapping backs
// every FileRecord's payload slice for the lifetime of the returned
// GGPKFile; callers must Close it when done.
func Open(path string) (*GGPKFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ggpk: opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("ggpk: stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("ggpk: %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("ggpk: mmap %s: %w", path, err)
	}

	tree, err := Parse(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}

	mapping := data
	return &GGPKFile{
		tree: tree,
		data: mapping,
		closer: func() error {
			return unix.Munmap(mapping)
		},
	}, nil
}
