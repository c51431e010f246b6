//go:build !unix

package ggpk

import (
	"fmt"
	"os"
)

// Open reads path fully into memory and parses it as a GGPK pack.
// Platforms without mmap support fall back to a plain read, per the
// same allowance the block decompressor adapter makes (pkg/oodle).
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
	return OpenFromReader(f, info.Size())
}
