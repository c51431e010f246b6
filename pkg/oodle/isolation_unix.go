//go:build unix

package oodle

import (
	"golang.org/x/sys/unix"
)

// isolatedSource is a copy of a decompressor's source buffer sized to a
// whole number of pages plus one trailing guard page. The guard page is
// mapped with no access (PROT_NONE) so an out-of-bounds read past the last
// source page faults instead of
// silently reading adjacent heap memory.
type isolatedSource struct {
	mapping []byte
	srcLen  int
	mmapped bool
}

func isolateSource(src []byte) *isolatedSource {
	pageSize := unix.Getpagesize()
	pagesNeeded := (len(src) + pageSize - 1) / pageSize
	if pagesNeeded == 0 {
		pagesNeeded = 1
	}
	totalSize := (pagesNeeded + 1) * pageSize

	mapping, err := unix.Mmap(-1, 0, totalSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		// Fall back to a plain padded copy if the mapping can't be made;
		// correctness is preserved, only the hardening is skipped.
		return newPlainIsolatedSource(src)
	}

	copy(mapping, src)
	guardStart := pagesNeeded * pageSize
	for i := len(src); i < guardStart; i++ {
		mapping[i] = sentinelByte
	}
	if err := unix.Mprotect(mapping[guardStart:], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(mapping)
		return newPlainIsolatedSource(src)
	}

	return &isolatedSource{mapping: mapping, srcLen: len(src), mmapped: true}
}

func newPlainIsolatedSource(src []byte) *isolatedSource {
	padded := make([]byte, len(src)+ScratchMargin)
	for i := len(src); i < len(padded); i++ {
		padded[i] = sentinelByte
	}
	copy(padded, src)
	return &isolatedSource{mapping: padded, srcLen: len(src)}
}

func (s *isolatedSource) bytes() []byte {
	return s.mapping[:s.srcLen]
}

func (s *isolatedSource) release() {
	if s.mmapped {
		_ = unix.Munmap(s.mapping)
	}
}
