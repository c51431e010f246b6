// Package oodle wraps the third-party block decompressor as a hardened
// opaque primitive: it isolates the source buffer behind a guard page (the
// decompressor is known to read past its declared input length). The
// destination buffer is allocated and returned by the underlying library;
// this package adds no destination scratch tail and does not check for
// writes past the requested size.
package oodle

import (
	"errors"
	"fmt"

	oodlelib "github.com/new-world-tools/go-oodle"
)

// ScratchMargin is the number of padding bytes appended past the source in
// the plain-copy isolation path (used where guard pages are unavailable).
const ScratchMargin = 64

// sentinelByte fills the padding appended past src's real length in the
// isolated source buffer, so a decompressor read past src_len lands on a
// recognizable pattern rather than zero or stale heap bytes.
const sentinelByte = 0xCD

// ErrSizeMismatch is returned when the decompressor's return size disagrees
// with the requested destination size.
var ErrSizeMismatch = errors.New("oodle: decompressed size mismatch")

// DecompressBlock decompresses a single block, returning exactly dstSize
// bytes on success. It copies src into an isolated buffer with guard-page
// protection (or a sentinel-padded copy where guard pages are unavailable)
// before handing it to the underlying decompressor.
func DecompressBlock(src []byte, dstSize int) ([]byte, error) {
	if dstSize < 0 {
		return nil, fmt.Errorf("oodle: negative destination size %d", dstSize)
	}
	if dstSize == 0 {
		return []byte{}, nil
	}

	isolated := isolateSource(src)
	defer isolated.release()

	out, err := oodlelib.Decompress(isolated.bytes(), int64(dstSize))
	if err != nil {
		return nil, fmt.Errorf("oodle: decompress failed: %w", err)
	}
	if len(out) != dstSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(out), dstSize)
	}
	return out, nil
}
