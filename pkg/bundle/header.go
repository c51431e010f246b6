// Package bundle implements the bundle framing protocol (the fixed header
// plus block-size table wrapping compressed Oodle blocks) and the
// bundle-index parser that lives inside the archive's master index bundle.
package bundle

import (
	"fmt"

	"github.com/hnilsson/ggarchive/pkg/byteio"
)

// HeaderSize is the byte size of the fixed bundle header, before the
// block-size table.
const HeaderSize = 60

// DefaultBlockGranularity is the uncompressed size of every block except
// the last, as used by the reference tool (original_source/validate.cpp).
const DefaultBlockGranularity = 256 * 1024

// Header is the bundle fixed header found at the start of every
// .bundle.bin file (spec.md §3).
type Header struct {
	UncompressedSize  uint32
	TotalPayloadSize  uint32
	HeadPayloadSize   uint32
	FirstFileEncode   uint32 // 8=Kraken, 9=Mermaid, 13=Leviathan
	Unknown10         uint32
	UncompressedSize2 uint64
	TotalPayloadSize2 uint64
	BlockCount        uint32
	BlockGranularity  uint32
	Unknown28         [4]uint32
}

func readHeader(r *byteio.Reader) (Header, error) {
	var h Header
	var err error
	if h.UncompressedSize, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading uncompressed_size: %w", err)
	}
	if h.TotalPayloadSize, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading total_payload_size: %w", err)
	}
	if h.HeadPayloadSize, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading head_payload_size: %w", err)
	}
	if h.FirstFileEncode, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading first_file_encode: %w", err)
	}
	if h.Unknown10, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading unk10: %w", err)
	}
	if h.UncompressedSize2, err = r.U64(); err != nil {
		return h, fmt.Errorf("bundle: reading uncompressed_size2: %w", err)
	}
	if h.TotalPayloadSize2, err = r.U64(); err != nil {
		return h, fmt.Errorf("bundle: reading total_payload_size2: %w", err)
	}
	if h.BlockCount, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading block_count: %w", err)
	}
	if h.BlockGranularity, err = r.U32(); err != nil {
		return h, fmt.Errorf("bundle: reading granularity: %w", err)
	}
	for i := range h.Unknown28 {
		if h.Unknown28[i], err = r.U32(); err != nil {
			return h, fmt.Errorf("bundle: reading unk28[%d]: %w", i, err)
		}
	}
	return h, nil
}

// expectedBlockSize returns the uncompressed size block i must decode to:
// the granularity for every block but the last, and the short remainder
// for the last block.
func (h Header) expectedBlockSize(i int) int64 {
	consumed := int64(i) * int64(h.BlockGranularity)
	remaining := int64(h.UncompressedSize2) - consumed
	if remaining < int64(h.BlockGranularity) {
		return remaining
	}
	return int64(h.BlockGranularity)
}
