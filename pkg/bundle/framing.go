package bundle

import (
	"errors"
	"fmt"

	"github.com/hnilsson/ggarchive/pkg/byteio"
	"github.com/hnilsson/ggarchive/pkg/oodle"
)

// ErrTotalPayloadMismatch is returned when the block-size table does not
// account for the whole of total_payload_size2.
var ErrTotalPayloadMismatch = errors.New("bundle: block sizes do not cover total_payload_size2")

// ErrShortPayload is returned when the bundle body ends before the
// block-size table says it should.
var ErrShortPayload = errors.New("bundle: payload shorter than declared")

// Probe reads only a bundle's fixed header and returns it, without
// touching the block-size table or any compressed block. Callers use
// this to learn UncompressedSize2 before committing to a full Decode.
func Probe(data []byte) (Header, error) {
	r := byteio.NewReader(data)
	return readHeader(r)
}

// Decode fully decompresses a bundle's block stream and returns the
// concatenated uncompressed payload.
func Decode(data []byte) ([]byte, error) {
	h, blockSizes, body, err := parseFraming(data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, h.UncompressedSize2)
	p := body
	for i, compressedSize := range blockSizes {
		if uint64(compressedSize) > uint64(len(p)) {
			return nil, fmt.Errorf("%w: block %d wants %d bytes, %d remain", ErrShortPayload, i, compressedSize, len(p))
		}
		want := int(h.expectedBlockSize(i))
		decoded, err := oodle.DecompressBlock(p[:compressedSize], want)
		if err != nil {
			return nil, fmt.Errorf("bundle: decompressing block %d: %w", i, err)
		}
		out = append(out, decoded...)
		p = p[compressedSize:]
	}
	return out, nil
}

// parseFraming reads the fixed header and block-size table, validates
// that the declared sizes are self-consistent, and returns the remaining
// compressed body alongside the per-block compressed sizes.
func parseFraming(data []byte) (Header, []uint32, []byte, error) {
	r := byteio.NewReader(data)
	h, err := readHeader(r)
	if err != nil {
		return Header{}, nil, nil, err
	}

	blockSizes, err := r.U32Slice(int(h.BlockCount))
	if err != nil {
		return Header{}, nil, nil, fmt.Errorf("bundle: reading block size table: %w", err)
	}

	var totalCompressed uint64
	for _, sz := range blockSizes {
		totalCompressed += uint64(sz)
	}
	if totalCompressed != h.TotalPayloadSize2 {
		return Header{}, nil, nil, fmt.Errorf("%w: sum=%d, declared=%d", ErrTotalPayloadMismatch, totalCompressed, h.TotalPayloadSize2)
	}

	if uint64(r.Len()) < h.TotalPayloadSize2 {
		return Header{}, nil, nil, fmt.Errorf("%w: have %d, need %d", ErrShortPayload, r.Len(), h.TotalPayloadSize2)
	}

	return h, blockSizes, r.Remaining(), nil
}
