package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/hnilsson/ggarchive/pkg/bundle"
	"github.com/hnilsson/ggarchive/pkg/pathhash"
	"github.com/hnilsson/ggarchive/pkg/vfs"
)

// emptyBundle assembles a zero-block bundle frame: a valid header
// declaring no blocks and no payload, so Decode returns an empty slice
// without ever calling through to the real Oodle decompressor.
func emptyBundle() []byte {
	var buf bytes.Buffer
	var u32 [4]byte
	var u64 [8]byte
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(u32[:], v)
		buf.Write(u32[:])
	}
	putU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(u64[:], v)
		buf.Write(u64[:])
	}
	putU32(0)            // uncompressed_size
	putU32(0)            // total_payload_size
	putU32(0)            // head_payload_size
	putU32(8)            // first_file_encode (Kraken)
	putU32(0)            // unk10
	putU64(0)            // uncompressed_size2
	putU64(0)            // total_payload_size2
	putU32(0)            // block_count
	putU32(256 * 1024)   // uncompressed_block_granularity
	for i := 0; i < 4; i++ {
		putU32(0) // unk28
	}
	return buf.Bytes()
}

// fakeFile is an in-memory vfs.File backed by a byte slice.
type fakeFile struct {
	data []byte
}

func (f *fakeFile) Close() error               { return nil }
func (f *fakeFile) Size() (int64, error)        { return int64(len(f.data)), nil }
func (f *fakeFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(f.data)) {
		return 0, fmt.Errorf("fakeFile: offset %d out of range", off)
	}
	return copy(p, f.data[off:]), nil
}

// fakeFilesystem serves fixed contents for a set of known names.
type fakeFilesystem struct {
	files map[string][]byte
}

func (f *fakeFilesystem) Open(path string) (vfs.File, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("fakeFilesystem: %s not found", path)
	}
	return &fakeFile{data: data}, nil
}

func newTestArchive() *Archive {
	alg := pathhash.Algorithm{Seeded: false}
	idx := bundle.NewIndex(
		[]bundle.BundleRecord{{Name: "art", UncompressedSize: 0}},
		[]bundle.FileRecord{
			{PathHash: pathhash.HashFile(alg, "art/icon.dds"), BundleIndex: 0, FileOffset: 0, FileSize: 0},
		},
		nil,
		nil,
		alg,
	)
	fs := &fakeFilesystem{files: map[string][]byte{
		"art.bundle.bin": emptyBundle(),
	}}
	return &Archive{fs: fs, index: idx}
}

func TestLookupFileResolvesKnownPath(t *testing.T) {
	a := newTestArchive()
	id, err := a.LookupFile("art/icon.dds")
	if err != nil {
		t.Fatalf("LookupFile failed: %v", err)
	}
	if id != 0 {
		t.Errorf("got file id %d, want 0", id)
	}
}

func TestLookupFileMissingPath(t *testing.T) {
	a := newTestArchive()
	if _, err := a.LookupFile("art/missing.dds"); err == nil {
		t.Fatal("expected ErrNotFound")
	}
}

func TestExtractFileEmptyPayload(t *testing.T) {
	a := newTestArchive()
	data, err := a.ExtractFile("art/icon.dds")
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("got %d bytes, want 0", len(data))
	}
}

func TestExtractBundleByIndex(t *testing.T) {
	a := newTestArchive()
	data, err := a.ExtractBundle(0)
	if err != nil {
		t.Fatalf("ExtractBundle failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("got %d bytes, want 0", len(data))
	}
}

func TestBundleAndFileAccessors(t *testing.T) {
	a := newTestArchive()

	if br, ok := a.BundleByIndex(0); !ok || br.Name != "art" {
		t.Errorf("BundleByIndex(0) = %+v, %v", br, ok)
	}
	if _, ok := a.BundleByIndex(1); ok {
		t.Error("BundleByIndex(1) should miss")
	}

	if i, ok := a.BundleIndexByName("art"); !ok || i != 0 {
		t.Errorf("BundleIndexByName(art) = %d, %v", i, ok)
	}

	if fr, ok := a.FileRecordByID(0); !ok || fr.BundleIndex != 0 {
		t.Errorf("FileRecordByID(0) = %+v, %v", fr, ok)
	}

	ids := a.FilesInBundle(0)
	if len(ids) != 1 || ids[0] != 0 {
		t.Errorf("FilesInBundle(0) = %v, want [0]", ids)
	}
}
