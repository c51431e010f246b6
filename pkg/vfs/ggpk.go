package vfs

import (
	"fmt"

	"github.com/hnilsson/ggarchive/pkg/ggpk"
)

// GGPKFilesystem serves reads out of an already-opened GGPK pack tree,
// for archives sealed into a single *.ggpk file with a Bundles2
// directory inside it. Paths passed to Open resolve relative to that
// Bundles2 directory.
type GGPKFilesystem struct {
	pack *ggpk.GGPKFile
}

func NewGGPKFilesystem(pack *ggpk.GGPKFile) *GGPKFilesystem {
	return &GGPKFilesystem{pack: pack}
}

func (g *GGPKFilesystem) Open(path string) (File, error) {
	node, err := g.pack.GetNodeByPath("Bundles2/" + path)
	if err != nil {
		return nil, fmt.Errorf("vfs: %w", err)
	}
	fr, ok := node.(*ggpk.FileRecord)
	if !ok {
		return nil, fmt.Errorf("vfs: %q is not a file", path)
	}
	data, err := g.pack.ReadFileData(fr)
	if err != nil {
		return nil, fmt.Errorf("vfs: %w", err)
	}
	return &ggpkFile{data: data}, nil
}

// ggpkFile serves reads from an already-materialized in-memory payload;
// the pack is whole-file extraction only (no streaming random access
// into a single stored file's bytes beyond what's already resident).
type ggpkFile struct {
	data []byte
}

func (g *ggpkFile) Close() error { return nil }

func (g *ggpkFile) Size() (int64, error) { return int64(len(g.data)), nil }

func (g *ggpkFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(g.data)) {
		return 0, fmt.Errorf("vfs: offset %d out of range (size %d)", off, len(g.data))
	}
	n := copy(p, g.data[off:])
	return n, nil
}
