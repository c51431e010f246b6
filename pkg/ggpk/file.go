package ggpk

import (
	"fmt"
	"io"
	"strings"
)

// GGPKFile is an opened pack: its parsed tree plus the backing byte view
// every FileRecord's payload range is sliced out of.
type GGPKFile struct {
	tree   *Tree
	data   []byte
	closer func() error
}

// Root returns the tree's root directory.
func (f *GGPKFile) Root() *DirectoryRecord { return f.tree.Root }

// Version returns the pack's declared format version.
func (f *GGPKFile) Version() uint32 { return f.tree.Version }

// Close releases the backing memory mapping or file handle, if any.
func (f *GGPKFile) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer()
}

// OpenFromReader parses a pack already available through an io.ReaderAt
// of known size, reading its entire contents into memory. For a pack on
// disk, Open takes its path and memory-maps it on unix platforms instead.
func OpenFromReader(r io.ReaderAt, size int64) (*GGPKFile, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, size), data); err != nil {
		return nil, fmt.Errorf("ggpk: reading pack contents: %w", err)
	}
	tree, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &GGPKFile{tree: tree, data: data}, nil
}

// GetNodeByPath resolves a '/'-separated logical path by walking the
// tree from the root, lowercasing and linearly scanning each directory
// level. An empty path component (consecutive or leading slashes) is
// skipped. Returns an error if any component has no matching child.
func (f *GGPKFile) GetNodeByPath(path string) (Node, error) {
	var cur Node = f.tree.Root
	for _, component := range strings.Split(path, "/") {
		if component == "" {
			continue
		}
		dir, ok := cur.(*DirectoryRecord)
		if !ok {
			return nil, fmt.Errorf("ggpk: %q is not a directory", cur.Name())
		}
		next, ok := lookupChild(dir, component)
		if !ok {
			return nil, fmt.Errorf("ggpk: no such entry %q under %q", component, dir.Name())
		}
		cur = next
	}
	return cur, nil
}

func lookupChild(dir *DirectoryRecord, component string) (Node, bool) {
	lower := lowerUTF16(component)
	for _, child := range dir.Children {
		if lowerUTF16(child.Name()) == lower {
			return child, true
		}
	}
	return nil, false
}

// ReadFileData returns the raw payload bytes stored for a file record.
func (f *GGPKFile) ReadFileData(fr *FileRecord) ([]byte, error) {
	end := fr.DataOffset + fr.DataSize
	if end > uint64(len(f.data)) {
		return nil, fmt.Errorf("%w: file payload range [%d,%d) exceeds pack size %d", ErrMalformed, fr.DataOffset, end, len(f.data))
	}
	out := make([]byte, fr.DataSize)
	copy(out, f.data[fr.DataOffset:end])
	return out, nil
}

// GetChildren returns a directory's immediate children. Provided as a
// free function alongside DirectoryRecord.Children for call sites that
// prefer a uniform Node-returning accessor.
func GetChildren(dir *DirectoryRecord) []Node {
	return dir.Children
}
