// Package ggpk parses the GGPK pack container: a length-prefixed chunk
// stream tiling a file with no gaps, holding a single directory tree
// rooted at one PDIR chunk alongside FREE space chunks.
package ggpk

import "fmt"

// Tag identifies a GGPK chunk kind.
type Tag [4]byte

var (
	TagFile = Tag{'F', 'I', 'L', 'E'}
	TagFree = Tag{'F', 'R', 'E', 'E'}
	TagGGPK = Tag{'G', 'G', 'P', 'K'}
	TagPDir = Tag{'P', 'D', 'I', 'R'}
)

func (t Tag) String() string { return string(t[:]) }

// DigestSize is the byte length of the stored SHA-256 digest on every
// PDIR/FILE record.
const DigestSize = 32

// Node is either a *DirectoryRecord or a *FileRecord.
type Node interface {
	node()
	// Name returns the entry's decoded, terminator-stripped UTF-16
	// name as it was stored.
	Name() string
}

// entry holds the fields common to directory and file records.
type entry struct {
	offset        uint64
	name          string
	nameHash      uint32
	storedDigest  [DigestSize]byte
	parent        *DirectoryRecord
}

func (e *entry) Name() string { return e.name }

// DirectoryRecord is a parsed PDIR chunk: a directory with named,
// hash-indexed children.
type DirectoryRecord struct {
	entry
	Children []Node
}

func (*DirectoryRecord) node() {}

// FileRecord is a parsed FILE chunk: a name plus the byte range of its
// payload within the pack.
type FileRecord struct {
	entry
	DataOffset uint64
	DataSize   uint64
}

func (*FileRecord) node() {}

// Parent returns the directory a node was found under, or nil for the
// tree root.
func Parent(n Node) *DirectoryRecord {
	switch v := n.(type) {
	case *DirectoryRecord:
		return v.parent
	case *FileRecord:
		return v.parent
	default:
		panic(fmt.Sprintf("ggpk: unknown node type %T", n))
	}
}

// Offset returns a node's starting byte offset within the pack.
func Offset(n Node) uint64 {
	switch v := n.(type) {
	case *DirectoryRecord:
		return v.offset
	case *FileRecord:
		return v.offset
	default:
		panic(fmt.Sprintf("ggpk: unknown node type %T", n))
	}
}

// StoredDigest returns a node's stored SHA-256 digest. Surfaced for
// inspection only; nothing in this package verifies it against the
// node's actual payload bytes.
func StoredDigest(n Node) [DigestSize]byte {
	switch v := n.(type) {
	case *DirectoryRecord:
		return v.storedDigest
	case *FileRecord:
		return v.storedDigest
	default:
		panic(fmt.Sprintf("ggpk: unknown node type %T", n))
	}
}
