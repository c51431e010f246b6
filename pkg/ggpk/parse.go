package ggpk

import (
	"errors"
	"fmt"

	"github.com/hnilsson/ggarchive/pkg/byteio"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
)

// ErrUnknownTag is returned when the linear sweep encounters a chunk tag
// other than FILE, PDIR, FREE, or GGPK.
var ErrUnknownTag = errors.New("ggpk: unknown chunk tag")

// ErrMalformed is returned for any structural violation of the pack
// format (truncated record, wrong root cardinality, dangling offset).
var ErrMalformed = errors.New("ggpk: malformed pack")

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// lowerCaser mirrors the locale-invariant lowercase mapping the original
// tool applies before hashing and comparing names (LCMapStringEx with
// LOCALE_NAME_INVARIANT / ICU's u16_tolower), not full Unicode case
// folding.
var lowerCaser = cases.Lower(language.Und)

// rawEntry is the result of pass 1: a chunk's parsed body, keyed by its
// starting offset, before parent links or the tree shape are known.
type rawEntry struct {
	tag          Tag
	offset       uint64
	name         string
	nameHash     uint32
	storedDigest [DigestSize]byte

	// file fields
	dataOffset uint64
	dataSize   uint64

	// directory fields
	childHashes  []uint32
	childOffsets []uint64
}

// Tree is the materialized result of indexing a pack: its format
// version and the root directory of the parsed tree.
type Tree struct {
	Version uint32
	Root    *DirectoryRecord
}

// Parse runs both passes of the GGPK parser over a full in-memory view
// of a pack file and returns its directory tree.
func Parse(data []byte) (*Tree, error) {
	entries, err := sweepEntries(data)
	if err != nil {
		return nil, err
	}
	return buildTree(data, entries)
}

// sweepEntries is pass 1: a linear walk tiling the file with FILE/PDIR/
// FREE/GGPK chunks with no gaps, recording FILE and PDIR bodies.
func sweepEntries(data []byte) (map[uint64]rawEntry, error) {
	entries := make(map[uint64]rawEntry)
	var offset uint64
	end := uint64(len(data))

	for offset < end {
		if end-offset < 8 {
			return nil, fmt.Errorf("%w: truncated chunk header at %d", ErrMalformed, offset)
		}
		r := byteio.NewReader(data[offset:])
		recLen, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading rec_len at %d: %v", ErrMalformed, offset, err)
		}
		if uint64(recLen) < 8 || offset+uint64(recLen) > end {
			return nil, fmt.Errorf("%w: rec_len %d out of range at offset %d", ErrMalformed, recLen, offset)
		}
		var tagBytes [4]byte
		if err := r.Fixed(tagBytes[:]); err != nil {
			return nil, fmt.Errorf("%w: reading tag at %d: %v", ErrMalformed, offset, err)
		}
		tag := Tag(tagBytes)

		switch tag {
		case TagFile, TagPDir:
			e, err := parseEntryBody(r, tag, offset, recLen)
			if err != nil {
				return nil, err
			}
			entries[offset] = e
		case TagFree, TagGGPK:
			// opaque, skipped
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownTag, tag, offset)
		}

		offset += uint64(recLen)
	}
	return entries, nil
}

func parseEntryBody(r *byteio.Reader, tag Tag, offset uint64, recLen uint32) (rawEntry, error) {
	e := rawEntry{tag: tag, offset: offset}

	nameLenUnits, err := r.U32()
	if err != nil {
		return e, fmt.Errorf("%w: reading name length at %d: %v", ErrMalformed, offset, err)
	}
	if nameLenUnits == 0 {
		return e, fmt.Errorf("%w: zero-length name at %d", ErrMalformed, offset)
	}

	var childCount uint32
	if tag == TagPDir {
		childCount, err = r.U32()
		if err != nil {
			return e, fmt.Errorf("%w: reading child count at %d: %v", ErrMalformed, offset, err)
		}
	}

	if err := r.Fixed(e.storedDigest[:]); err != nil {
		return e, fmt.Errorf("%w: reading digest at %d: %v", ErrMalformed, offset, err)
	}

	nameBytes, err := r.Bytes(int(nameLenUnits) * 2)
	if err != nil {
		return e, fmt.Errorf("%w: reading name at %d: %v", ErrMalformed, offset, err)
	}
	name, err := decodeUTF16NameWithTerminator(nameBytes)
	if err != nil {
		return e, fmt.Errorf("%w: decoding name at %d: %v", ErrMalformed, offset, err)
	}
	e.name = name

	if tag == TagPDir {
		e.childHashes = make([]uint32, childCount)
		e.childOffsets = make([]uint64, childCount)
		for i := uint32(0); i < childCount; i++ {
			if e.childHashes[i], err = r.U32(); err != nil {
				return e, fmt.Errorf("%w: reading child hash %d at %d: %v", ErrMalformed, i, offset, err)
			}
			if e.childOffsets[i], err = r.U64(); err != nil {
				return e, fmt.Errorf("%w: reading child offset %d at %d: %v", ErrMalformed, i, offset, err)
			}
		}
	} else {
		e.dataOffset = offset + uint64(8+4+DigestSize) + uint64(nameLenUnits)*2
		e.dataSize = uint64(recLen) - (e.dataOffset - offset)
	}

	return e, nil
}

// decodeUTF16NameWithTerminator decodes name bytes as UTF-16LE and
// strips the single trailing NUL code unit the format always stores.
func decodeUTF16NameWithTerminator(raw []byte) (string, error) {
	decoded, err := utf16le.Bytes(raw)
	if err != nil {
		return "", err
	}
	s := string(decoded)
	if len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return s, nil
}

// lowerUTF16 applies locale-invariant lowercasing matching the original
// tool's UTF-16 lowercase mapping (not full Unicode case folding).
func lowerUTF16(s string) string {
	return lowerCaser.String(s)
}

// buildTree is pass 2: parse the GGPK header's two children, require
// exactly one PDIR and at most one FREE, then recursively materialize
// the tree below the PDIR root.
func buildTree(data []byte, entries map[uint64]rawEntry) (*Tree, error) {
	r := byteio.NewReader(data)
	recLen, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header rec_len: %v", ErrMalformed, err)
	}
	_ = recLen
	var tagBytes [4]byte
	if err := r.Fixed(tagBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header tag: %v", ErrMalformed, err)
	}
	if Tag(tagBytes) != TagGGPK {
		return nil, fmt.Errorf("%w: expected GGPK header tag, got %q", ErrMalformed, Tag(tagBytes))
	}
	version, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("%w: reading version: %v", ErrMalformed, err)
	}
	children, err := r.U64Slice(2)
	if err != nil {
		return nil, fmt.Errorf("%w: reading header children: %v", ErrMalformed, err)
	}

	var root *DirectoryRecord
	freeSeen := false
	pdirSeen := false
	for _, child := range children {
		if child == 0 {
			if freeSeen {
				return nil, fmt.Errorf("%w: duplicate FREE root", ErrMalformed)
			}
			freeSeen = true
			continue
		}
		if child >= uint64(len(data)) {
			return nil, fmt.Errorf("%w: header child offset %d out of range", ErrMalformed, child)
		}
		e, ok := entries[child]
		switch {
		case ok && e.tag == TagPDir:
			if pdirSeen {
				return nil, fmt.Errorf("%w: duplicate PDIR root", ErrMalformed)
			}
			dir, err := materializeDirectory(entries, e, nil)
			if err != nil {
				return nil, err
			}
			root = dir
			pdirSeen = true
		default:
			// Must be the FREE chunk: re-read its tag directly, since
			// FREE bodies are never recorded in the entries map.
			var freeTag [4]byte
			if int(child)+8 > len(data) {
				return nil, fmt.Errorf("%w: truncated header child at %d", ErrMalformed, child)
			}
			copy(freeTag[:], data[child+4:child+8])
			if Tag(freeTag) != TagFree {
				return nil, fmt.Errorf("%w: unexpected header child tag %q", ErrMalformed, Tag(freeTag))
			}
			if freeSeen {
				return nil, fmt.Errorf("%w: duplicate FREE root", ErrMalformed)
			}
			freeSeen = true
		}
	}
	if !freeSeen || !pdirSeen {
		return nil, fmt.Errorf("%w: header missing required PDIR or FREE child", ErrMalformed)
	}

	return &Tree{Version: version, Root: root}, nil
}

func materializeDirectory(entries map[uint64]rawEntry, e rawEntry, parent *DirectoryRecord) (*DirectoryRecord, error) {
	dir := &DirectoryRecord{
		entry: entry{
			offset:       e.offset,
			name:         e.name,
			nameHash:     e.nameHash,
			storedDigest: e.storedDigest,
			parent:       parent,
		},
	}
	for i, childOffset := range e.childOffsets {
		childEntry, ok := entries[childOffset]
		if !ok {
			return nil, fmt.Errorf("%w: dangling child offset %d", ErrMalformed, childOffset)
		}
		childEntry.nameHash = e.childHashes[i]
		var childNode Node
		var err error
		switch childEntry.tag {
		case TagPDir:
			childNode, err = materializeDirectory(entries, childEntry, dir)
		case TagFile:
			childNode = &FileRecord{
				entry: entry{
					offset:       childEntry.offset,
					name:         childEntry.name,
					nameHash:     childEntry.nameHash,
					storedDigest: childEntry.storedDigest,
					parent:       dir,
				},
				DataOffset: childEntry.dataOffset,
				DataSize:   childEntry.dataSize,
			}
		default:
			err = fmt.Errorf("%w: child offset %d is neither PDIR nor FILE", ErrMalformed, childOffset)
		}
		if err != nil {
			return nil, err
		}
		dir.Children = append(dir.Children, childNode)
	}
	return dir, nil
}
