package ggpk

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// utf16leWithTerminator encodes an ASCII string as UTF-16LE plus a
// trailing NUL code unit, matching the stored name format.
func utf16leWithTerminator(s string) []byte {
	out := make([]byte, 0, (len(s)+1)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	out = append(out, 0, 0)
	return out
}

// buildPack assembles a minimal pack: a GGPK header, a PDIR root with
// one FILE child named "a.txt" containing "hello", and no FREE chunk.
func buildPack(t *testing.T) []byte {
	t.Helper()

	fileName := utf16leWithTerminator("a.txt")
	payload := []byte("hello")
	fileBody := append(u32(uint32(len(fileName)/2)), make([]byte, DigestSize)...)
	fileBody = append(fileBody, fileName...)
	fileBody = append(fileBody, payload...)
	fileRecLen := 4 + 4 + len(fileBody) // rec_len + tag + body
	var fileChunk bytes.Buffer
	fileChunk.Write(u32(uint32(fileRecLen)))
	fileChunk.WriteString("FILE")
	fileChunk.Write(fileBody)

	rootName := utf16leWithTerminator("")
	rootBody := append(u32(uint32(len(rootName)/2)), u32(1)...) // name_len, child_count=1
	rootBody = append(rootBody, make([]byte, DigestSize)...)
	rootBody = append(rootBody, rootName...)

	var header bytes.Buffer
	header.Write(u32(1))  // version
	header.Write(u64(28)) // child 0: PDIR offset (right after this 28-byte header)
	header.Write(u64(0))  // child 1: FREE absent

	headerRecLen := 4 + 4 + header.Len()
	var headerChunk bytes.Buffer
	headerChunk.Write(u32(uint32(headerRecLen)))
	headerChunk.WriteString("GGPK")
	headerChunk.Write(header.Bytes())

	pdirOffset := uint64(headerChunk.Len())
	rootBody = append(rootBody, u32(fnv32Placeholder())...) // child hash (unused by lookup path)
	rootBody = append(rootBody, u64(0)...)                  // temp child offset, patched below

	// Patch the child offset now that rootBody's final length is known.
	fileOffset := pdirOffset + uint64(4+4+len(rootBody))
	binary.LittleEndian.PutUint64(rootBody[len(rootBody)-8:], fileOffset)

	pdirRecLen := 4 + 4 + len(rootBody)
	var pdirChunk bytes.Buffer
	pdirChunk.Write(u32(uint32(pdirRecLen)))
	pdirChunk.WriteString("PDIR")
	pdirChunk.Write(rootBody)

	var out bytes.Buffer
	out.Write(headerChunk.Bytes())
	out.Write(pdirChunk.Bytes())
	out.Write(fileChunk.Bytes())
	if uint64(out.Len()) < fileOffset {
		t.Fatalf("computed file offset %d beyond assembled size %d", fileOffset, out.Len())
	}
	return out.Bytes()
}

// fnv32Placeholder stands in for a correctly computed child name hash;
// lookup in this package re-derives names by linear scan, not by
// trusting the stored hash, so an arbitrary value is fine for testing.
func fnv32Placeholder() uint32 { return 0 }

func TestParseAndLookup(t *testing.T) {
	data := buildPack(t)

	tree, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tree.Version != 1 {
		t.Errorf("got version %d, want 1", tree.Version)
	}
	if len(tree.Root.Children) != 1 {
		t.Fatalf("got %d root children, want 1", len(tree.Root.Children))
	}

	f := &GGPKFile{tree: tree, data: data}
	node, err := f.GetNodeByPath("a.txt")
	if err != nil {
		t.Fatalf("GetNodeByPath failed: %v", err)
	}
	fr, ok := node.(*FileRecord)
	if !ok {
		t.Fatalf("expected *FileRecord, got %T", node)
	}
	got, err := f.ReadFileData(fr)
	if err != nil {
		t.Fatalf("ReadFileData failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got payload %q, want %q", got, "hello")
	}
}

func TestGetNodeByPathCaseInsensitive(t *testing.T) {
	data := buildPack(t)
	tree, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f := &GGPKFile{tree: tree, data: data}
	if _, err := f.GetNodeByPath("A.TXT"); err != nil {
		t.Errorf("expected case-insensitive match, got error: %v", err)
	}
}

func TestGetNodeByPathMissing(t *testing.T) {
	data := buildPack(t)
	tree, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	f := &GGPKFile{tree: tree, data: data}
	if _, err := f.GetNodeByPath("missing.txt"); err == nil {
		t.Fatal("expected error for missing path")
	}
}
