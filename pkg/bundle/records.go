package bundle

// BundleRecord describes one bundle file registered in the master index:
// its name (relative to the Bundles2 root, without the .bundle.bin
// extension) and its total uncompressed size.
type BundleRecord struct {
	Name             string
	UncompressedSize uint32
}

// FileRecord maps one path hash to its storage location: which bundle
// holds it, and the byte range within that bundle's decompressed payload.
type FileRecord struct {
	PathHash    uint64
	BundleIndex uint32
	FileOffset  uint32
	FileSize    uint32
}

// PathRepRecord is one entry of the path-representation table: a node in
// the path-generation VM's implied directory tree, identified by the hash
// of the path it expands to, with a byte range into the decompressed
// path-program blob (Offset/Size) and the total size of everything
// beneath it (RecursiveSize, used by tools that want subtree sizes
// without re-walking the VM).
type PathRepRecord struct {
	Hash          uint64
	Offset        uint32
	Size          uint32
	RecursiveSize uint32
}
