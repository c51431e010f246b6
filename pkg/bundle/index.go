package bundle

import (
	"fmt"
	"strings"

	"github.com/hnilsson/ggarchive/pkg/byteio"
	"github.com/hnilsson/ggarchive/pkg/pathgen"
	"github.com/hnilsson/ggarchive/pkg/pathhash"
)

// Index is the parsed form of _.index.bin: the bundle table, the file
// table, the path-representation table, and the decompressed
// path-program blob that expands into every path the archive knows
// about.
type Index struct {
	Bundles   []BundleRecord
	Files     []FileRecord
	PathReps  []PathRepRecord
	PathProgram []byte

	Algorithm pathhash.Algorithm

	fileByHash map[uint64]int
	nameToBundle map[string]int
}

// NewIndex builds an Index directly from already-parsed tables, for
// callers that assemble the tables themselves (e.g. an index rewriter,
// or a test that wants to exercise Archive without a real compressed
// fixture).
func NewIndex(bundles []BundleRecord, files []FileRecord, pathReps []PathRepRecord, pathProgram []byte, alg pathhash.Algorithm) *Index {
	fileByHash := make(map[uint64]int, len(files))
	for i, fr := range files {
		fileByHash[fr.PathHash] = i
	}
	nameToBundle := make(map[string]int, len(bundles))
	for i, br := range bundles {
		nameToBundle[br.Name] = i
	}
	return &Index{
		Bundles:      bundles,
		Files:        files,
		PathReps:     pathReps,
		PathProgram:  pathProgram,
		Algorithm:    alg,
		fileByHash:   fileByHash,
		nameToBundle: nameToBundle,
	}
}

// ParseIndex decodes the bundle-compressed contents of _.index.bin
// (already run through Decode) into its four component tables, and
// detects which hash algorithm the archive's path reps use.
func ParseIndex(data []byte) (*Index, error) {
	r := byteio.NewReader(data)

	bundleCount, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("bundle index: reading bundle count: %w", err)
	}
	bundles := make([]BundleRecord, bundleCount)
	nameToBundle := make(map[string]int, bundleCount)
	for i := range bundles {
		nameLen, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("bundle index: bundle %d name length: %w", i, err)
		}
		nameBytes, err := r.Bytes(int(nameLen))
		if err != nil {
			return nil, fmt.Errorf("bundle index: bundle %d name: %w", i, err)
		}
		size, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("bundle index: bundle %d uncompressed size: %w", i, err)
		}
		bundles[i] = BundleRecord{Name: string(nameBytes), UncompressedSize: size}
		nameToBundle[bundles[i].Name] = i
	}

	fileCount, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("bundle index: reading file count: %w", err)
	}
	files := make([]FileRecord, fileCount)
	fileByHash := make(map[uint64]int, fileCount)
	for i := range files {
		var fr FileRecord
		if fr.PathHash, err = r.U64(); err != nil {
			return nil, fmt.Errorf("bundle index: file %d path hash: %w", i, err)
		}
		if fr.BundleIndex, err = r.U32(); err != nil {
			return nil, fmt.Errorf("bundle index: file %d bundle index: %w", i, err)
		}
		if fr.FileOffset, err = r.U32(); err != nil {
			return nil, fmt.Errorf("bundle index: file %d offset: %w", i, err)
		}
		if fr.FileSize, err = r.U32(); err != nil {
			return nil, fmt.Errorf("bundle index: file %d size: %w", i, err)
		}
		files[i] = fr
		fileByHash[fr.PathHash] = i
	}

	pathRepCount, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("bundle index: reading path rep count: %w", err)
	}
	pathReps := make([]PathRepRecord, pathRepCount)
	for i := range pathReps {
		var pr PathRepRecord
		if pr.Hash, err = r.U64(); err != nil {
			return nil, fmt.Errorf("bundle index: path rep %d hash: %w", i, err)
		}
		if pr.Offset, err = r.U32(); err != nil {
			return nil, fmt.Errorf("bundle index: path rep %d offset: %w", i, err)
		}
		if pr.Size, err = r.U32(); err != nil {
			return nil, fmt.Errorf("bundle index: path rep %d size: %w", i, err)
		}
		if pr.RecursiveSize, err = r.U32(); err != nil {
			return nil, fmt.Errorf("bundle index: path rep %d recursive size: %w", i, err)
		}
		pathReps[i] = pr
	}

	// Whatever remains of the buffer is itself a bundle-framed blob: the
	// compressed path-generation program that expands into the archive's
	// full path list.
	pathProgram, err := Decode(r.Remaining())
	if err != nil {
		return nil, fmt.Errorf("bundle index: decoding path program: %w", err)
	}

	idx := &Index{
		Bundles:      bundles,
		Files:        files,
		PathReps:     pathReps,
		PathProgram:  pathProgram,
		fileByHash:   fileByHash,
		nameToBundle: nameToBundle,
	}

	idx.Algorithm, err = idx.detectAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("bundle index: %w", err)
	}
	return idx, nil
}

// pathRepSlice returns the sub-range of the decompressed path program
// blob a path-rep record points into.
func (idx *Index) pathRepSlice(pr PathRepRecord) ([]byte, error) {
	end := uint64(pr.Offset) + uint64(pr.Size)
	if end > uint64(len(idx.PathProgram)) {
		return nil, fmt.Errorf("path rep range [%d,%d) exceeds path program size %d", pr.Offset, end, len(idx.PathProgram))
	}
	return idx.PathProgram[pr.Offset:end], nil
}

// detectAlgorithm figures out whether path hashes in this archive use the
// legacy unseeded FNV-1a scheme or a seeded MurmurHash64A scheme, by
// inverting the finalizer on the root path-rep's hash and validating the
// recovered seed: walk later path-reps until one whose first generated
// path has a parent directory, then check that directory's hash (under
// the candidate seed) against that same path-rep's own stored hash.
func (idx *Index) detectAlgorithm() (pathhash.Algorithm, error) {
	if len(idx.PathReps) == 0 {
		return pathhash.Algorithm{}, fmt.Errorf("no path reps present")
	}
	rootHash := idx.PathReps[0].Hash

	return pathhash.DetectAlgorithm(rootHash, func(seed uint64) (ok bool, sampleFound bool) {
		alg := pathhash.Algorithm{Seeded: true, Seed: seed}
		for _, pr := range idx.PathReps[1:] {
			slice, err := idx.pathRepSlice(pr)
			if err != nil {
				continue
			}
			paths, err := pathgen.Generate(slice)
			if err != nil || len(paths) == 0 {
				continue
			}
			dir, _, hasParent := cutLastSlash(paths[0])
			if !hasParent {
				continue
			}
			sampleFound = true
			return pathhash.HashDirectory(alg, dir) == pr.Hash, true
		}
		return false, sampleFound
	})
}

func cutLastSlash(path string) (dir, leaf string, ok bool) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path, false
	}
	return path[:i], path[i+1:], true
}

// LookupFileID returns the file_id (index into Files) for a path hash,
// as produced by pathhash.HashFile with this index's detected
// Algorithm.
func (idx *Index) LookupFileID(pathHash uint64) (int, bool) {
	i, ok := idx.fileByHash[pathHash]
	return i, ok
}

// BundleIndexByName returns the bundle table index for a bundle name, as
// stored (without the .bundle.bin suffix).
func (idx *Index) BundleIndexByName(name string) (int, bool) {
	i, ok := idx.nameToBundle[name]
	return i, ok
}

// Paths expands every path-rep's sub-slice of the path program blob, in
// path-rep order, into the full catalogue of paths this archive's index
// knows about.
func (idx *Index) Paths() ([]string, error) {
	var all []string
	for i, pr := range idx.PathReps {
		slice, err := idx.pathRepSlice(pr)
		if err != nil {
			return nil, fmt.Errorf("path rep %d: %w", i, err)
		}
		paths, err := pathgen.Generate(slice)
		if err != nil {
			return nil, fmt.Errorf("path rep %d: expanding: %w", i, err)
		}
		all = append(all, paths...)
	}
	return all, nil
}
