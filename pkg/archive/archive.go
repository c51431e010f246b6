// Package archive stitches the bundle-index parser (pkg/bundle) and a
// virtual filesystem (pkg/vfs) into the two operations a consumer
// actually wants: resolve a logical path to a stored file, and
// materialize that stored file's bytes.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hnilsson/ggarchive/pkg/bundle"
	"github.com/hnilsson/ggarchive/pkg/ggpk"
	"github.com/hnilsson/ggarchive/pkg/pathhash"
	"github.com/hnilsson/ggarchive/pkg/vfs"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a logical path has no entry in the
// path-hash map.
var ErrNotFound = errors.New("archive: file not found")

// indexFileName is the master index's name within the Bundles2 tree.
const indexFileName = "_.index.bin"

// Options configures Open.
type Options struct {
	// Log receives open/extraction diagnostics. Defaults to
	// logrus.StandardLogger() if nil.
	Log *logrus.Logger

	// DecompressorLibraryPath and DecompressorExportName mirror BunNew's
	// decompressor_path/decompressor_export knobs for loading an
	// alternate Oodle-family shared library. Currently unused: pkg/oodle
	// resolves its decompressor through go-oodle's own bundled loader,
	// which doesn't yet expose a caller-supplied library path. Accepted
	// here so callers migrating config from the original tool have
	// somewhere to put these values.
	DecompressorLibraryPath string
	DecompressorExportName  string

	// MaxBundleSize is a no-op reserved for a future write path; this
	// archive is read-only.
	MaxBundleSize int64
}

// Archive is an opened archive: its parsed bundle index plus the VFS
// its bundles are read through.
type Archive struct {
	fs    vfs.Filesystem
	index *bundle.Index
	log   *logrus.Entry
	pack  *ggpk.GGPKFile // non-nil only when opened from a .ggpk file
}

// Open opens an archive rooted at path: either a directory containing a
// Bundles2 subtree, or a .ggpk pack file whose root directory contains
// one. The Bundles2 index is read, decompressed, and parsed eagerly.
func Open(path string, opts Options) (*Archive, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	entry := log.WithField("path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("archive: stat %s: %w", path, err)
	}

	var a *Archive
	if info.IsDir() {
		entry.Debug("opening directory-backed archive")
		a = &Archive{fs: vfs.NewDirFilesystem(filepath.Join(path, "Bundles2")), log: entry}
	} else {
		entry.Debug("opening GGPK-backed archive")
		pack, err := ggpk.Open(path)
		if err != nil {
			return nil, fmt.Errorf("archive: opening pack: %w", err)
		}
		a = &Archive{fs: vfs.NewGGPKFilesystem(pack), log: entry, pack: pack}
	}

	if err := a.loadIndex(); err != nil {
		if a.pack != nil {
			_ = a.pack.Close()
		}
		return nil, err
	}
	entry.WithFields(logrus.Fields{
		"bundles":   len(a.index.Bundles),
		"files":     len(a.index.Files),
		"path_reps": len(a.index.PathReps),
		"seeded":    a.index.Algorithm.Seeded,
	}).Info("archive opened")
	return a, nil
}

func (a *Archive) loadIndex() error {
	f, err := a.fs.Open(indexFileName)
	if err != nil {
		return fmt.Errorf("archive: opening %s: %w", indexFileName, err)
	}
	defer f.Close()

	raw, err := vfs.ReadAll(f)
	if err != nil {
		return fmt.Errorf("archive: reading %s: %w", indexFileName, err)
	}

	decoded, err := bundle.Decode(raw)
	if err != nil {
		return fmt.Errorf("archive: decoding %s: %w", indexFileName, err)
	}

	idx, err := bundle.ParseIndex(decoded)
	if err != nil {
		return fmt.Errorf("archive: parsing %s: %w", indexFileName, err)
	}
	a.index = idx
	return nil
}

// Close releases the archive's backing resources. A directory-backed
// archive has nothing to release; a GGPK-backed archive unmaps its
// pack.
func (a *Archive) Close() error {
	if a.pack != nil {
		return a.pack.Close()
	}
	return nil
}

// Algorithm returns the hash algorithm this archive's index was
// detected to use.
func (a *Archive) Algorithm() pathhash.Algorithm { return a.index.Algorithm }

// LookupFile resolves a logical path to its file_id (an index into
// Files), applying the active hash algorithm's casing rule first.
func (a *Archive) LookupFile(path string) (int, error) {
	if a.index.Algorithm.Seeded {
		path = strings.ToLower(path)
	}
	hash := pathhash.HashFile(a.index.Algorithm, path)
	fileID, ok := a.index.LookupFileID(hash)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fileID, nil
}

// ExtractFile reads, decompresses, and returns one stored file's bytes
// given the path that resolves to it.
func (a *Archive) ExtractFile(path string) ([]byte, error) {
	fileID, err := a.LookupFile(path)
	if err != nil {
		return nil, err
	}
	return a.extractFileByID(fileID)
}

func (a *Archive) extractFileByID(fileID int) ([]byte, error) {
	fr := a.index.Files[fileID]
	if int(fr.BundleIndex) >= len(a.index.Bundles) {
		return nil, fmt.Errorf("archive: file %d references out-of-range bundle %d", fileID, fr.BundleIndex)
	}
	bi := a.index.Bundles[fr.BundleIndex]

	data, err := a.extractBundleBytes(bi.Name)
	if err != nil {
		return nil, err
	}

	end := uint64(fr.FileOffset) + uint64(fr.FileSize)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("archive: file range [%d,%d) exceeds bundle %q size %d", fr.FileOffset, end, bi.Name, len(data))
	}
	return data[fr.FileOffset:end], nil
}

// ExtractBundle reads and fully decompresses a whole bundle by its
// table index.
func (a *Archive) ExtractBundle(bundleIndex int) ([]byte, error) {
	br, ok := a.BundleByIndex(bundleIndex)
	if !ok {
		return nil, fmt.Errorf("archive: bundle index %d out of range", bundleIndex)
	}
	return a.extractBundleBytes(br.Name)
}

func (a *Archive) extractBundleBytes(name string) ([]byte, error) {
	f, err := a.fs.Open(name + ".bundle.bin")
	if err != nil {
		return nil, fmt.Errorf("archive: opening bundle %q: %w", name, err)
	}
	defer f.Close()

	raw, err := vfs.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("archive: reading bundle %q: %w", name, err)
	}
	decoded, err := bundle.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("archive: decoding bundle %q: %w", name, err)
	}
	return decoded, nil
}

// ListPaths expands every path-rep's program slice into the full
// catalogue of logical paths this archive's index knows about.
func (a *Archive) ListPaths() ([]string, error) {
	return a.index.Paths()
}

// BundleByIndex returns a bundle record by its table index.
func (a *Archive) BundleByIndex(i int) (bundle.BundleRecord, bool) {
	if i < 0 || i >= len(a.index.Bundles) {
		return bundle.BundleRecord{}, false
	}
	return a.index.Bundles[i], true
}

// BundleIndexByName returns a bundle's table index by name.
func (a *Archive) BundleIndexByName(name string) (int, bool) {
	return a.index.BundleIndexByName(name)
}

// FileRecordByID returns a file record by its file_id.
func (a *Archive) FileRecordByID(fileID int) (bundle.FileRecord, bool) {
	if fileID < 0 || fileID >= len(a.index.Files) {
		return bundle.FileRecord{}, false
	}
	return a.index.Files[fileID], true
}

// PathRepByIndex returns a path-rep record by its table index.
func (a *Archive) PathRepByIndex(i int) (bundle.PathRepRecord, bool) {
	if i < 0 || i >= len(a.index.PathReps) {
		return bundle.PathRepRecord{}, false
	}
	return a.index.PathReps[i], true
}

// FilesInBundle returns the file_ids of every file stored in a given
// bundle.
func (a *Archive) FilesInBundle(bundleIndex int) []int {
	var ids []int
	for i, fr := range a.index.Files {
		if int(fr.BundleIndex) == bundleIndex {
			ids = append(ids, i)
		}
	}
	return ids
}
