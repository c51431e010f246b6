// Package bundledggpk opens a GGPK pack that is itself stored as a file
// inside a bundle-index archive, rather than as a standalone *.ggpk on
// disk (the layout some distributions use instead of shipping a bare
// pack file).
package bundledggpk

import (
	"bytes"
	"fmt"

	"github.com/hnilsson/ggarchive/pkg/archive"
	"github.com/hnilsson/ggarchive/pkg/ggpk"
)

// Open resolves pathInBundle within an already-opened archive,
// extracts its bytes, and parses them as a GGPK pack.
func Open(a *archive.Archive, pathInBundle string) (*ggpk.GGPKFile, error) {
	if pathInBundle == "" {
		return nil, fmt.Errorf("bundledggpk: pathInBundle cannot be empty")
	}

	data, err := a.ExtractFile(pathInBundle)
	if err != nil {
		return nil, fmt.Errorf("bundledggpk: extracting %q: %w", pathInBundle, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("bundledggpk: %q has no content", pathInBundle)
	}

	pack, err := ggpk.OpenFromReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("bundledggpk: parsing %q: %w", pathInBundle, err)
	}
	return pack, nil
}
