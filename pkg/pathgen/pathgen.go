// Package pathgen implements the two-phase dictionary-coder VM used to
// expand the index's path-program blob into the full list of paths it
// represents.
//
// The blob is a stream of u32 command words interleaved with
// NUL-terminated UTF-8 fragments. A zero command toggles between two
// phases: template phase, where fragments build up a table of base
// strings, and generation phase, where fragments are combined with a
// base string to emit a path. Entering template phase clears the base
// table, so each template section starts from scratch. A non-zero
// command is a one-based index into the base table; the referenced base
// is concatenated with the fragment that follows the command word. An
// index with no corresponding base (including every command seen while
// the base table is still empty) is treated as a literal: the fragment
// is used verbatim, as a new base in template phase or as an output in
// generation phase.
package pathgen

import (
	"errors"
	"fmt"

	"github.com/hnilsson/ggarchive/pkg/byteio"
)

// ErrTruncated is returned when the command stream ends mid-fragment.
var ErrTruncated = errors.New("pathgen: truncated command stream")

// ErrMalformed is returned when the command stream doesn't open with the
// required phase toggle into template phase.
var ErrMalformed = errors.New("pathgen: command stream must open with a phase toggle")

// Generate expands a path-program blob into the full ordered list of
// paths it produces. The stream must open with a zero command toggling
// into template phase; any other opening command is malformed.
func Generate(data []byte) ([]string, error) {
	r := byteio.NewReader(data)

	templatePhase := false
	var bases []string
	var results []string
	first := true

	for r.Len() > 0 {
		cmd, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("%w: reading command: %v", ErrTruncated, err)
		}
		if first {
			first = false
			if cmd != 0 {
				return nil, fmt.Errorf("%w: first command was %d, not a phase toggle", ErrMalformed, cmd)
			}
		}

		if cmd == 0 {
			templatePhase = !templatePhase
			if templatePhase {
				bases = bases[:0]
			}
			continue
		}

		fragment, err := r.CString()
		if err != nil {
			return nil, fmt.Errorf("%w: reading fragment: %v", ErrTruncated, err)
		}

		index := int(cmd) - 1
		full := string(fragment)
		if index >= 0 && index < len(bases) {
			full = bases[index] + full
		}

		if templatePhase {
			bases = append(bases, full)
		} else {
			results = append(results, full)
		}
	}

	return results, nil
}
