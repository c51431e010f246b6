package pathhash

import "errors"

// ErrUnknownAlgorithm is returned when neither the well-known FNV constant
// nor a validated Murmur seed can account for the root path-rep hash.
var ErrUnknownAlgorithm = errors.New("pathhash: unknown hash algorithm")

// Validator checks whether a candidate seed correctly reproduces a known
// (parent directory path, stored hash) pair drawn from the index being
// opened. Callers that have the path-rep table and path program blob supply
// this by walking path-reps as described in spec.md §4.8.
type Validator func(seed uint64) (ok bool, sampleFound bool)

// DetectAlgorithm implements spec.md §4.8: given the root path-rep's hash,
// either select the legacy unseeded FNV algorithm outright, or recover a
// candidate Murmur seed and confirm it against validate.
func DetectAlgorithm(rootHash uint64, validate Validator) (Algorithm, error) {
	if rootHash == wellKnownFNVRootHash {
		return UnseededFNV1a, nil
	}

	seed := RecoverSeed(rootHash)
	ok, sampleFound := validate(seed)
	if !sampleFound || !ok {
		return Algorithm{}, ErrUnknownAlgorithm
	}
	return Algorithm{Seeded: true, Seed: seed}, nil
}
