package pathhash

import "testing"

func TestFNV1a64KnownRootHash(t *testing.T) {
	// The root path-rep of the unseeded (legacy) variant hashes the empty
	// directory path; per spec.md this is the well-known constant used to
	// short-circuit algorithm detection.
	got := hashFileUnseeded("")
	if got != wellKnownFNVRootHash {
		t.Errorf("hashFileUnseeded(\"\") = %#x, want %#x", got, wellKnownFNVRootHash)
	}
}

func TestHashFileUnseededCaseInsensitive(t *testing.T) {
	a := HashFile(UnseededFNV1a, "Data/UPPERCASE.DAT")
	b := HashFile(UnseededFNV1a, "data/uppercase.dat")
	if a != b {
		t.Errorf("expected case-insensitive hash match, got %#x vs %#x", a, b)
	}
}

func TestHashFileSeededTrailingSlashAndCase(t *testing.T) {
	alg := Algorithm{Seeded: true, Seed: 0x0123456789ABCDEF}
	a := HashFile(alg, "DIR/B.BIN")
	b := HashFile(alg, "dir/b.bin")
	if a != b {
		t.Errorf("expected case-insensitive hash match, got %#x vs %#x", a, b)
	}
	c := HashFile(alg, "dir/")
	d := HashFile(alg, "dir")
	if c != d {
		t.Errorf("expected trailing slash to be stripped, got %#x vs %#x", c, d)
	}
}

func TestMurmur2_32Deterministic(t *testing.T) {
	if Murmur2_32([]byte("art")) != Murmur2_32([]byte("art")) {
		t.Errorf("Murmur2_32 is not deterministic")
	}
	if Murmur2_32([]byte("art")) == Murmur2_32([]byte("ART")) {
		t.Errorf("Murmur2_32 should be case-sensitive; callers lowercase before calling it")
	}
}

func TestRecoverSeedIdempotence(t *testing.T) {
	// Round-trip: given a seed, MurmurHash64A("", seed) passed through the
	// inverse finalizer returns the seed (spec.md §8).
	const seed = uint64(0x0123456789ABCDEF)
	rootHash := MurmurHash64A(nil, seed)
	got := RecoverSeed(rootHash)
	if got != seed {
		t.Errorf("RecoverSeed(MurmurHash64A(\"\", %#x)) = %#x, want %#x", seed, got, seed)
	}
}

func TestDetectAlgorithmKnownFNVConstant(t *testing.T) {
	alg, err := DetectAlgorithm(wellKnownFNVRootHash, func(seed uint64) (bool, bool) {
		t.Fatal("validator should not be called for the well-known FNV constant")
		return false, false
	})
	if err != nil {
		t.Fatalf("DetectAlgorithm failed: %v", err)
	}
	if alg.Seeded {
		t.Errorf("expected unseeded algorithm selection")
	}
}

func TestDetectAlgorithmSeededMurmur(t *testing.T) {
	const seed = uint64(0x1337B33F)
	rootHash := MurmurHash64A(nil, seed)
	alg, err := DetectAlgorithm(rootHash, func(candidate uint64) (bool, bool) {
		return candidate == seed, true
	})
	if err != nil {
		t.Fatalf("DetectAlgorithm failed: %v", err)
	}
	if !alg.Seeded || alg.Seed != seed {
		t.Errorf("got algorithm %+v, want seeded with seed %#x", alg, seed)
	}
}

func TestDetectAlgorithmNoSample(t *testing.T) {
	_, err := DetectAlgorithm(0xdeadbeef, func(uint64) (bool, bool) {
		return false, false
	})
	if err != ErrUnknownAlgorithm {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}
