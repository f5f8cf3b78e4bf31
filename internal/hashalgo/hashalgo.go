// Package hashalgo provides a selectable 64-bit hash function
// used in gartgraph for checksumming paged-column-store page content
// (internal/columnstore) and for hashing compressed blob-schema
// snapshots before they're published to the registry (internal/graphstore).
//
// Three algorithms are supported, mirroring the selectable-algorithm design
// of a hash document store in the retrieval pack: xxh3 is the fast default,
// fnv1a needs no external dependency, and blake2b trades speed for
// a better-distributed, cryptographically-sound digest for callers that
// care about adversarial input.
package hashalgo

import (
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Algorithm selects which hash function Sum64 uses.
type Algorithm int

const (
	// XXHash3 is the default: fastest, good distribution for random keys.
	XXHash3 Algorithm = iota
	// FNV1a needs no external dependency.
	FNV1a
	// Blake2b gives the best distribution and is safe for adversarial input.
	Blake2b
)

// Sum64 hashes data with the selected algorithm and returns a 64-bit digest.
// An unrecognized Algorithm falls back to XXHash3.
func Sum64(alg Algorithm, data []byte) uint64 {
	switch alg {
	case FNV1a:
		h := fnv.New64a()
		h.Write(data)
		return h.Sum64()
	case Blake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		sum := h.Sum(nil)
		var v uint64
		for _, b := range sum {
			v = (v << 8) | uint64(b)
		}
		return v
	case XXHash3:
		fallthrough
	default:
		return xxh3.Hash(data)
	}
}

// String hashes a string with the selected algorithm.
func String(alg Algorithm, s string) uint64 {
	return Sum64(alg, []byte(s))
}
