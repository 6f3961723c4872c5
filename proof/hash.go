// Package proof implements the binary-tree proof-of-iterated-squaring
// builder (component E) and its Fiat-Shamir-style domain-separated hash
// (component F), following original_source/ProofSet.cpp's computeProof
// and Proof::hashWords.
package proof

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Hash is a 256-bit digest carried across proof levels as four 64-bit
// limbs, the same width the teacher's PIOP/fs_helpers.go Shake256XOF and
// DECS/merkle.go shake16 build their own domain-separated digests with
// (sha3 from golang.org/x/crypto), specialized here to a fixed SHA3-256
// output instead of a SHAKE XOF since spec §4.6 needs a fixed-length hash.
type Hash [4]uint64

// HashWords computes H = SHA3-256(LE64(E) || bytes(W)), the level-0 hash
// seeding the chain from the final residue B.
func HashWords(E uint64, W []uint32) Hash {
	h := sha3.New256()
	writeLE64(h, E)
	writeWordsLE(h, W)
	return sumToHash(h)
}

// HashWordsChain computes H = SHA3-256(LE64(E) || bytes(Hprev) ||
// bytes(W)), advancing the hash chain with the previous level's hash and
// this level's middle residue.
func HashWordsChain(E uint64, prev Hash, W []uint32) Hash {
	h := sha3.New256()
	writeLE64(h, E)
	writeHashLE(h, prev)
	writeWordsLE(h, W)
	return sumToHash(h)
}

// Low64 returns the first 64-bit limb of H, the only part of the digest
// that feeds the next level's exponent.
func (h Hash) Low64() uint64 {
	return h[0]
}

// Res64 returns the low 64 bits of ToInteger(W) — a display-only
// fingerprint used for progress logging, matching
// ProofSet::computeProof's "proof [p] : M <res64> ..." line.
func Res64(W []uint32) uint64 {
	var v uint64
	for i := 0; i < len(W) && i < 2; i++ {
		v |= uint64(W[i]) << (32 * i)
	}
	return v
}

func writeLE64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeWordsLE(h interface{ Write([]byte) (int, error) }, words []uint32) {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	h.Write(buf)
}

func writeHashLE(h interface{ Write([]byte) (int, error) }, prev Hash) {
	var buf [32]byte
	for i, limb := range prev {
		binary.LittleEndian.PutUint64(buf[i*8:], limb)
	}
	h.Write(buf[:])
}

func sumToHash(h interface{ Sum([]byte) []byte }) Hash {
	digest := h.Sum(nil)
	var out Hash
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(digest[i*8:])
	}
	return out
}
