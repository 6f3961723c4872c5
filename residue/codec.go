// Package residue converts between the accelerator's packed word
// representation of a residue and the arbitrary-precision integer form the
// mersenne package operates on. Two word widths coexist in this system: the
// device carries 64-bit words, proof snapshots are serialized as 32-bit
// words; Repack32To64/Repack64To32 bridge the two (see the doc comment on
// Repack64To32 for the width-conversion rationale).
package residue

import "math/big"

// WordCount returns ⌈E/32⌉, the number of 32-bit words a residue modulo
// 2^E - 1 occupies on disk.
func WordCount(E uint32) int {
	return int((E + 31) / 32)
}

// ToInteger interprets words as a little-endian, least-significant-word
// first unsigned magnitude and returns the corresponding non-negative
// integer. Trailing zero words are permitted and meaningless.
func ToInteger(words []uint32) *big.Int {
	x := new(big.Int)
	tmp := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		x.Lsh(x, 32)
		tmp.SetUint64(uint64(words[i]))
		x.Or(x, tmp)
	}
	return x
}

// FromInteger produces exactly WordCount(E) 32-bit words, zero-padded, from
// a non-negative integer known to satisfy 0 <= x < 2^E. It does not
// truncate: a value of 2^E or more indicates a caller invariant violation,
// not a runtime condition, so it panics rather than silently dropping high
// bits.
func FromInteger(x *big.Int, E uint32) []uint32 {
	if x.Sign() < 0 {
		panic("residue.FromInteger: negative value")
	}
	if x.BitLen() > int(E) {
		panic("residue.FromInteger: value does not fit in E bits")
	}
	n := WordCount(E)
	words := make([]uint32, n)

	tmp := new(big.Int).Set(x)
	mask := big.NewInt(0xFFFFFFFF)
	word := new(big.Int)
	for i := 0; i < n && tmp.Sign() != 0; i++ {
		word.And(tmp, mask)
		words[i] = uint32(word.Uint64())
		tmp.Rsh(tmp, 32)
	}
	if tmp.Sign() != 0 {
		panic("residue.FromInteger: value does not fit in WordCount(E) words")
	}
	return words
}
