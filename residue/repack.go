package residue

// Repack64To32 re-slices a little-endian sequence of 64-bit device words
// into the 32-bit word layout proof snapshots use on disk. Low half of
// each 64-bit word comes first, matching the little-endian, word-order
// preserving interpretation both ToInteger and FromInteger already assume:
// the repack is required to agree with
//
//	ToInteger(Repack64To32(w)) == toIntegerOfW64(w)
//
// for the analogous 64-bit interpretation. This resolves the Open Question
// spec.md flags about the undocumented 64-to-32-bit conversion between the
// device's word width and the proof snapshot's word width.
func Repack64To32(words64 []uint64) []uint32 {
	out := make([]uint32, 0, len(words64)*2)
	for _, w := range words64 {
		out = append(out, uint32(w), uint32(w>>32))
	}
	return out
}

// Repack32To64 is the inverse of Repack64To32: it combines consecutive
// 32-bit words (low word first) back into 64-bit device words. count64
// words are produced; words32 is zero-extended if it is shorter than
// 2*count64 entries.
func Repack32To64(words32 []uint32, count64 int) []uint64 {
	out := make([]uint64, count64)
	for i := 0; i < count64; i++ {
		lo, hi := uint64(0), uint64(0)
		if j := 2 * i; j < len(words32) {
			lo = uint64(words32[j])
		}
		if j := 2*i + 1; j < len(words32) {
			hi = uint64(words32[j])
		}
		out[i] = lo | (hi << 32)
	}
	return out
}
