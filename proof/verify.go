package proof

import (
	"fmt"

	"mersproof/residue"
)

// Verify recomputes the Fiat-Shamir hash chain from (E, B, Middles) the
// same way Build does, and returns the resulting per-level hashes. It is
// the supplemental check spec.md §4.5's Rationale describes a verifier
// performing before the squaring-based midpoint check (which needs the
// accelerator and is out of scope here): shape (word counts, no zero
// middle) plus hash-chain recomputation. It does not re-derive the
// checkpoint residues or re-run any squaring.
func Verify(p *Proof) ([]uint64, error) {
	wordCount := residue.WordCount(uint32(p.E))
	if len(p.B) != wordCount {
		return nil, fmt.Errorf("%w: final residue has %d words, want %d", ErrVerifyMismatch, len(p.B), wordCount)
	}
	if len(p.Middles) == 0 {
		return nil, fmt.Errorf("%w: proof has no middles", ErrVerifyMismatch)
	}

	h := HashWords(p.E, p.B)
	hashes := make([]uint64, len(p.Middles))
	for i, m := range p.Middles {
		if len(m) != wordCount {
			return nil, fmt.Errorf("%w: middle %d has %d words, want %d", ErrVerifyMismatch, i, len(m), wordCount)
		}
		if allZero(m) {
			return nil, fmt.Errorf("%w: middle %d is zero", ErrZeroMiddle, i)
		}
		h = HashWordsChain(p.E, h, m)
		hashes[i] = h.Low64()
	}
	return hashes, nil
}
