package proof

import (
	"fmt"
	"math/big"

	"mersproof/checkpoint"
	"mersproof/mersenne"
	"mersproof/residue"
)

// Proof bundles the final residue and the per-level middles that let a
// verifier retrace the squaring chain without repeating every iteration,
// mirroring original_source/ProofSet.cpp's Proof{E, B, middles}.
type Proof struct {
	E       uint64
	B       []uint32
	Middles [][]uint32
}

// Build runs ProofSet::computeProof's binary-tree reduction: for each of
// the schedule's Power levels it collapses that level's checkpoint
// residues, pairwise, into a single middle residue via mersenne.PowMod
// chained with the previous levels' Fiat-Shamir hashes, and folds the new
// middle into the hash chain before moving to the next (finer) level.
func Build(store *checkpoint.Store, sched *checkpoint.Schedule) (*Proof, error) {
	B, err := store.Load(sched.E)
	if err != nil {
		return nil, fmt.Errorf("proof: load final residue: %w", err)
	}

	points := sched.Points()
	E32 := uint32(sched.E)

	h := HashWords(sched.E, B)
	hashes := make([]uint64, 0, sched.Power)
	middles := make([][]uint32, 0, sched.Power)

	buf := make([]*big.Int, 1<<uint(sched.Power))

	for p := 0; p < sched.Power; p++ {
		s := uint64(1) << uint(sched.Power-p-1)
		levelBuffers := 1 << uint(p)

		for i := 0; i < levelBuffers; i++ {
			buf[i] = nil
		}

		bufIndex := 0
		for i := 0; i < levelBuffers; i++ {
			checkpointIndex := s*(uint64(i)*2+1) - 1
			if checkpointIndex >= uint64(len(points)) {
				continue
			}
			iteration := points[checkpointIndex]
			if iteration > sched.E || !sched.IsCheckpoint(iteration) {
				continue
			}

			w, err := store.Load(iteration)
			if err != nil {
				return nil, fmt.Errorf("proof: load checkpoint %d: %w", iteration, err)
			}
			buf[bufIndex] = residue.ToInteger(w)
			bufIndex++

			for k := 0; i&(1<<uint(k)) != 0; k++ {
				if bufIndex < 2 {
					return nil, fmt.Errorf("%w: level %d need 2 buffers, have %d", ErrBufferCollapse, p, bufIndex)
				}
				bufIndex--
				hk := hashes[p-1-k]

				a := mersenne.PowMod(buf[bufIndex-1], hk, E32)
				a.Mul(a, buf[bufIndex])
				buf[bufIndex-1] = mersenne.Reduce(a, E32)
				buf[bufIndex] = nil
			}
		}

		if bufIndex != 1 {
			return nil, fmt.Errorf("%w: level %d collapsed to %d buffers, want 1", ErrBufferCollapse, p, bufIndex)
		}

		middle := residue.FromInteger(buf[0], E32)
		if allZero(middle) {
			return nil, fmt.Errorf("%w: level %d", ErrZeroMiddle, p)
		}
		middles = append(middles, middle)

		h = HashWordsChain(sched.E, h, middle)
		hashes = append(hashes, h.Low64())
	}

	return &Proof{E: sched.E, B: B, Middles: middles}, nil
}

func allZero(words []uint32) bool {
	for _, w := range words {
		if w != 0 {
			return false
		}
	}
	return true
}
