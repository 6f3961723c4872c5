// Package cpu provides a pure-Go reference Squarer over math/big, used in
// tests and as a fallback when no accelerator is configured. It performs
// the same iterated-squaring step the device pipeline would, just without
// the NTT/IBDWT speedup (glossary: PRP is iterated squaring of 3 mod M_E,
// LL is the Lucas-Lehmer variant starting from 4).
package cpu

import (
	"context"
	"fmt"
	"math/big"

	"mersproof/mersenne"
	"mersproof/residue"
)

// Mode selects which primality test's iteration step and seed to use.
type Mode int

const (
	PRP Mode = iota
	LucasLehmer
)

const (
	seedPRP uint64 = 3
	seedLL  uint64 = 4
)

// Squarer is a reference implementation of squarer.Squarer backed by
// math/big, reducing modulo M_E with mersenne.Reduce after each squaring.
type Squarer struct {
	E    uint32
	Mode Mode
	x    *big.Int
}

// New creates a CPU squarer seeded at iteration 0 (3 for PRP, 4 for LL).
func New(E uint32, mode Mode) *Squarer {
	seed := seedPRP
	if mode == LucasLehmer {
		seed = seedLL
	}
	return &Squarer{E: E, Mode: mode, x: new(big.Int).SetUint64(seed)}
}

// ReadWords copies the current residue out in device word form (64-bit
// words), repacking from the canonical 32-bit word layout.
func (s *Squarer) ReadWords() ([]uint64, error) {
	words32 := residue.FromInteger(s.x, s.E)
	count64 := (len(words32) + 1) / 2
	return residue.Repack32To64(words32, count64), nil
}

// WriteWords replaces the current residue with words (device word form).
// Used only on resume.
func (s *Squarer) WriteWords(words []uint64) error {
	n32 := residue.WordCount(s.E)
	words32 := residue.Repack64To32(words)
	if len(words32) < n32 {
		return fmt.Errorf("cpu: WriteWords got %d words, need at least %d", len(words32), n32)
	}
	s.x = residue.ToInteger(words32[:n32])
	return nil
}

// Iterate advances the residue by one squaring step: x = x^2 mod M_E for
// PRP, x = x^2 - 2 mod M_E for Lucas-Lehmer. For E <= 32 this runs entirely
// on 64-bit words via mersenne.MulModUint64/AddModUint64 instead of
// math/big, since the modulus is small enough for those helpers' bound.
func (s *Squarer) Iterate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.E <= 32 {
		s.iterateSmall()
		return nil
	}

	sq := new(big.Int).Mul(s.x, s.x)
	sq = mersenne.Reduce(sq, s.E)

	if s.Mode == LucasLehmer {
		sq.Sub(sq, big.NewInt(2))
		if sq.Sign() < 0 {
			sq.Add(sq, mersenne.Modulus(s.E))
		}
	}

	s.x = sq
	return nil
}

// iterateSmall is the E <= 32 fast path, squaring mod M_E on 64-bit words
// directly rather than round-tripping through math/big.
func (s *Squarer) iterateSmall() {
	cur := s.x.Uint64()
	next := mersenne.MulModUint64(cur, cur, s.E)

	if s.Mode == LucasLehmer {
		mod := uint64(1)<<s.E - 1
		next = mersenne.AddModUint64(next, mod-2, s.E)
	}

	s.x = new(big.Int).SetUint64(next)
}
