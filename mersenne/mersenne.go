// Package mersenne implements modular arithmetic for Mersenne moduli
// M_E = 2^E - 1, the reduction identity used throughout the checkpoint and
// proof subsystems to keep squarings and exponent-chain exponentiations
// inside a single modulus without a general big.Int division on every step.
package mersenne

import "math/big"

// Modulus returns 2^E - 1 as a fresh *big.Int.
func Modulus(E uint32) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(E))
	return m.Sub(m, big.NewInt(1))
}

// Reduce returns x mod (2^E - 1) using the split-add-correct identity
//
//	x ≡ (x mod 2^E) + (x div 2^E)   (mod 2^E - 1)
//
// A single post-correction subtraction suffices because xlo + xhi < 2*2^E.
// The canonical representative of the residue class of 2^E-1 itself is NOT
// normalized to 0 here: callers comparing residues across conversions must
// treat 0 and M_E as equivalent.
func Reduce(x *big.Int, E uint32) *big.Int {
	if x.Sign() == 0 {
		return new(big.Int)
	}
	if uint32(x.BitLen()) <= E {
		return new(big.Int).Set(x)
	}

	mod := Modulus(E)
	mask := new(big.Int).Lsh(big.NewInt(1), uint(E))
	mask.Sub(mask, big.NewInt(1))

	xlo := new(big.Int).And(x, mask)
	xhi := new(big.Int).Rsh(x, uint(E))

	r := xlo.Add(xlo, xhi)
	if r.Cmp(mod) >= 0 {
		r.Sub(r, mod)
	}
	return r
}

// PowMod computes base^exp mod (2^E - 1) by right-to-left binary
// exponentiation, applying Reduce after every square and every multiply.
// The exponent is a single 64-bit value because the Fiat-Shamir hash chain
// that drives the proof builder supplies only 64-bit challenges.
func PowMod(base *big.Int, exp uint64, E uint32) *big.Int {
	if exp == 0 {
		return big.NewInt(1)
	}
	if exp == 1 {
		return Reduce(base, E)
	}

	result := big.NewInt(1)
	square := Reduce(base, E)

	for exp > 0 {
		if exp&1 == 1 {
			result = Reduce(new(big.Int).Mul(result, square), E)
		}
		exp >>= 1
		if exp > 0 {
			square = Reduce(new(big.Int).Mul(square, square), E)
		}
	}
	return result
}

// Equal reports whether a and b represent the same residue class modulo
// 2^E - 1, treating 0 and M_E as equivalent per the Reduce contract.
func Equal(a, b *big.Int, E uint32) bool {
	mod := Modulus(E)
	na, nb := normalize(a, mod), normalize(b, mod)
	return na.Cmp(nb) == 0
}

func normalize(x, mod *big.Int) *big.Int {
	if x.Cmp(mod) == 0 {
		return new(big.Int)
	}
	return x
}
