package proof

import "errors"

var (
	// ErrZeroMiddle is returned when a computed level middle M_p is the
	// zero residue, which indicates upstream checkpoint corruption: a
	// legitimate midpoint of a well-formed squaring chain is never
	// all-zero words.
	ErrZeroMiddle = errors.New("proof: computed middle is zero")

	// ErrBufferCollapse indicates the binary-tree reduction did not
	// collapse to exactly one buffer at the end of a level, a programming
	// error in the pairing logic rather than a runtime condition.
	ErrBufferCollapse = errors.New("proof: buffer pool did not collapse to one slot")

	// ErrVerifyMismatch is returned by Verify when the proof's shape does
	// not match its own exponent (word counts, or no middles at all).
	ErrVerifyMismatch = errors.New("proof: hash chain mismatch on verify")
)
