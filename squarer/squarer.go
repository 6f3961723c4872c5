// Package squarer defines the contract the host driver uses against the
// external GPU pipeline (spec §4.7, component G): an opaque producer that
// advances a device-resident residue one iteration at a time and lets the
// host copy the residue in either direction between iterations.
package squarer

import "context"

// Squarer abstracts the OpenCL NTT/IBDWT squaring kernels. ReadWords and
// WriteWords are synchronous blocking copies between the device buffer and
// host memory, in device word form (64-bit words); Iterate advances the
// residue by exactly one squaring (PRP) or squaring-minus-two
// (Lucas-Lehmer) step, depending on how the implementation was
// constructed. The Checkpoint Store never reaches into the device through
// any other path.
type Squarer interface {
	// ReadWords blocks until the current residue has been copied from
	// device to host and returns it in device word form.
	ReadWords() ([]uint64, error)

	// WriteWords blocks until words has been copied from host to device,
	// replacing the current residue. Used only on resume.
	WriteWords(words []uint64) error

	// Iterate advances the residue by one iteration. It returns
	// ctx.Err() if ctx is done before the iteration completes; the
	// residue is left in its pre-iteration state in that case.
	Iterate(ctx context.Context) error
}
