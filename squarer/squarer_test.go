package squarer

import (
	"mersproof/squarer/cpu"
	"mersproof/squarer/gpu"
)

// Compile-time checks that the reference and device backends satisfy the
// Squarer contract.
var (
	_ Squarer = (*cpu.Squarer)(nil)
	_ Squarer = (*gpu.Squarer)(nil)
)
