//go:build !cgo
// +build !cgo

// Package gpu wraps the OpenCL NTT/IBDWT squaring kernels behind the
// squarer.Squarer interface. This file provides the pure-Go stub used when
// CGO is disabled; see gpu_cgo.go for the CGO-gated OpenCL boundary.
package gpu

import (
	"context"
	"errors"
)

// ErrCGODisabled is returned by every OpenCL operation when the binary was
// built without CGO.
var ErrCGODisabled = errors.New("squarer/gpu: CGO required for OpenCL-accelerated squaring")

// Config names the OpenCL platform/device and the exponent the squarer
// will operate on.
type Config struct {
	E uint32

	// Platform/Device select which OpenCL device to bind to; ignored by
	// the stub build.
	Platform int
	Device   int
}

// Squarer is a stub implementation of squarer.Squarer returned when CGO is
// disabled. Every method fails with ErrCGODisabled.
type Squarer struct {
	cfg Config
}

// New returns a stub Squarer; callers that need real acceleration must
// build with CGO and an OpenCL ICD loader present.
func New(cfg Config) (*Squarer, error) {
	return &Squarer{cfg: cfg}, nil
}

// Available reports whether OpenCL acceleration is compiled in.
func Available() bool {
	return false
}

func (s *Squarer) ReadWords() ([]uint64, error) {
	return nil, ErrCGODisabled
}

func (s *Squarer) WriteWords(words []uint64) error {
	return ErrCGODisabled
}

func (s *Squarer) Iterate(ctx context.Context) error {
	return ErrCGODisabled
}
