//go:build cgo
// +build cgo

// Package gpu wraps the OpenCL NTT/IBDWT squaring kernels behind the
// squarer.Squarer interface. This file is the CGO-gated boundary: it owns
// the OpenCL context/queue/buffer lifetime and the host<->device word
// copies; the actual NTT/IBDWT kernel source is supplied at build time
// (spec's Out-of-scope list: "the OpenCL NTT/IBDWT squaring kernels") and
// is not part of this module.
package gpu

/*
#cgo LDFLAGS: -lOpenCL
#include <CL/cl.h>
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"unsafe"
)

// ErrNoDevice is returned when OpenCL platform/device discovery finds no
// matching accelerator.
var ErrNoDevice = errors.New("squarer/gpu: no matching OpenCL device found")

// ErrKernelUnavailable is returned by Iterate when no squaring kernel has
// been loaded. The actual NTT/IBDWT kernel source is supplied at build
// time and is out of scope for this module; this sentinel marks where
// that kernel's enqueue call goes once it is.
var ErrKernelUnavailable = errors.New("squarer/gpu: no squaring kernel loaded")

// Config names the OpenCL platform/device and the exponent the squarer
// will operate on.
type Config struct {
	E uint32

	Platform int
	Device   int
}

// Squarer binds one OpenCL context/queue/device-buffer triple to a single
// exponent's residue. It is not safe for concurrent use, matching spec §5's
// single-threaded cooperative scheduling model.
type Squarer struct {
	cfg Config

	ctx     C.cl_context
	queue   C.cl_command_queue
	device  C.cl_device_id
	program C.cl_program
	kernel  C.cl_kernel
	buf     C.cl_mem

	wordCount int
}

// New acquires an OpenCL context/queue on cfg.Platform/cfg.Device and
// allocates the device-resident residue buffer for cfg.E.
func New(cfg Config) (*Squarer, error) {
	platforms, err := clPlatforms()
	if err != nil {
		return nil, err
	}
	if cfg.Platform < 0 || cfg.Platform >= len(platforms) {
		return nil, fmt.Errorf("%w: platform index %d", ErrNoDevice, cfg.Platform)
	}

	devices, err := clDevices(platforms[cfg.Platform])
	if err != nil {
		return nil, err
	}
	if cfg.Device < 0 || cfg.Device >= len(devices) {
		return nil, fmt.Errorf("%w: device index %d", ErrNoDevice, cfg.Device)
	}
	device := devices[cfg.Device]

	var status C.cl_int
	ctx := C.clCreateContext(nil, 1, &device, nil, nil, &status)
	if status != C.CL_SUCCESS {
		return nil, fmt.Errorf("squarer/gpu: clCreateContext failed: %d", int(status))
	}

	queue := C.clCreateCommandQueue(ctx, device, 0, &status)
	if status != C.CL_SUCCESS {
		C.clReleaseContext(ctx)
		return nil, fmt.Errorf("squarer/gpu: clCreateCommandQueue failed: %d", int(status))
	}

	wordCount := int((cfg.E + 63) / 64)
	buf := C.clCreateBuffer(ctx, C.CL_MEM_READ_WRITE, C.size_t(wordCount*8), nil, &status)
	if status != C.CL_SUCCESS {
		C.clReleaseCommandQueue(queue)
		C.clReleaseContext(ctx)
		return nil, fmt.Errorf("squarer/gpu: clCreateBuffer failed: %d", int(status))
	}

	return &Squarer{
		cfg:       cfg,
		ctx:       ctx,
		queue:     queue,
		device:    device,
		buf:       buf,
		wordCount: wordCount,
	}, nil
}

// Close releases the OpenCL context, queue, and device buffer.
func (s *Squarer) Close() {
	if s.buf != nil {
		C.clReleaseMemObject(s.buf)
	}
	if s.kernel != nil {
		C.clReleaseKernel(s.kernel)
	}
	if s.program != nil {
		C.clReleaseProgram(s.program)
	}
	if s.queue != nil {
		C.clReleaseCommandQueue(s.queue)
	}
	if s.ctx != nil {
		C.clReleaseContext(s.ctx)
	}
}

// ReadWords blocks until the device buffer has been copied to host memory.
func (s *Squarer) ReadWords() ([]uint64, error) {
	words := make([]uint64, s.wordCount)
	status := C.clEnqueueReadBuffer(s.queue, s.buf, C.CL_TRUE, 0,
		C.size_t(s.wordCount*8), unsafe.Pointer(&words[0]), 0, nil, nil)
	if status != C.CL_SUCCESS {
		return nil, fmt.Errorf("squarer/gpu: clEnqueueReadBuffer failed: %d", int(status))
	}
	return words, nil
}

// WriteWords blocks until words has been copied from host to the device
// buffer, replacing the current residue. Used only on resume.
func (s *Squarer) WriteWords(words []uint64) error {
	if len(words) < s.wordCount {
		return fmt.Errorf("squarer/gpu: WriteWords got %d words, need %d", len(words), s.wordCount)
	}
	status := C.clEnqueueWriteBuffer(s.queue, s.buf, C.CL_TRUE, 0,
		C.size_t(s.wordCount*8), unsafe.Pointer(&words[0]), 0, nil, nil)
	if status != C.CL_SUCCESS {
		return fmt.Errorf("squarer/gpu: clEnqueueWriteBuffer failed: %d", int(status))
	}
	return nil
}

// Iterate enqueues one NTT/IBDWT squaring pass and blocks on the queue.
// The kernel itself is supplied externally at link time; this method only
// owns enqueue/wait, matching the Store's "block until the accelerator
// queue drains" contract.
func (s *Squarer) Iterate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.kernel == nil {
		return ErrKernelUnavailable
	}

	status := C.clEnqueueTask(s.queue, s.kernel, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return fmt.Errorf("squarer/gpu: clEnqueueTask failed: %d", int(status))
	}
	return fromCLStatus(C.clFinish(s.queue))
}

func fromCLStatus(status C.cl_int) error {
	if status != C.CL_SUCCESS {
		return fmt.Errorf("squarer/gpu: clFinish failed: %d", int(status))
	}
	return nil
}

func clPlatforms() ([]C.cl_platform_id, error) {
	var count C.cl_uint
	if status := C.clGetPlatformIDs(0, nil, &count); status != C.CL_SUCCESS {
		return nil, fmt.Errorf("squarer/gpu: clGetPlatformIDs count failed: %d", int(status))
	}
	if count == 0 {
		return nil, ErrNoDevice
	}
	platforms := make([]C.cl_platform_id, count)
	if status := C.clGetPlatformIDs(count, &platforms[0], nil); status != C.CL_SUCCESS {
		return nil, fmt.Errorf("squarer/gpu: clGetPlatformIDs failed: %d", int(status))
	}
	return platforms, nil
}

func clDevices(platform C.cl_platform_id) ([]C.cl_device_id, error) {
	var count C.cl_uint
	if status := C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_ALL, 0, nil, &count); status != C.CL_SUCCESS {
		return nil, fmt.Errorf("squarer/gpu: clGetDeviceIDs count failed: %d", int(status))
	}
	if count == 0 {
		return nil, ErrNoDevice
	}
	devices := make([]C.cl_device_id, count)
	if status := C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_ALL, count, &devices[0], nil); status != C.CL_SUCCESS {
		return nil, fmt.Errorf("squarer/gpu: clGetDeviceIDs failed: %d", int(status))
	}
	return devices, nil
}

// Available reports whether at least one OpenCL platform is visible.
func Available() bool {
	platforms, err := clPlatforms()
	return err == nil && len(platforms) > 0
}
