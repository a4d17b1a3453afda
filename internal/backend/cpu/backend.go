// Package cpu implements the pure Go CPU backend used to evaluate graphs.
package cpu

import (
	"github.com/born-ml/bijectors/internal/parallel"
	"github.com/born-ml/bijectors/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// Kernels allocate a fresh result for every call and never modify their
// inputs, so a single backend can serve concurrent graph evaluations.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit parallelism configuration
// for batched kernels.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// newResult allocates a result tensor, panicking with the op name on failure.
func (cpu *CPUBackend) newResult(op string, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(op + ": failed to create result tensor: " + err.Error())
	}
	return result
}
