// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/bijectors/internal/backend/cpu"
	"github.com/born-ml/bijectors/internal/parallel"
	"github.com/born-ml/bijectors/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides pure Go implementations of all kernels. Batched
// linear algebra runs one gonum LU factorization per matrix, spread over
// goroutines for large batches.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ParallelConfig controls how the CPU backend splits batched kernels
// across goroutines.
type ParallelConfig = parallel.Config

// DefaultParallelConfig returns the configuration used by New.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/bijectors/backend/cpu"
//	    "github.com/born-ml/bijectors/graph"
//	)
//
//	func main() {
//	    g := graph.New(cpu.New())
//	    x := graph.Const(g, []float64{1, 2, 3})
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg ParallelConfig) *Backend {
	return internalcpu.NewWithConfig(cfg)
}
