// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for graph evaluation.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support, with Int32 and Bool for shape arithmetic
//   - NumPy-compatible broadcasting
//   - Batched MatVec, Solve and LogAbsDet backed by gonum
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/bijectors/backend/cpu"
//	    "github.com/born-ml/bijectors/graph"
//	)
//
//	func main() {
//	    g := graph.New(cpu.New())
//	    y := graph.Exp(graph.Const(g, []float64{0, 1}))
//	    v, err := graph.NewSession(g, graph.DefaultSessionConfig()).Eval(ctx, y, nil)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each kernel allocates its
// result and does not share mutable state.
package cpu
