// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/bijectors/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends run the kernels of evaluated graph nodes. They panic on invalid
// input; graph.Session turns those panics into errors.
//
// Implementations:
//   - backend/cpu: Pure Go, with gonum for the linear algebra kernels
//
// Example:
//
//	import (
//	    "github.com/born-ml/bijectors/backend/cpu"
//	    "github.com/born-ml/bijectors/graph"
//	)
//
//	g := graph.New(cpu.New())
type Backend = tensor.Backend
