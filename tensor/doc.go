// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the concrete arrays that graphs are evaluated on.
//
// # Overview
//
// A RawTensor is a dense, row-major array of one of four data types:
//   - Float32, Float64 (floating-point)
//   - Int32 (shapes, ranks and axis indices)
//   - Bool (masks and assertions)
//
// Graph constants and placeholder feeds are RawTensors, and so are the
// results of graph.Session.Run.
//
// # Basic Usage
//
//	x, err := tensor.FromValue([][]float64{{1, 2}, {3, 4}})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(x.Shape(), x.Float64s()) // [2 2] [1 2 3 4]
//
// # Broadcasting
//
// Element-wise operations follow NumPy broadcasting rules:
//
//	shape, _, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 4}) // (3, 4)
package tensor
