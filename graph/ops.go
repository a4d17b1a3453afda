// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/tensor"
)

// Constants and placeholders

// Const adds a constant holding value: a *tensor.RawTensor, a Go scalar, or a
// rectangular nested slice.
//
// Example:
//
//	scale := graph.Const(g, [][]float64{{1, 0}, {0, 1}})
func Const(g *Graph, value any) *Node { return graph.Const(g, value) }

// Scalar adds a scalar constant of the given dtype.
func Scalar(g *Graph, dtype tensor.DataType, value float64) *Node { return graph.Scalar(g, dtype, value) }

// ScalarLike adds a scalar constant with the dtype of x.
func ScalarLike(x *Node, value float64) *Node { return graph.ScalarLike(x, value) }

// Int adds an Int32 scalar constant.
func Int(g *Graph, value int) *Node { return graph.Int(g, value) }

// Ints adds an Int32 vector constant.
func Ints(g *Graph, values ...int) *Node { return graph.Ints(g, values...) }

// Placeholder adds a node whose value is fed at evaluation.
//
// Example:
//
//	x := graph.Placeholder(g, "x", tensor.Float64, graph.UnknownShape())
func Placeholder(g *Graph, name string, dtype tensor.DataType, shape StaticShape) *Node {
	return graph.Placeholder(g, name, dtype, shape)
}

// Arithmetic, with NumPy-style broadcasting

func Add(a, b *Node) *Node { return graph.Add(a, b) }
func Sub(a, b *Node) *Node { return graph.Sub(a, b) }
func Mul(a, b *Node) *Node { return graph.Mul(a, b) }
func Div(a, b *Node) *Node { return graph.Div(a, b) }

// Element-wise math

func Neg(x *Node) *Node      { return graph.Neg(x) }
func Abs(x *Node) *Node      { return graph.Abs(x) }
func Exp(x *Node) *Node      { return graph.Exp(x) }
func Log(x *Node) *Node      { return graph.Log(x) }
func Log1p(x *Node) *Node    { return graph.Log1p(x) }
func Expm1(x *Node) *Node    { return graph.Expm1(x) }
func Softplus(x *Node) *Node { return graph.Softplus(x) }

// Comparison and logic

func Equal(a, b *Node) *Node        { return graph.Equal(a, b) }
func GreaterEqual(a, b *Node) *Node { return graph.GreaterEqual(a, b) }
func LogicalAnd(a, b *Node) *Node   { return graph.LogicalAnd(a, b) }
func LogicalOr(a, b *Node) *Node    { return graph.LogicalOr(a, b) }
func Where(cond, x, y *Node) *Node  { return graph.Where(cond, x, y) }

// Assert returns a node with the value of x that fails evaluation, with an
// error wrapping ErrInvalidArgument, unless every element of cond is true.
// A constant false cond is a build error.
func Assert(x, cond *Node, format string, args ...any) *Node {
	return graph.Assert(x, cond, format, args...)
}

// AssertBroadcastable returns x after checking the Int32 shape vectors
// broadcast together, failing with ErrShapeMismatch.
func AssertBroadcastable(x *Node, shapes ...*Node) *Node {
	return graph.AssertBroadcastable(x, shapes...)
}

// Shapes

// Rank returns the rank of x as an Int32 scalar.
func Rank(x *Node) *Node { return graph.Rank(x) }

// ShapeOf returns the shape of x as an Int32 vector.
func ShapeOf(x *Node) *Node { return graph.ShapeOf(x) }

// Reshape reshapes x to the Int32 vector shape.
func Reshape(x, shape *Node) *Node { return graph.Reshape(x, shape) }

// ReshapeTo reshapes x to dims.
func ReshapeTo(x *Node, dims ...int) *Node { return graph.ReshapeTo(x, dims...) }

// Concat concatenates xs along axis.
func Concat(axis int, xs ...*Node) *Node { return graph.Concat(axis, xs...) }

// Gather selects elements of the vector x at indices.
func Gather(x, indices *Node) *Node { return graph.Gather(x, indices) }

// Range returns the Int32 vector [start, limit).
func Range(start, limit *Node) *Node { return graph.Range(start, limit) }

// Fill returns an array of the given shape with every element set to the scalar value.
func Fill(shape, value *Node) *Node { return graph.Fill(shape, value) }

// Cast converts x to dtype.
func Cast(x *Node, dtype tensor.DataType) *Node { return graph.Cast(x, dtype) }

// Reductions

// ReduceSum sums x over the Int32 vector of axes, removing them.
func ReduceSum(x, axes *Node) *Node { return graph.ReduceSum(x, axes) }

// ReduceSumAxes sums x over axes, removing them. Negative axes count from the end.
func ReduceSumAxes(x *Node, axes ...int) *Node { return graph.ReduceSumAxes(x, axes...) }

// Linear algebra, batched over leading axes

// MatVec returns a·x for a [..., M, N] and x [..., N].
func MatVec(a, x *Node) *Node { return graph.MatVec(a, x) }

// Solve returns x such that a·x = b, for square a.
func Solve(a, b *Node) *Node { return graph.Solve(a, b) }

// LogAbsDet returns log|det(a)| for square a.
func LogAbsDet(a *Node) *Node { return graph.LogAbsDet(a) }
