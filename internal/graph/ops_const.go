package graph

import (
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// Const creates a constant node from a Go scalar, a (possibly nested) slice,
// or a *tensor.RawTensor. See tensor.FromValue for the accepted values.
// RawTensors are used as is and must not be modified afterwards.
func Const(g *Graph, value any) *Node {
	if !g.Ok() {
		return g.InvalidNode()
	}
	raw, err := tensor.FromValue(value)
	if err != nil {
		g.SetError(errors.Wrapf(ErrInvalidArgument, "Const: %v", err))
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:    "const",
		dtype: raw.DType(),
		value: raw,
	})
}

// Scalar creates a 0-D constant of the given dtype.
func Scalar(g *Graph, dtype tensor.DataType, value float64) *Node {
	if !g.Ok() {
		return g.InvalidNode()
	}
	if dtype == tensor.Invalid {
		g.SetErrorf("Scalar: invalid dtype")
		return g.InvalidNode()
	}
	return Const(g, tensor.Full(tensor.Shape{}, dtype, value))
}

// ScalarLike creates a 0-D constant with the dtype of x.
func ScalarLike(x *Node, value float64) *Node {
	g, ok := checkInputs("ScalarLike", x)
	if !ok {
		return g.InvalidNode()
	}
	return Scalar(g, x.dtype, value)
}

// Int creates a 0-D Int32 constant.
func Int(g *Graph, value int) *Node {
	return Const(g, tensor.Scalar(int32(value))) //nolint:gosec // G115: ranks and dims fit in int32.
}

// Ints creates a 1-D Int32 constant.
func Ints(g *Graph, values ...int) *Node {
	return Const(g, tensor.FromInts(values))
}

// Placeholder creates a node whose value is supplied at evaluation time
// through Feeds. shape may be partially or entirely unknown.
func Placeholder(g *Graph, name string, dtype tensor.DataType, shape StaticShape) *Node {
	if !g.Ok() {
		return g.InvalidNode()
	}
	if dtype == tensor.Invalid {
		g.SetErrorf("Placeholder(%q): invalid dtype", name)
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:    opPlaceholder,
		name:  name,
		dtype: dtype,
		shape: shape,
	})
}

const opPlaceholder = "placeholder"

// IsPlaceholder reports whether the node was created by Placeholder.
func (n *Node) IsPlaceholder() bool { return n.op == opPlaceholder }
