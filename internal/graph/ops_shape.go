package graph

import (
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// Rank returns the rank of x as an Int32 scalar. It is a constant whenever the
// rank of x is statically known.
func Rank(x *Node) *Node {
	g, ok := checkInputs("Rank", x)
	if !ok {
		return g.InvalidNode()
	}
	spec := opSpec{
		op:     "Rank",
		inputs: []*Node{x},
		dtype:  tensor.Int32,
		shape:  KnownShape(),
		kernel: func(_ tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return tensor.Scalar(int32(in[0].Rank())) //nolint:gosec // G115: rank fits in int32.
		},
	}
	if rank, known := x.Rank(); known {
		spec.value = tensor.Scalar(int32(rank)) //nolint:gosec // G115: rank fits in int32.
	}
	return g.addNode(spec)
}

// ShapeOf returns the shape of x as an Int32 vector. It is a constant whenever
// the shape of x is fully defined.
func ShapeOf(x *Node) *Node {
	g, ok := checkInputs("ShapeOf", x)
	if !ok {
		return g.InvalidNode()
	}
	shape := KnownShape(UnknownDim)
	if rank, known := x.Rank(); known {
		shape = KnownShape(rank)
	}
	spec := opSpec{
		op:     "ShapeOf",
		inputs: []*Node{x},
		dtype:  tensor.Int32,
		shape:  shape,
		kernel: func(_ tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return tensor.FromInts(in[0].Shape())
		},
	}
	if dims, known := x.shape.Shape(); known {
		spec.value = tensor.FromInts(dims)
	}
	return g.addNode(spec)
}

// checkShapeVector records an error unless n is an Int32 node of rank 1 (or
// unknown rank).
func checkShapeVector(g *Graph, op, what string, n *Node) bool {
	if n.dtype != tensor.Int32 {
		g.SetError(errors.Wrapf(ErrDTypeMismatch, "%s: %s must be int32, got %s", op, what, n.dtype))
		return false
	}
	if rank, known := n.Rank(); known && rank != 1 {
		g.SetError(errors.Wrapf(ErrShapeMismatch, "%s: %s must be a vector, got shape %s", op, what, n.shape))
		return false
	}
	return true
}

// checkScalar records an error unless n is a scalar of the given dtype.
func checkScalar(g *Graph, op, what string, n *Node, dtype tensor.DataType) bool {
	if n.dtype != dtype {
		g.SetError(errors.Wrapf(ErrDTypeMismatch, "%s: %s must be %s, got %s", op, what, dtype, n.dtype))
		return false
	}
	if rank, known := n.Rank(); known && rank != 0 {
		g.SetError(errors.Wrapf(ErrShapeMismatch, "%s: %s must be a scalar, got shape %s", op, what, n.shape))
		return false
	}
	return true
}

// shapeFromVector returns the static shape described by an Int32 shape vector node.
func shapeFromVector(v *Node) StaticShape {
	if values, ok := v.IntValues(); ok {
		return KnownShape(values...)
	}
	if length, ok := v.shape.Dim(0); ok {
		return UnknownDims(length)
	}
	return UnknownShape()
}

// Reshape returns x with the shape given by the Int32 vector shape. The number
// of elements must not change.
func Reshape(x, shape *Node) *Node {
	g, ok := checkInputs("Reshape", x, shape)
	if !ok {
		return g.InvalidNode()
	}
	if !checkShapeVector(g, "Reshape", "shape", shape) {
		return g.InvalidNode()
	}
	outShape := shapeFromVector(shape)
	if values, ok := shape.IntValues(); ok {
		for _, d := range values {
			if d < 0 {
				g.SetError(errors.Wrapf(ErrInvalidArgument, "Reshape: negative dimension in %v", values))
				return g.InvalidNode()
			}
		}
		if from, ok := x.shape.Shape(); ok && from.NumElements() != tensor.Shape(values).NumElements() {
			g.SetError(errors.Wrapf(ErrShapeMismatch, "Reshape: cannot reshape %v into %v", from, values))
			return g.InvalidNode()
		}
	}
	return g.addNode(opSpec{
		op:     "Reshape",
		inputs: []*Node{x, shape},
		dtype:  x.dtype,
		shape:  outShape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			newShape := tensor.Shape(in[1].Ints())
			if err := newShape.Validate(); err != nil {
				panic(errors.Wrapf(ErrInvalidArgument, "Reshape: %v", err))
			}
			if newShape.NumElements() != in[0].NumElements() {
				panic(errors.Wrapf(ErrShapeMismatch, "Reshape: cannot reshape %v into %v", in[0].Shape(), newShape))
			}
			return backend.Reshape(in[0], newShape)
		},
	})
}

// ReshapeTo is Reshape with a shape given as Go ints.
func ReshapeTo(x *Node, dims ...int) *Node {
	g, ok := checkInputs("ReshapeTo", x)
	if !ok {
		return g.InvalidNode()
	}
	return Reshape(x, Ints(g, dims...))
}

// Concat concatenates nodes along axis. All nodes must share dtype and rank;
// a negative axis requires a statically known rank.
func Concat(axis int, xs ...*Node) *Node {
	if len(xs) == 0 {
		panic("Concat: no input nodes")
	}
	g, ok := checkInputs("Concat", xs...)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, "Concat", nil, xs...) {
		return g.InvalidNode()
	}

	rank, rankKnown := -1, false
	for _, x := range xs {
		if r, known := x.Rank(); known {
			if rankKnown && r != rank {
				g.SetError(errors.Wrapf(ErrShapeMismatch, "Concat: inputs have ranks %d and %d", rank, r))
				return g.InvalidNode()
			}
			rank, rankKnown = r, true
		}
	}
	if axis < 0 {
		if !rankKnown {
			g.SetErrorf("Concat: negative axis %d requires a known rank", axis)
			return g.InvalidNode()
		}
		axis += rank
	}
	if rankKnown && (axis < 0 || axis >= rank) {
		g.SetError(errors.Wrapf(ErrInvalidArgument, "Concat: axis %d out of range for rank %d", axis, rank))
		return g.InvalidNode()
	}

	outShape := UnknownShape()
	if rankKnown {
		dims := UnknownDims(rank).dims
		dims[axis] = 0
		for _, x := range xs {
			for d := 0; d < rank; d++ {
				v, known := x.shape.Dim(d)
				switch {
				case d == axis && known && dims[axis] != UnknownDim:
					dims[axis] += v
				case d == axis:
					dims[axis] = UnknownDim
				case known && dims[d] != UnknownDim && dims[d] != v:
					g.SetError(errors.Wrapf(ErrShapeMismatch, "Concat: dimension %d differs (%d vs %d)", d, dims[d], v))
					return g.InvalidNode()
				case known:
					dims[d] = v
				}
			}
		}
		outShape = KnownShape(dims...)
	}

	return g.addNode(opSpec{
		op:     "Concat",
		inputs: xs,
		dtype:  xs[0].dtype,
		shape:  outShape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			first := in[0].Shape()
			for _, t := range in[1:] {
				if t.Rank() != len(first) {
					panic(errors.Wrapf(ErrShapeMismatch, "Concat: inputs have ranks %d and %d", len(first), t.Rank()))
				}
				for d := range first {
					if d != axis && t.Shape()[d] != first[d] {
						panic(errors.Wrapf(ErrShapeMismatch, "Concat: shapes %v and %v differ off axis %d", first, t.Shape(), axis))
					}
				}
			}
			return backend.Cat(in, axis)
		},
	})
}

// Gather returns the elements of the vector x at the given Int32 indices.
// Negative indices count from the end.
func Gather(x, indices *Node) *Node {
	g, ok := checkInputs("Gather", x, indices)
	if !ok {
		return g.InvalidNode()
	}
	if rank, known := x.Rank(); known && rank != 1 {
		g.SetError(errors.Wrapf(ErrShapeMismatch, "Gather: x must be a vector, got shape %s", x.shape))
		return g.InvalidNode()
	}
	if !checkShapeVector(g, "Gather", "indices", indices) {
		return g.InvalidNode()
	}
	outShape := KnownShape(UnknownDim)
	if _, known := indices.Rank(); known {
		outShape = indices.shape
	}
	return g.addNode(opSpec{
		op:     "Gather",
		inputs: []*Node{x, indices},
		dtype:  x.dtype,
		shape:  outShape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			size := in[0].Shape()[0]
			for _, i := range in[1].Ints() {
				if i < -size || i >= size {
					panic(errors.Wrapf(ErrInvalidArgument, "Gather: index %d out of range for size %d", i, size))
				}
			}
			return backend.Gather(in[0], 0, in[1])
		},
	})
}

// Range returns the Int32 vector [start, start+1, ..., limit-1]. It is empty
// when limit <= start.
func Range(start, limit *Node) *Node {
	g, ok := checkInputs("Range", start, limit)
	if !ok {
		return g.InvalidNode()
	}
	if !checkScalar(g, "Range", "start", start, tensor.Int32) || !checkScalar(g, "Range", "limit", limit, tensor.Int32) {
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     "Range",
		inputs: []*Node{start, limit},
		dtype:  tensor.Int32,
		shape:  KnownShape(UnknownDim),
		kernel: func(_ tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			from, to := int(in[0].Item()), int(in[1].Item())
			values := make([]int, 0, max(to-from, 0))
			for i := from; i < to; i++ {
				values = append(values, i)
			}
			return tensor.FromInts(values)
		},
	})
}

// Fill returns a tensor of the shape given by the Int32 vector shape, with
// every element equal to the scalar value.
func Fill(shape, value *Node) *Node {
	g, ok := checkInputs("Fill", shape, value)
	if !ok {
		return g.InvalidNode()
	}
	if !checkShapeVector(g, "Fill", "shape", shape) {
		return g.InvalidNode()
	}
	if rank, known := value.Rank(); known && rank != 0 {
		g.SetError(errors.Wrapf(ErrShapeMismatch, "Fill: value must be a scalar, got shape %s", value.shape))
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     "Fill",
		inputs: []*Node{shape, value},
		dtype:  value.dtype,
		shape:  shapeFromVector(shape),
		kernel: func(_ tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			dims := tensor.Shape(in[0].Ints())
			if err := dims.Validate(); err != nil {
				panic(errors.Wrapf(ErrInvalidArgument, "Fill: %v", err))
			}
			return tensor.Full(dims, in[1].DType(), in[1].Item())
		},
	})
}

// Cast converts x to dtype.
func Cast(x *Node, dtype tensor.DataType) *Node {
	g, ok := checkInputs("Cast", x)
	if !ok {
		return g.InvalidNode()
	}
	if x.dtype == dtype {
		return x
	}
	if dtype == tensor.Invalid {
		g.SetErrorf("Cast: invalid dtype")
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     "Cast",
		inputs: []*Node{x},
		dtype:  dtype,
		shape:  x.shape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return backend.Cast(in[0], dtype)
		},
	})
}
