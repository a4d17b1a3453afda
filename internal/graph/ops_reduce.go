package graph

import (
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// ReduceSum sums x over the axes listed in the Int32 vector axes, removing
// them. Negative axes count from the end; an empty list returns x unchanged.
func ReduceSum(x, axes *Node) *Node {
	g, ok := checkInputs("ReduceSum", x, axes)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, "ReduceSum", numberDTypes, x) || !checkShapeVector(g, "ReduceSum", "axes", axes) {
		return g.InvalidNode()
	}

	outShape := UnknownShape()
	rank, rankKnown := x.Rank()
	if values, ok := axes.IntValues(); ok && rankKnown {
		normalized, err := normalizeAxes(values, rank)
		if err != nil {
			g.SetError(errors.WithMessage(err, "ReduceSum"))
			return g.InvalidNode()
		}
		var dims []int
		for i, d := range x.shape.dims {
			if !normalized[i] {
				dims = append(dims, d)
			}
		}
		outShape = KnownShape(dims...)
	} else if n, ok := axes.shape.Dim(0); ok && rankKnown {
		outShape = UnknownDims(rank - n)
	}

	return g.addNode(opSpec{
		op:     "ReduceSum",
		inputs: []*Node{x, axes},
		dtype:  x.dtype,
		shape:  outShape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			if _, err := normalizeAxes(in[1].Ints(), in[0].Rank()); err != nil {
				panic(err)
			}
			return backend.SumDims(in[0], in[1].Ints())
		},
	})
}

// ReduceSumAxes is ReduceSum with axes given as Go ints.
func ReduceSumAxes(x *Node, axes ...int) *Node {
	g, ok := checkInputs("ReduceSumAxes", x)
	if !ok {
		return g.InvalidNode()
	}
	return ReduceSum(x, Ints(g, axes...))
}

// normalizeAxes validates axes against rank, returning the set of reduced axes.
func normalizeAxes(axes []int, rank int) ([]bool, error) {
	reduced := make([]bool, rank)
	for _, axis := range axes {
		a := axis
		if a < 0 {
			a += rank
		}
		if a < 0 || a >= rank {
			return nil, errors.Wrapf(ErrInvalidArgument, "axis %d out of range for rank %d", axis, rank)
		}
		if reduced[a] {
			return nil, errors.Wrapf(ErrInvalidArgument, "axis %d listed twice", axis)
		}
		reduced[a] = true
	}
	return reduced, nil
}
