package graph

import (
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// Batched linear algebra. Matrices are the two trailing axes, vectors the
// trailing axis, and leading batch axes broadcast.

// matrixBatchShape splits a static matrix shape into batch shape and (rows, cols).
// rows and cols may be UnknownDim. ok is false when the rank is unknown.
func matrixBatchShape(s StaticShape) (batch StaticShape, rows, cols int, ok bool) {
	rank, known := s.Rank()
	if !known {
		return UnknownShape(), UnknownDim, UnknownDim, false
	}
	return s.slice(0, rank-2), s.dims[rank-2], s.dims[rank-1], true
}

// checkMinRank records an error when n is statically known to have rank < minRank.
func checkMinRank(g *Graph, op, what string, n *Node, minRank int) bool {
	if rank, known := n.Rank(); known && rank < minRank {
		g.SetError(errors.Wrapf(ErrShapeMismatch, "%s: %s needs rank >= %d, got shape %s", op, what, minRank, n.shape))
		return false
	}
	return true
}

// dimsConflict reports whether two possibly unknown dimensions are known to differ.
func dimsConflict(a, b int) bool {
	return a != UnknownDim && b != UnknownDim && a != b
}

// matVecShape infers [..., M] from a [..., M, N] and x [..., N].
func matVecShape(op string, a, x StaticShape, requireSquare bool) (StaticShape, error) {
	aBatch, rows, cols, aKnown := matrixBatchShape(a)
	xRank, xKnown := x.Rank()
	if aKnown && requireSquare && dimsConflict(rows, cols) {
		return UnknownShape(), errors.Wrapf(ErrShapeMismatch, "%s: matrix must be square, got shape %s", op, a)
	}
	if !aKnown || !xKnown {
		return UnknownShape(), nil
	}
	if dimsConflict(cols, x.dims[xRank-1]) {
		return UnknownShape(), errors.Wrapf(ErrShapeMismatch, "%s: matrix %s and vector %s have different inner dimensions", op, a, x)
	}
	batch, err := broadcastStatic(aBatch, x.slice(0, xRank-1))
	if err != nil {
		return UnknownShape(), errors.WithMessage(err, op)
	}
	out := rows
	if out == UnknownDim && requireSquare {
		out = x.dims[xRank-1]
	}
	return KnownShape(append(batch.Dims(), out)...), nil
}

// checkMatVecValues is the evaluation-time equivalent of matVecShape.
func checkMatVecValues(op string, a, x *tensor.RawTensor, requireSquare bool) {
	aShape, xShape := a.Shape(), x.Shape()
	if a.Rank() < 2 || x.Rank() < 1 {
		panic(errors.Wrapf(ErrShapeMismatch, "%s: need a matrix and a vector, got shapes %v and %v", op, aShape, xShape))
	}
	rows, cols := aShape[len(aShape)-2], aShape[len(aShape)-1]
	if requireSquare && rows != cols {
		panic(errors.Wrapf(ErrShapeMismatch, "%s: matrix must be square, got shape %v", op, aShape))
	}
	if cols != xShape[len(xShape)-1] {
		panic(errors.Wrapf(ErrShapeMismatch, "%s: matrix %v and vector %v have different inner dimensions", op, aShape, xShape))
	}
	if _, _, err := tensor.BroadcastShapes(aShape[:len(aShape)-2], xShape[:len(xShape)-1]); err != nil {
		panic(errors.Wrapf(ErrShapeMismatch, "%s: batch shapes: %v", op, err))
	}
}

func matVecOp(op string, a, x *Node, requireSquare bool,
	fn func(backend tensor.Backend, a, x *tensor.RawTensor) *tensor.RawTensor) *Node {
	g, ok := checkInputs(op, a, x)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, op, floatDTypes, a, x) ||
		!checkMinRank(g, op, "matrix", a, 2) || !checkMinRank(g, op, "vector", x, 1) {
		return g.InvalidNode()
	}
	shape, err := matVecShape(op, a.shape, x.shape, requireSquare)
	if err != nil {
		g.SetError(err)
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     op,
		inputs: []*Node{a, x},
		dtype:  a.dtype,
		shape:  shape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			checkMatVecValues(op, in[0], in[1], requireSquare)
			return fn(backend, in[0], in[1])
		},
	})
}

// MatVec returns the batched matrix-vector product a·x for a [..., M, N] and
// x [..., N], shaped [..., M].
func MatVec(a, x *Node) *Node {
	return matVecOp("MatVec", a, x, false, tensor.Backend.MatVec)
}

// Solve returns x such that a·x = b, for square a [..., N, N] and b [..., N].
// The system is solved by LU factorization, never by inverting a.
func Solve(a, b *Node) *Node {
	return matVecOp("Solve", a, b, true, tensor.Backend.Solve)
}

// LogAbsDet returns log|det(a)| for square a [..., N, N], shaped [...].
// Singular matrices yield -Inf.
func LogAbsDet(a *Node) *Node {
	g, ok := checkInputs("LogAbsDet", a)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, "LogAbsDet", floatDTypes, a) || !checkMinRank(g, "LogAbsDet", "matrix", a, 2) {
		return g.InvalidNode()
	}
	batch, rows, cols, known := matrixBatchShape(a.shape)
	if known && dimsConflict(rows, cols) {
		g.SetError(errors.Wrapf(ErrShapeMismatch, "LogAbsDet: matrix must be square, got shape %s", a.shape))
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     "LogAbsDet",
		inputs: []*Node{a},
		dtype:  a.dtype,
		shape:  batch,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			shape := in[0].Shape()
			if len(shape) < 2 || shape[len(shape)-1] != shape[len(shape)-2] {
				panic(errors.Wrapf(ErrShapeMismatch, "LogAbsDet: matrix must be square, got shape %v", shape))
			}
			return backend.LogAbsDet(in[0])
		},
	})
}
