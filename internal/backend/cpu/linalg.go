package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/bijectors/internal/parallel"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Batched linear algebra kernels. Matrices occupy the two trailing axes and
// vectors the trailing axis; everything in front of them is a batch shape that
// broadcasts NumPy style. Float32 inputs are computed in float64 and converted
// back.

// batchPlan describes how two batched operands line up.
type batchPlan struct {
	bi         *broadcastIndexer
	numBatches int
}

func newBatchPlan(op string, aBatch, bBatch tensor.Shape) batchPlan {
	bi, err := newBroadcastIndexer(aBatch, bBatch)
	if err != nil {
		panic(fmt.Sprintf("%s: batch shapes: %v", op, err))
	}
	return batchPlan{bi: bi, numBatches: bi.outShape.NumElements()}
}

// checkFloat panics unless every operand is a floating point tensor of one dtype.
func checkFloat(op string, ts ...*tensor.RawTensor) {
	for _, t := range ts {
		if !t.DType().IsFloat() {
			panic(fmt.Sprintf("%s: expected floating point tensor, got %s", op, t.DType()))
		}
		if t.DType() != ts[0].DType() {
			panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, ts[0].DType(), t.DType()))
		}
	}
}

// fromFloat64s builds a tensor of the given dtype from float64 values.
func fromFloat64s(values []float64, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	raw, err := tensor.FromSlice(values, shape)
	if err != nil {
		panic(err.Error())
	}
	if dtype == tensor.Float64 {
		return raw
	}
	return tensor.Cast(raw, dtype)
}

// MatVec computes the batched matrix-vector product a·x.
//
// Shapes: a is [..., M, N], x is [..., N], result is [..., M].
func (cpu *CPUBackend) MatVec(a, x *tensor.RawTensor) *tensor.RawTensor {
	checkFloat("matvec", a, x)
	if a.Rank() < 2 || x.Rank() < 1 {
		panic(fmt.Sprintf("matvec: need a matrix and a vector, got shapes %v and %v", a.Shape(), x.Shape()))
	}
	aShape, xShape := a.Shape(), x.Shape()
	m, n := aShape[len(aShape)-2], aShape[len(aShape)-1]
	if xShape[len(xShape)-1] != n {
		panic(fmt.Sprintf("matvec: inner dimensions differ: %v and %v", aShape, xShape))
	}

	plan := newBatchPlan("matvec", aShape[:len(aShape)-2], xShape[:len(xShape)-1])
	aData, xData := a.Float64s(), x.Float64s()
	out := make([]float64, plan.numBatches*m)

	parallel.For(plan.numBatches, func(b int) {
		aOff := plan.bi.index(0, b) * m * n
		xOff := plan.bi.index(1, b) * n
		for i := 0; i < m; i++ {
			var sum float64
			row := aData[aOff+i*n : aOff+(i+1)*n]
			for j, v := range row {
				sum += v * xData[xOff+j]
			}
			out[b*m+i] = sum
		}
	}, cpu.parallel)

	outShape := append(plan.bi.outShape.Clone(), m)
	return fromFloat64s(out, outShape, a.DType())
}

// Solve solves a·x = b for x in every batch entry using an LU factorization.
//
// Shapes: a is [..., N, N], b is [..., N], result is [..., N].
// Exactly singular systems panic; ill-conditioned ones are solved and logged.
func (cpu *CPUBackend) Solve(a, b *tensor.RawTensor) *tensor.RawTensor {
	checkFloat("solve", a, b)
	n := squareSize("solve", a)
	bShape := b.Shape()
	if b.Rank() < 1 || bShape[len(bShape)-1] != n {
		panic(fmt.Sprintf("solve: right-hand side shape %v does not match matrix shape %v", bShape, a.Shape()))
	}

	aShape := a.Shape()
	plan := newBatchPlan("solve", aShape[:len(aShape)-2], bShape[:len(bShape)-1])
	outShape := append(plan.bi.outShape.Clone(), n)
	if n == 0 {
		return cpu.newResult("solve", outShape, a.DType())
	}

	aData, bData := a.Float64s(), b.Float64s()
	out := make([]float64, plan.numBatches*n)

	err := parallel.ForErr(plan.numBatches, func(batch int) error {
		aOff := plan.bi.index(0, batch) * n * n
		bOff := plan.bi.index(1, batch) * n

		var lu mat.LU
		lu.Factorize(mat.NewDense(n, n, append([]float64(nil), aData[aOff:aOff+n*n]...)))
		rhs := mat.NewVecDense(n, append([]float64(nil), bData[bOff:bOff+n]...))
		dst := mat.NewVecDense(n, out[batch*n:(batch+1)*n])
		if err := lu.SolveVecTo(dst, false, rhs); err != nil {
			var cond mat.Condition
			if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
				klog.Warningf("solve: batch %d is ill-conditioned: %v", batch, err)
				return nil
			}
			return errors.Wrapf(err, "solve: batch %d", batch)
		}
		return nil
	}, cpu.parallel)
	if err != nil {
		panic(err.Error())
	}
	return fromFloat64s(out, outShape, a.DType())
}

// LogAbsDet computes log|det(a)| for every matrix in the batch.
//
// Shapes: a is [..., N, N], result is [...]. Singular matrices yield -Inf.
func (cpu *CPUBackend) LogAbsDet(a *tensor.RawTensor) *tensor.RawTensor {
	checkFloat("logabsdet", a)
	n := squareSize("logabsdet", a)
	aShape := a.Shape()
	batchShape := aShape[:len(aShape)-2].Clone()
	numBatches := batchShape.NumElements()

	out := make([]float64, numBatches)
	if n > 0 {
		aData := a.Float64s()
		parallel.For(numBatches, func(batch int) {
			var lu mat.LU
			lu.Factorize(mat.NewDense(n, n, append([]float64(nil), aData[batch*n*n:(batch+1)*n*n]...)))
			out[batch], _ = lu.LogDet()
		}, cpu.parallel)
	}
	// The determinant of a 0x0 matrix is 1, so its log is the zero left in out.
	return fromFloat64s(out, batchShape, a.DType())
}

// squareSize returns N for a [..., N, N] tensor.
func squareSize(op string, a *tensor.RawTensor) int {
	shape := a.Shape()
	if len(shape) < 2 || shape[len(shape)-1] != shape[len(shape)-2] {
		panic(fmt.Sprintf("%s: expected [..., N, N] matrices, got shape %v", op, shape))
	}
	return shape[len(shape)-1]
}
