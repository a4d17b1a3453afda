package cpu

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/tensor"
)

// Where selects elements from x where condition is true, from y otherwise.
// All three operands broadcast together.
func (cpu *CPUBackend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("where: condition must be bool, got %s", condition.DType()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("where: dtype mismatch %s vs %s", x.DType(), y.DType()))
	}
	bi, err := newBroadcastIndexer(condition.Shape(), x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("where: %v", err))
	}

	result := cpu.newResult("where", bi.outShape, x.DType())
	cond := condition.AsBool()
	switch x.DType() {
	case tensor.Float32:
		whereTyped(bi, cond, result.AsFloat32(), x.AsFloat32(), y.AsFloat32())
	case tensor.Float64:
		whereTyped(bi, cond, result.AsFloat64(), x.AsFloat64(), y.AsFloat64())
	case tensor.Int32:
		whereTyped(bi, cond, result.AsInt32(), x.AsInt32(), y.AsInt32())
	case tensor.Bool:
		whereTyped(bi, cond, result.AsBool(), x.AsBool(), y.AsBool())
	default:
		panic(fmt.Sprintf("where: unsupported dtype %s", x.DType()))
	}
	return result
}

func whereTyped[T any](bi *broadcastIndexer, cond []bool, dst, x, y []T) {
	for i := range dst {
		if cond[bi.index(0, i)] {
			dst[i] = x[bi.index(1, i)]
		} else {
			dst[i] = y[bi.index(2, i)]
		}
	}
}

// Gather selects elements along dim using index tensor.
// Similar to torch.gather(input, dim, index).
//
// The index tensor must have dtype int32 and its shape must match input shape
// except at the gather dimension, where it can differ. Negative indices count
// from the end of the gathered dimension.
//
// Example:
//
//	input: [3, 4, 5] with values
//	index: [3, 4, 2] (int32 indices)
//	dim: 2
//	output: [3, 4, 2] where output[i,j,k] = input[i,j,index[i,j,k]]
func (cpu *CPUBackend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("gather: index tensor must have dtype int32, got %s", index.DType()))
	}

	ndim := x.Rank()
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("gather: invalid dim %d for %dD tensor", dim, ndim))
	}

	indexShape := index.Shape()
	if len(indexShape) != ndim {
		panic(fmt.Sprintf("gather: index rank %d != input rank %d", len(indexShape), ndim))
	}
	for i := 0; i < ndim; i++ {
		if i != dim && indexShape[i] != x.Shape()[i] {
			panic(fmt.Sprintf("gather: index shape mismatch at dim %d: %d != %d",
				i, indexShape[i], x.Shape()[i]))
		}
	}

	result := cpu.newResult("gather", indexShape, x.DType())
	indices := index.AsInt32()
	switch x.DType() {
	case tensor.Float32:
		gatherTyped(result.AsFloat32(), x.AsFloat32(), indices, x.Shape(), indexShape, dim)
	case tensor.Float64:
		gatherTyped(result.AsFloat64(), x.AsFloat64(), indices, x.Shape(), indexShape, dim)
	case tensor.Int32:
		gatherTyped(result.AsInt32(), x.AsInt32(), indices, x.Shape(), indexShape, dim)
	case tensor.Bool:
		gatherTyped(result.AsBool(), x.AsBool(), indices, x.Shape(), indexShape, dim)
	default:
		panic(fmt.Sprintf("gather: unsupported dtype %s", x.DType()))
	}
	return result
}

func gatherTyped[T any](dst, src []T, indices []int32, srcShape, dstShape tensor.Shape, dim int) {
	dstStrides := dstShape.ComputeStrides()
	srcStrides := srcShape.ComputeStrides()
	size := srcShape[dim]

	for i := range dst {
		srcIdx := 0
		rem := i
		for d := range dstStrides {
			coord := rem / dstStrides[d]
			rem %= dstStrides[d]
			if d == dim {
				coord = int(indices[i])
				if coord < 0 {
					coord += size
				}
				if coord < 0 || coord >= size {
					panic(fmt.Sprintf("gather: index %d out of range for dimension of size %d", indices[i], size))
				}
			}
			srcIdx += coord * srcStrides[d]
		}
		dst[i] = src[srcIdx]
	}
}
