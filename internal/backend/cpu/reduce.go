package cpu

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/tensor"
)

// SumDims sums tensor elements over the given dimensions, removing them.
//
// Parameters:
//   - dims: dimensions to reduce (supports negative indexing: -1 = last dim).
//     An empty list returns a copy of x.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 3, 4}, tensor.Float32)
//	y := backend.SumDims(x, []int{-1})     // shape: [2, 3]
//	z := backend.SumDims(x, []int{0, 2})   // shape: [3]
func (cpu *CPUBackend) SumDims(x *tensor.RawTensor, dims []int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	reduced := make([]bool, ndim)
	for _, dim := range dims {
		d := dim
		if d < 0 {
			d += ndim
		}
		if d < 0 || d >= ndim {
			panic(fmt.Sprintf("sumdims: dimension %d out of range for %dD tensor", dim, ndim))
		}
		if reduced[d] {
			panic(fmt.Sprintf("sumdims: dimension %d reduced twice", dim))
		}
		reduced[d] = true
	}

	outShape := make(tensor.Shape, 0, ndim)
	for i, r := range reduced {
		if !r {
			outShape = append(outShape, shape[i])
		}
	}

	// keepShape has the reduced dims as size 1, so its strides address the output.
	keepShape := shape.Clone()
	for i, r := range reduced {
		if r {
			keepShape[i] = 1
		}
	}

	result := cpu.newResult("sumdims", outShape, x.DType())
	switch x.DType() {
	case tensor.Float32:
		sumDimsTyped(x.AsFloat32(), result.AsFloat32(), shape, keepShape)
	case tensor.Float64:
		sumDimsTyped(x.AsFloat64(), result.AsFloat64(), shape, keepShape)
	case tensor.Int32:
		sumDimsTyped(x.AsInt32(), result.AsInt32(), shape, keepShape)
	default:
		panic(fmt.Sprintf("sumdims: unsupported dtype %s", x.DType()))
	}
	return result
}

// sumDimsTyped accumulates every input element into its reduced output slot.
func sumDimsTyped[T number](data, result []T, shape, keepShape tensor.Shape) {
	strides := shape.ComputeStrides()
	outStrides := keepShape.ComputeStrides()

	for i, v := range data {
		outIdx := 0
		temp := i
		for d := range shape {
			coord := temp / strides[d]
			temp %= strides[d]
			if keepShape[d] != 1 {
				outIdx += coord * outStrides[d]
			}
		}
		result[outIdx] += v
	}
}
