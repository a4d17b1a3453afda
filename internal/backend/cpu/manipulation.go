package cpu

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/tensor"
)

// Reshape returns a tensor with the same data but different shape.
// The result shares the input's storage.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.Reshaped(newShape)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Cat concatenates tensors along a dimension.
// All tensors must share dtype, rank and every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors given")
	}
	first := tensors[0]
	ndim := first.Rank()
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: invalid dim %d for %dD tensor", dim, ndim))
	}

	outShape := first.Shape().Clone()
	outShape[dim] = 0
	for _, t := range tensors {
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: dtype mismatch %s vs %s", first.DType(), t.DType()))
		}
		if t.Rank() != ndim {
			panic(fmt.Sprintf("cat: rank mismatch %d vs %d", ndim, t.Rank()))
		}
		for d := 0; d < ndim; d++ {
			if d != dim && t.Shape()[d] != first.Shape()[d] {
				panic(fmt.Sprintf("cat: shape mismatch %v vs %v at dim %d", first.Shape(), t.Shape(), d))
			}
		}
		outShape[dim] += t.Shape()[dim]
	}

	result := cpu.newResult("cat", outShape, first.DType())
	switch first.DType() {
	case tensor.Float32:
		catTyped(result.AsFloat32(), tensors, (*tensor.RawTensor).AsFloat32, outShape, dim)
	case tensor.Float64:
		catTyped(result.AsFloat64(), tensors, (*tensor.RawTensor).AsFloat64, outShape, dim)
	case tensor.Int32:
		catTyped(result.AsInt32(), tensors, (*tensor.RawTensor).AsInt32, outShape, dim)
	case tensor.Bool:
		catTyped(result.AsBool(), tensors, (*tensor.RawTensor).AsBool, outShape, dim)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", first.DType()))
	}
	return result
}

// catTyped copies contiguous blocks: for every outer index, each input
// contributes shape[dim]*inner consecutive elements.
func catTyped[T any](dst []T, tensors []*tensor.RawTensor, data func(*tensor.RawTensor) []T, outShape tensor.Shape, dim int) {
	outer := outShape[:dim].NumElements()
	inner := outShape[dim+1:].NumElements()

	pos := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			src := data(t)
			copy(dst[pos:pos+block], src[o*block:(o+1)*block])
			pos += block
		}
	}
}

// Cast converts a tensor to another data type.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return tensor.Cast(x, dtype)
}
