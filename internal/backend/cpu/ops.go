package cpu

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/tensor"
)

// number is the set of element types arithmetic kernels accept.
type number interface {
	~float32 | ~float64 | ~int32
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("add", a, b, addFn[float32], addFn[float64], addFn[int32])
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("sub", a, b, subFn[float32], subFn[float64], subFn[int32])
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("mul", a, b, mulFn[float32], mulFn[float64], mulFn[int32])
}

// Div performs element-wise division with broadcasting.
// Float division by zero follows IEEE 754; integer division by zero panics.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.arith("div", a, b, divFn[float32], divFn[float64], divFn[int32])
}

func addFn[T number](x, y T) T { return x + y }
func subFn[T number](x, y T) T { return x - y }
func mulFn[T number](x, y T) T { return x * y }
func divFn[T number](x, y T) T { return x / y }

// arith dispatches a broadcasting binary operation on the operands' dtype.
func (cpu *CPUBackend) arith(
	op string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
	i32 func(x, y int32) int32,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
	bi, err := newBroadcastIndexer(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result := cpu.newResult(op, bi.outShape, a.DType())
	switch a.DType() {
	case tensor.Float32:
		applyBinary(bi, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
	case tensor.Float64:
		applyBinary(bi, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
	case tensor.Int32:
		applyBinary(bi, result.AsInt32(), a.AsInt32(), b.AsInt32(), i32)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
	return result
}

// applyBinary computes dst[i] = fn(a[ia], b[ib]) over the broadcast shape.
func applyBinary[T, R any](bi *broadcastIndexer, dst []R, a, b []T, fn func(x, y T) R) {
	if bi.identity[0] && bi.identity[1] {
		// Fast path: same shape
		for i := range dst {
			dst[i] = fn(a[i], b[i])
		}
		return
	}
	for i := range dst {
		dst[i] = fn(a[bi.index(0, i)], b[bi.index(1, i)])
	}
}
