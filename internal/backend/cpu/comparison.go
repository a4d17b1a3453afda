package cpu

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/tensor"
)

// Comparison operations - return bool tensors.

// Equal returns a == b element-wise.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	bi, result := cpu.prepareComparison("equal", a, b)
	dst := result.AsBool()
	switch a.DType() {
	case tensor.Float32:
		applyBinary(bi, dst, a.AsFloat32(), b.AsFloat32(), func(x, y float32) bool { return x == y })
	case tensor.Float64:
		applyBinary(bi, dst, a.AsFloat64(), b.AsFloat64(), func(x, y float64) bool { return x == y })
	case tensor.Int32:
		applyBinary(bi, dst, a.AsInt32(), b.AsInt32(), func(x, y int32) bool { return x == y })
	case tensor.Bool:
		applyBinary(bi, dst, a.AsBool(), b.AsBool(), func(x, y bool) bool { return x == y })
	default:
		panic(fmt.Sprintf("equal: unsupported dtype %s", a.DType()))
	}
	return result
}

// GreaterEqual returns a >= b element-wise.
func (cpu *CPUBackend) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	bi, result := cpu.prepareComparison("greaterEqual", a, b)
	dst := result.AsBool()
	switch a.DType() {
	case tensor.Float32:
		applyBinary(bi, dst, a.AsFloat32(), b.AsFloat32(), func(x, y float32) bool { return x >= y })
	case tensor.Float64:
		applyBinary(bi, dst, a.AsFloat64(), b.AsFloat64(), func(x, y float64) bool { return x >= y })
	case tensor.Int32:
		applyBinary(bi, dst, a.AsInt32(), b.AsInt32(), func(x, y int32) bool { return x >= y })
	default:
		panic(fmt.Sprintf("greaterEqual: unsupported dtype %s", a.DType()))
	}
	return result
}

// And returns logical a AND b element-wise on bool tensors.
func (cpu *CPUBackend) And(a, b *tensor.RawTensor) *tensor.RawTensor {
	bi, result := cpu.prepareComparison("and", a, b)
	applyBinary(bi, result.AsBool(), a.AsBool(), b.AsBool(), func(x, y bool) bool { return x && y })
	return result
}

// Or returns logical a OR b element-wise on bool tensors.
func (cpu *CPUBackend) Or(a, b *tensor.RawTensor) *tensor.RawTensor {
	bi, result := cpu.prepareComparison("or", a, b)
	applyBinary(bi, result.AsBool(), a.AsBool(), b.AsBool(), func(x, y bool) bool { return x || y })
	return result
}

// prepareComparison validates operands and allocates the bool result.
func (cpu *CPUBackend) prepareComparison(op string, a, b *tensor.RawTensor) (*broadcastIndexer, *tensor.RawTensor) {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
	bi, err := newBroadcastIndexer(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	return bi, cpu.newResult(op, bi.outShape, tensor.Bool)
}
