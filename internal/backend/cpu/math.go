package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/bijectors/internal/tensor"
)

// Out-of-domain inputs (e.g. log of a negative number) produce NaN or ±Inf
// following IEEE 754; math kernels never panic on values.

// Neg computes element-wise negation: -x.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() == tensor.Int32 {
		result := cpu.newResult("neg", x.Shape(), tensor.Int32)
		dst := result.AsInt32()
		for i, v := range x.AsInt32() {
			dst[i] = -v
		}
		return result
	}
	return cpu.unaryFloat("neg", x, func(v float64) float64 { return -v })
}

// Abs computes element-wise absolute value: |x|.
func (cpu *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat("abs", x, math.Abs)
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat("exp", x, math.Exp)
}

// Log computes element-wise natural logarithm: ln(x).
// Non-positive inputs yield NaN (x < 0) or -Inf (x == 0).
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat("log", x, math.Log)
}

// Log1p computes element-wise log(1 + x), accurate for x near zero.
func (cpu *CPUBackend) Log1p(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat("log1p", x, math.Log1p)
}

// Expm1 computes element-wise exp(x) - 1, accurate for x near zero.
func (cpu *CPUBackend) Expm1(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat("expm1", x, math.Expm1)
}

// Softplus computes element-wise log(1 + exp(x)).
//
// Uses max(x, 0) + log1p(exp(-|x|)), which neither overflows for large
// positive x nor loses the result to underflow for large negative x.
func (cpu *CPUBackend) Softplus(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryFloat("softplus", x, softplus)
}

func softplus(v float64) float64 {
	return math.Max(v, 0) + math.Log1p(math.Exp(-math.Abs(v)))
}

// unaryFloat applies fn element-wise to a float32 or float64 tensor.
// Float32 values are computed in float64 and rounded back.
func (cpu *CPUBackend) unaryFloat(op string, x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	result := cpu.newResult(op, x.Shape(), x.DType())

	switch x.DType() {
	case tensor.Float32:
		src := x.AsFloat32()
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(fn(float64(v)))
		}
	case tensor.Float64:
		src := x.AsFloat64()
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = fn(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, x.DType()))
	}

	return result
}
