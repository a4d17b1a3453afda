package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/bijectors/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

// Helper to check float64 slices are equal within epsilon.
func float64SliceEqual(a, b []float64) bool {
	const epsilon = 1e-9
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) != math.IsNaN(b[i]) {
			return false
		}
		if math.Abs(a[i]-b[i]) > epsilon {
			return false
		}
	}
	return true
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
}

// TestCPUBackend_Add tests element-wise addition.
func TestCPUBackend_Add(t *testing.T) {
	backend := newTestBackend()

	t.Run("SameShape", func(t *testing.T) {
		a := tensor.MustFromValue([][]float32{{1, 2, 3}, {4, 5, 6}})
		b := tensor.MustFromValue([][]float32{{10, 11, 12}, {13, 14, 15}})

		result := backend.Add(a, b)
		expected := []float32{11, 13, 15, 17, 19, 21}
		got := result.AsFloat32()
		for i := range expected {
			if got[i] != expected[i] {
				t.Errorf("Add[%d]: expected %f, got %f", i, expected[i], got[i])
			}
		}
	})

	t.Run("Broadcast", func(t *testing.T) {
		a := tensor.MustFromValue([][]float64{{1}, {2}})
		b := tensor.MustFromValue([]float64{10, 20, 30})

		result := backend.Add(a, b)
		if !result.Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("Expected shape [2 3], got %v", result.Shape())
		}
		expected := []float64{11, 21, 31, 12, 22, 32}
		if !float64SliceEqual(result.AsFloat64(), expected) {
			t.Errorf("Expected %v, got %v", expected, result.AsFloat64())
		}
	})

	t.Run("Int32", func(t *testing.T) {
		result := backend.Add(tensor.FromInts([]int{1, 2}), tensor.Scalar(int32(3)))
		if got := result.Ints(); got[0] != 4 || got[1] != 5 {
			t.Errorf("Expected [4 5], got %v", got)
		}
	})

	t.Run("DTypeMismatchPanics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic for mismatched dtypes")
			}
		}()
		backend.Add(tensor.Scalar(float32(1)), tensor.Scalar(1.0))
	})
}

// TestCPUBackend_SubMulDiv tests the remaining arithmetic kernels.
func TestCPUBackend_SubMulDiv(t *testing.T) {
	backend := newTestBackend()
	a := tensor.MustFromValue([]float64{6, 8})
	b := tensor.MustFromValue(2.0)

	tests := []struct {
		name     string
		result   *tensor.RawTensor
		expected []float64
	}{
		{"Sub", backend.Sub(a, b), []float64{4, 6}},
		{"Mul", backend.Mul(a, b), []float64{12, 16}},
		{"Div", backend.Div(a, b), []float64{3, 4}},
	}
	for _, tt := range tests {
		if !float64SliceEqual(tt.result.AsFloat64(), tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.result.AsFloat64())
		}
	}
}

// TestCPUBackend_UnaryMath tests the floating point math kernels.
func TestCPUBackend_UnaryMath(t *testing.T) {
	backend := newTestBackend()
	x := tensor.MustFromValue([]float64{-1, 0, 2})

	tests := []struct {
		name     string
		fn       func(*tensor.RawTensor) *tensor.RawTensor
		expected []float64
	}{
		{"Neg", backend.Neg, []float64{1, 0, -2}},
		{"Abs", backend.Abs, []float64{1, 0, 2}},
		{"Exp", backend.Exp, []float64{math.Exp(-1), 1, math.Exp(2)}},
		{"Log", backend.Log, []float64{math.NaN(), math.Inf(-1), math.Log(2)}},
		{"Log1p", backend.Log1p, []float64{math.Inf(-1), 0, math.Log1p(2)}},
		{"Expm1", backend.Expm1, []float64{math.Expm1(-1), 0, math.Expm1(2)}},
		{"Softplus", backend.Softplus, []float64{math.Log1p(math.Exp(-1)), math.Log(2), math.Log1p(math.Exp(2))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(x).AsFloat64()
			for i := range tt.expected {
				if math.IsInf(tt.expected[i], 0) {
					if got[i] != tt.expected[i] {
						t.Errorf("[%d]: expected %v, got %v", i, tt.expected[i], got[i])
					}
					continue
				}
				if !float64SliceEqual(got[i:i+1], tt.expected[i:i+1]) {
					t.Errorf("[%d]: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

// TestCPUBackend_SoftplusExtremes checks softplus neither overflows nor underflows.
func TestCPUBackend_SoftplusExtremes(t *testing.T) {
	backend := newTestBackend()
	got := backend.Softplus(tensor.MustFromValue([]float64{1000, -1000})).AsFloat64()
	if got[0] != 1000 {
		t.Errorf("softplus(1000): expected 1000, got %v", got[0])
	}
	if got[1] < 0 || got[1] > 1e-300 {
		t.Errorf("softplus(-1000): expected ~0, got %v", got[1])
	}

	got32 := backend.Softplus(tensor.MustFromValue([]float32{100})).AsFloat32()
	if math.IsInf(float64(got32[0]), 0) {
		t.Errorf("softplus(100) overflowed in float32")
	}
}

// TestCPUBackend_Comparison tests comparison and boolean kernels.
func TestCPUBackend_Comparison(t *testing.T) {
	backend := newTestBackend()
	a := tensor.FromInts([]int{0, 1, 2})
	b := tensor.Scalar(int32(1))

	eq := backend.Equal(a, b).AsBool()
	if eq[0] || !eq[1] || eq[2] {
		t.Errorf("Equal: got %v", eq)
	}
	ge := backend.GreaterEqual(a, b).AsBool()
	if ge[0] || !ge[1] || !ge[2] {
		t.Errorf("GreaterEqual: got %v", ge)
	}
	and := backend.And(backend.Equal(a, b), backend.GreaterEqual(a, b)).AsBool()
	if and[0] || !and[1] || and[2] {
		t.Errorf("And: got %v", and)
	}
	or := backend.Or(backend.Equal(a, b), backend.GreaterEqual(a, b)).AsBool()
	if or[0] || !or[1] || !or[2] {
		t.Errorf("Or: got %v", or)
	}
}

// TestCPUBackend_Where tests three-way broadcasting selection.
func TestCPUBackend_Where(t *testing.T) {
	backend := newTestBackend()
	cond := tensor.MustFromValue([]bool{true, false})
	result := backend.Where(cond, tensor.FromInts([]int{1, 2}), tensor.Scalar(int32(9)))
	if got := result.Ints(); got[0] != 1 || got[1] != 9 {
		t.Errorf("Where: expected [1 9], got %v", got)
	}
}

// TestCPUBackend_Gather tests gathering from a vector, including negative indices.
func TestCPUBackend_Gather(t *testing.T) {
	backend := newTestBackend()
	x := tensor.FromInts([]int{5, 6, 7})
	result := backend.Gather(x, 0, tensor.FromInts([]int{2, 0, -1}))
	got := result.Ints()
	expected := []int{7, 5, 7}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Gather[%d]: expected %d, got %d", i, expected[i], got[i])
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out of range index")
		}
	}()
	backend.Gather(x, 0, tensor.FromInts([]int{3}))
}

// TestCPUBackend_SumDims tests multi-axis reductions.
func TestCPUBackend_SumDims(t *testing.T) {
	backend := newTestBackend()
	x := tensor.MustFromValue([][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}}) // [2, 2, 2]

	tests := []struct {
		name     string
		dims     []int
		shape    tensor.Shape
		expected []float64
	}{
		{"LastDim", []int{-1}, tensor.Shape{2, 2}, []float64{3, 7, 11, 15}},
		{"FirstAndLast", []int{0, 2}, tensor.Shape{2}, []float64{14, 22}},
		{"All", []int{0, 1, 2}, tensor.Shape{}, []float64{36}},
		{"None", nil, tensor.Shape{2, 2, 2}, []float64{1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := backend.SumDims(x, tt.dims)
			if !result.Shape().Equal(tt.shape) {
				t.Fatalf("Expected shape %v, got %v", tt.shape, result.Shape())
			}
			if !float64SliceEqual(result.AsFloat64(), tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, result.AsFloat64())
			}
		})
	}
}

// TestCPUBackend_Cat tests concatenation, including empty vectors.
func TestCPUBackend_Cat(t *testing.T) {
	backend := newTestBackend()

	result := backend.Cat([]*tensor.RawTensor{
		tensor.FromInts([]int{1, 2}),
		tensor.FromInts(nil),
		tensor.FromInts([]int{3}),
	}, 0)
	got := result.Ints()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Cat: expected [1 2 3], got %v", got)
	}

	m := backend.Cat([]*tensor.RawTensor{
		tensor.MustFromValue([][]float64{{1}, {2}}),
		tensor.MustFromValue([][]float64{{3, 4}, {5, 6}}),
	}, 1)
	if !float64SliceEqual(m.AsFloat64(), []float64{1, 3, 4, 2, 5, 6}) {
		t.Errorf("Cat along dim 1: got %v", m.AsFloat64())
	}
}

// TestCPUBackend_Reshape tests reshape and its element count check.
func TestCPUBackend_Reshape(t *testing.T) {
	backend := newTestBackend()
	x := tensor.MustFromValue([]float64{1, 2, 3, 4})
	if got := backend.Reshape(x, tensor.Shape{2, 1, 2}).Shape(); !got.Equal(tensor.Shape{2, 1, 2}) {
		t.Errorf("Reshape: got shape %v", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for incompatible reshape")
		}
	}()
	backend.Reshape(x, tensor.Shape{3})
}

// TestCPUBackend_Cast tests dtype conversion.
func TestCPUBackend_Cast(t *testing.T) {
	backend := newTestBackend()
	result := backend.Cast(tensor.FromInts([]int{1, 2}), tensor.Float32)
	if result.DType() != tensor.Float32 {
		t.Fatalf("Expected float32, got %s", result.DType())
	}
	if got := result.AsFloat32(); got[0] != 1 || got[1] != 2 {
		t.Errorf("Cast: got %v", got)
	}
}
