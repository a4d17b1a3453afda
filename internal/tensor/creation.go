package tensor

import (
	"fmt"
	"reflect"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros(Shape{3, 4}, Float32)
func Zeros(shape Shape, dtype DataType) *RawTensor {
	raw, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return raw
}

// Full creates a tensor filled with a specific value, converted to dtype.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, Float64, 3.14)
func Full(shape Shape, dtype DataType, value float64) *RawTensor {
	t := Zeros(shape, dtype)
	switch dtype {
	case Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(value)
		}
	case Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = value
		}
	case Int32:
		data := t.AsInt32()
		for i := range data {
			data[i] = int32(value)
		}
	case Bool:
		data := t.AsBool()
		for i := range data {
			data[i] = value != 0
		}
	}
	return t
}

// Scalar creates a 0-D tensor holding v.
func Scalar[T DType](v T) *RawTensor {
	t := Zeros(Shape{}, inferDataType(v))
	switch data := t.data.(type) {
	case []float32:
		data[0] = any(v).(float32)
	case []float64:
		data[0] = any(v).(float64)
	case []int32:
		data[0] = any(v).(int32)
	case []bool:
		data[0] = any(v).(bool)
	}
	return t
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		return nil, err
	}

	switch dst := raw.data.(type) {
	case []float32:
		copy(dst, any(data).([]float32))
	case []float64:
		copy(dst, any(data).([]float64))
	case []int32:
		copy(dst, any(data).([]int32))
	case []bool:
		copy(dst, any(data).([]bool))
	}
	return raw, nil
}

// FromInts creates an Int32 vector from a slice of ints.
func FromInts(values []int) *RawTensor {
	t := Zeros(Shape{len(values)}, Int32)
	data := t.AsInt32()
	for i, v := range values {
		data[i] = int32(v) //nolint:gosec // G115: shape values fit in int32.
	}
	return t
}

// Eye creates a 2D identity matrix.
//
// Example:
//
//	t := tensor.Eye(3, Float32) // 3x3 identity matrix
func Eye(n int, dtype DataType) *RawTensor {
	t := Zeros(Shape{n, n}, dtype)
	for i := 0; i < n; i++ {
		setFloat(t, i*n+i, 1)
	}
	return t
}

// Cast returns a copy of t converted to dtype.
func Cast(t *RawTensor, dtype DataType) *RawTensor {
	if t.dtype == dtype {
		return t.Clone()
	}
	out := Zeros(t.shape, dtype)
	for i, v := range t.Float64s() {
		setFloat(out, i, v)
	}
	return out
}

// setFloat stores v at flat index i, converting to the tensor's dtype.
func setFloat(t *RawTensor, i int, v float64) {
	switch data := t.data.(type) {
	case []float32:
		data[i] = float32(v)
	case []float64:
		data[i] = v
	case []int32:
		data[i] = int32(v)
	case []bool:
		data[i] = v != 0
	}
}

// FromValue creates a tensor from a Go scalar or a (possibly nested) slice of
// float32, float64, int, int32 or bool. Nested slices must be rectangular.
// Go int values are stored as Int32.
//
// Example:
//
//	t, err := tensor.FromValue([][]float64{{1, 2}, {3, 4}}) // shape [2, 2]
func FromValue(value any) (*RawTensor, error) {
	if raw, ok := value.(*RawTensor); ok {
		return raw, nil
	}

	v := reflect.ValueOf(value)
	var shape Shape
	elemType := v.Type()
	for probe := v; elemType.Kind() == reflect.Slice; {
		shape = append(shape, probe.Len())
		elemType = elemType.Elem()
		if probe.Len() > 0 {
			probe = probe.Index(0)
		}
	}

	var dtype DataType
	switch elemType.Kind() {
	case reflect.Float32:
		dtype = Float32
	case reflect.Float64:
		dtype = Float64
	case reflect.Int, reflect.Int32:
		dtype = Int32
	case reflect.Bool:
		dtype = Bool
	default:
		return nil, fmt.Errorf("FromValue: unsupported element type %s", elemType)
	}

	t, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		return nil, err
	}
	pos := 0
	if err := fillFromValue(t, v, shape, &pos); err != nil {
		return nil, err
	}
	return t, nil
}

// fillFromValue walks v in row-major order, checking it is rectangular.
func fillFromValue(t *RawTensor, v reflect.Value, shape Shape, pos *int) error {
	if len(shape) == 0 {
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			setFloat(t, *pos, v.Float())
		case reflect.Int, reflect.Int32:
			setFloat(t, *pos, float64(v.Int()))
		case reflect.Bool:
			t.AsBool()[*pos] = v.Bool()
		default:
			return fmt.Errorf("FromValue: unexpected element kind %s", v.Kind())
		}
		*pos++
		return nil
	}
	if v.Kind() != reflect.Slice || v.Len() != shape[0] {
		return fmt.Errorf("FromValue: ragged slice, expected length %d", shape[0])
	}
	for i := 0; i < v.Len(); i++ {
		if err := fillFromValue(t, v.Index(i), shape[1:], pos); err != nil {
			return err
		}
	}
	return nil
}

// MustFromValue is like FromValue but panics on error. Intended for literals in
// tests and examples.
func MustFromValue(value any) *RawTensor {
	t, err := FromValue(value)
	if err != nil {
		panic(err)
	}
	return t
}
