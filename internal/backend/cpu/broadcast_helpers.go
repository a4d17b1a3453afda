package cpu

import (
	"github.com/born-ml/bijectors/internal/tensor"
)

// computeBroadcastStridesForShape computes strides for broadcasting a shape to outShape.
// Returns strides where dimensions of size 1 have stride 0 (for broadcasting).
func computeBroadcastStridesForShape(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	// Pad input shape with 1s on the left
	inDim := len(inShape)
	offset := outDim - inDim

	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			// Padded dimension, stride is 0
			strides[i] = 0
		case inShape[inIdx] == 1:
			// Broadcast dimension, stride is 0
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// computeFlatIndex computes the flat index in the source array for a given output index.
// outStrides: strides of the output shape.
// inStrides: broadcast-adjusted strides of the input shape.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}

// broadcastIndexer maps flat output indices to flat input indices for a set of
// inputs broadcast to a common shape.
type broadcastIndexer struct {
	outShape   tensor.Shape
	outStrides []int
	inStrides  [][]int
	identity   []bool // input already has outShape: index maps to itself
}

// newBroadcastIndexer broadcasts all shapes together.
func newBroadcastIndexer(shapes ...tensor.Shape) (*broadcastIndexer, error) {
	outShape := tensor.Shape{}
	for _, s := range shapes {
		var err error
		outShape, _, err = tensor.BroadcastShapes(outShape, s)
		if err != nil {
			return nil, err
		}
	}
	bi := &broadcastIndexer{
		outShape:   outShape,
		outStrides: outShape.ComputeStrides(),
		inStrides:  make([][]int, len(shapes)),
		identity:   make([]bool, len(shapes)),
	}
	for i, s := range shapes {
		bi.identity[i] = s.Equal(outShape)
		bi.inStrides[i] = computeBroadcastStridesForShape(s, outShape)
	}
	return bi, nil
}

// index returns the flat index into input `input` for flat output index outIdx.
func (bi *broadcastIndexer) index(input, outIdx int) int {
	if bi.identity[input] {
		return outIdx
	}
	return computeFlatIndex(outIdx, bi.outStrides, bi.inStrides[input])
}
