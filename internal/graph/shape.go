package graph

import (
	"fmt"
	"strings"

	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// UnknownDim marks a dimension whose size is only known at evaluation time.
const UnknownDim = -1

// StaticShape is the shape information available while building a graph.
//
// The rank itself may be unknown (a placeholder declared without a shape), and
// individual dimensions may be UnknownDim. The zero value has unknown rank.
type StaticShape struct {
	dims      []int
	rankKnown bool
}

// UnknownShape returns a shape with unknown rank.
func UnknownShape() StaticShape {
	return StaticShape{}
}

// KnownShape returns a shape of known rank. Dimensions may be UnknownDim.
func KnownShape(dims ...int) StaticShape {
	return StaticShape{dims: append([]int{}, dims...), rankKnown: true}
}

// UnknownDims returns a shape of the given rank with every dimension unknown.
func UnknownDims(rank int) StaticShape {
	dims := make([]int, rank)
	for i := range dims {
		dims[i] = UnknownDim
	}
	return StaticShape{dims: dims, rankKnown: true}
}

// Rank returns the rank and whether it is known.
func (s StaticShape) Rank() (int, bool) {
	return len(s.dims), s.rankKnown
}

// Dims returns a copy of the dimensions, or nil when the rank is unknown.
func (s StaticShape) Dims() []int {
	if !s.rankKnown {
		return nil
	}
	return append([]int{}, s.dims...)
}

// Dim returns dimension i and whether it is known. Negative i counts from the end.
func (s StaticShape) Dim(i int) (int, bool) {
	if !s.rankKnown {
		return UnknownDim, false
	}
	if i < 0 {
		i += len(s.dims)
	}
	if i < 0 || i >= len(s.dims) || s.dims[i] == UnknownDim {
		return UnknownDim, false
	}
	return s.dims[i], true
}

// IsFullyDefined reports whether the rank and every dimension are known.
func (s StaticShape) IsFullyDefined() bool {
	if !s.rankKnown {
		return false
	}
	for _, d := range s.dims {
		if d == UnknownDim {
			return false
		}
	}
	return true
}

// Shape converts a fully defined static shape into a tensor.Shape.
func (s StaticShape) Shape() (tensor.Shape, bool) {
	if !s.IsFullyDefined() {
		return nil, false
	}
	return tensor.Shape(s.Dims()), true
}

// CompatibleWith reports whether a concrete shape satisfies this static shape.
func (s StaticShape) CompatibleWith(shape tensor.Shape) bool {
	if !s.rankKnown {
		return true
	}
	if len(shape) != len(s.dims) {
		return false
	}
	for i, d := range s.dims {
		if d != UnknownDim && d != shape[i] {
			return false
		}
	}
	return true
}

// slice returns dims [from, to) of a shape with known rank.
func (s StaticShape) slice(from, to int) StaticShape {
	return KnownShape(s.dims[from:to]...)
}

// String implements fmt.Stringer. Unknown dimensions print as "?".
func (s StaticShape) String() string {
	if !s.rankKnown {
		return "<unknown>"
	}
	parts := make([]string, len(s.dims))
	for i, d := range s.dims {
		if d == UnknownDim {
			parts[i] = "?"
		} else {
			parts[i] = fmt.Sprint(d)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// broadcastStatic applies NumPy broadcasting rules to static shapes. Unknown
// dimensions are assumed compatible; the check is repeated at evaluation time.
func broadcastStatic(shapes ...StaticShape) (StaticShape, error) {
	rank := 0
	for _, s := range shapes {
		if !s.rankKnown {
			return UnknownShape(), nil
		}
		rank = max(rank, len(s.dims))
	}

	out := make([]int, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		offset := rank - len(s.dims)
		for i, d := range s.dims {
			cur := out[offset+i]
			switch {
			case d == 1:
			case cur == 1:
				out[offset+i] = d
			case d == UnknownDim || cur == UnknownDim:
				if d != UnknownDim {
					out[offset+i] = d
				}
			case d != cur:
				return UnknownShape(), errors.Wrapf(ErrShapeMismatch,
					"shapes %v are not compatible for broadcasting", shapes)
			}
		}
	}
	return KnownShape(out...), nil
}
