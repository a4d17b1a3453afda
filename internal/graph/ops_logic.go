package graph

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

var boolDTypes = []tensor.DataType{tensor.Bool}

// Equal returns a == b element-wise as a Bool tensor.
func Equal(a, b *Node) *Node {
	return binaryOp("Equal", a, b, nil, tensor.Bool, tensor.Backend.Equal)
}

// GreaterEqual returns a >= b element-wise as a Bool tensor.
func GreaterEqual(a, b *Node) *Node {
	return binaryOp("GreaterEqual", a, b, numberDTypes, tensor.Bool, tensor.Backend.GreaterEqual)
}

// LogicalAnd returns a && b element-wise.
func LogicalAnd(a, b *Node) *Node {
	return binaryOp("LogicalAnd", a, b, boolDTypes, tensor.Bool, tensor.Backend.And)
}

// LogicalOr returns a || b element-wise.
func LogicalOr(a, b *Node) *Node {
	return binaryOp("LogicalOr", a, b, boolDTypes, tensor.Bool, tensor.Backend.Or)
}

// Where returns x where cond is true and y elsewhere. All three broadcast.
func Where(cond, x, y *Node) *Node {
	g, ok := checkInputs("Where", cond, x, y)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, "Where", boolDTypes, cond) || !checkDTypes(g, "Where", nil, x, y) {
		return g.InvalidNode()
	}
	shape, err := broadcastStatic(cond.shape, x.shape, y.shape)
	if err != nil {
		g.SetError(errors.WithMessage(err, "Where"))
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     "Where",
		inputs: []*Node{cond, x, y},
		dtype:  x.dtype,
		shape:  shape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			checkBroadcast("Where", in...)
			return backend.Where(in[0], in[1], in[2])
		},
	})
}

// Assert returns x, checking first that every element of the Bool node cond
// is true. A failure is reported as ErrInvalidArgument with the formatted
// message: while building when cond is a constant, otherwise when the
// returned node is evaluated.
func Assert(x, cond *Node, format string, args ...any) *Node {
	g, ok := checkInputs("Assert", x, cond)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, "Assert", boolDTypes, cond) {
		return g.InvalidNode()
	}
	message := fmt.Sprintf(format, args...)
	if value, known := cond.Value(); known {
		if !allTrue(value) {
			g.SetError(errors.Wrapf(ErrInvalidArgument, "assertion failed: %s", message))
			return g.InvalidNode()
		}
		return x
	}
	return g.addNode(opSpec{
		op:     "Assert",
		inputs: []*Node{x, cond},
		dtype:  x.dtype,
		shape:  x.shape,
		kernel: func(_ tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			if !allTrue(in[1]) {
				panic(errors.Wrapf(ErrInvalidArgument, "assertion failed: %s", message))
			}
			return in[0]
		},
	})
}

func allTrue(t *tensor.RawTensor) bool {
	for _, v := range t.AsBool() {
		if !v {
			return false
		}
	}
	return true
}

// AssertBroadcastable returns x, checking first that the shapes, given as
// Int32 vectors, broadcast together. A failure is reported as
// ErrShapeMismatch: while building when every shape is a constant, otherwise
// when the returned node is evaluated.
func AssertBroadcastable(x *Node, shapes ...*Node) *Node {
	inputs := append([]*Node{x}, shapes...)
	g, ok := checkInputs("AssertBroadcastable", inputs...)
	if !ok {
		return g.InvalidNode()
	}
	known := true
	values := make([]*tensor.RawTensor, len(shapes))
	for i, shape := range shapes {
		if !checkShapeVector(g, "AssertBroadcastable", "shape", shape) {
			return g.InvalidNode()
		}
		values[i], ok = shape.Value()
		known = known && ok
	}
	if known {
		if err := checkShapesBroadcast(values); err != nil {
			g.SetError(err)
			return g.InvalidNode()
		}
		return x
	}
	return g.addNode(opSpec{
		op:     "AssertBroadcastable",
		inputs: inputs,
		dtype:  x.dtype,
		shape:  x.shape,
		kernel: func(_ tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			if err := checkShapesBroadcast(in[1:]); err != nil {
				panic(err)
			}
			return in[0]
		},
	})
}

func checkShapesBroadcast(shapes []*tensor.RawTensor) error {
	var out tensor.Shape
	for _, shape := range shapes {
		var err error
		if out, _, err = tensor.BroadcastShapes(out, tensor.Shape(shape.Ints())); err != nil {
			return errors.Wrapf(ErrShapeMismatch, "AssertBroadcastable: %v", err)
		}
	}
	return nil
}
