package graph

import (
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// checkDTypes records ErrDTypeMismatch unless all nodes share a dtype accepted
// by the op. An empty allowed list accepts any dtype.
func checkDTypes(g *Graph, op string, allowed []tensor.DataType, nodes ...*Node) bool {
	for _, n := range nodes {
		if n.dtype != nodes[0].dtype {
			g.SetError(errors.Wrapf(ErrDTypeMismatch, "%s: operands have dtypes %s and %s", op, nodes[0].dtype, n.dtype))
			return false
		}
	}
	if len(allowed) == 0 {
		return true
	}
	for _, dtype := range allowed {
		if nodes[0].dtype == dtype {
			return true
		}
	}
	g.SetError(errors.Wrapf(ErrDTypeMismatch, "%s: dtype %s not supported, want one of %v", op, nodes[0].dtype, allowed))
	return false
}

var (
	numberDTypes = []tensor.DataType{tensor.Float32, tensor.Float64, tensor.Int32}
	floatDTypes  = []tensor.DataType{tensor.Float32, tensor.Float64}
)

// checkBroadcast panics with ErrShapeMismatch if the concrete shapes don't
// broadcast together. Used by kernels so evaluation-time mismatches report the
// same error category as construction-time ones.
func checkBroadcast(op string, values ...*tensor.RawTensor) {
	shape := tensor.Shape{}
	for _, v := range values {
		var err error
		shape, _, err = tensor.BroadcastShapes(shape, v.Shape())
		if err != nil {
			panic(errors.Wrapf(ErrShapeMismatch, "%s: %v", op, err))
		}
	}
}

// binaryOp builds a broadcasting element-wise op.
func binaryOp(op string, a, b *Node, allowed []tensor.DataType, outDType tensor.DataType,
	fn func(backend tensor.Backend, a, b *tensor.RawTensor) *tensor.RawTensor) *Node {
	g, ok := checkInputs(op, a, b)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, op, allowed, a, b) {
		return g.InvalidNode()
	}
	shape, err := broadcastStatic(a.shape, b.shape)
	if err != nil {
		g.SetError(errors.WithMessage(err, op))
		return g.InvalidNode()
	}
	if outDType == tensor.Invalid {
		outDType = a.dtype
	}
	return g.addNode(opSpec{
		op:     op,
		inputs: []*Node{a, b},
		dtype:  outDType,
		shape:  shape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			checkBroadcast(op, in[0], in[1])
			return fn(backend, in[0], in[1])
		},
	})
}

// Add returns a + b element-wise, with broadcasting.
func Add(a, b *Node) *Node {
	return binaryOp("Add", a, b, numberDTypes, tensor.Invalid, tensor.Backend.Add)
}

// Sub returns a - b element-wise, with broadcasting.
func Sub(a, b *Node) *Node {
	return binaryOp("Sub", a, b, numberDTypes, tensor.Invalid, tensor.Backend.Sub)
}

// Mul returns a * b element-wise, with broadcasting.
func Mul(a, b *Node) *Node {
	return binaryOp("Mul", a, b, numberDTypes, tensor.Invalid, tensor.Backend.Mul)
}

// Div returns a / b element-wise, with broadcasting.
func Div(a, b *Node) *Node {
	return binaryOp("Div", a, b, numberDTypes, tensor.Invalid, tensor.Backend.Div)
}

// unaryOp builds an element-wise op preserving dtype and shape.
func unaryOp(op string, x *Node, allowed []tensor.DataType, fn func(backend tensor.Backend, x *tensor.RawTensor) *tensor.RawTensor) *Node {
	g, ok := checkInputs(op, x)
	if !ok {
		return g.InvalidNode()
	}
	if !checkDTypes(g, op, allowed, x) {
		return g.InvalidNode()
	}
	return g.addNode(opSpec{
		op:     op,
		inputs: []*Node{x},
		dtype:  x.dtype,
		shape:  x.shape,
		kernel: func(backend tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return fn(backend, in[0])
		},
	})
}

// Neg returns -x.
func Neg(x *Node) *Node { return unaryOp("Neg", x, numberDTypes, tensor.Backend.Neg) }

// Abs returns |x|.
func Abs(x *Node) *Node { return unaryOp("Abs", x, floatDTypes, tensor.Backend.Abs) }

// Exp returns e^x.
func Exp(x *Node) *Node { return unaryOp("Exp", x, floatDTypes, tensor.Backend.Exp) }

// Log returns the natural logarithm of x. Non-positive values yield NaN or -Inf.
func Log(x *Node) *Node { return unaryOp("Log", x, floatDTypes, tensor.Backend.Log) }

// Log1p returns log(1 + x), accurate for x near 0.
func Log1p(x *Node) *Node { return unaryOp("Log1p", x, floatDTypes, tensor.Backend.Log1p) }

// Expm1 returns e^x - 1, accurate for x near 0.
func Expm1(x *Node) *Node { return unaryOp("Expm1", x, floatDTypes, tensor.Backend.Expm1) }

// Softplus returns log(1 + e^x), computed without overflow for large x.
func Softplus(x *Node) *Node { return unaryOp("Softplus", x, floatDTypes, tensor.Backend.Softplus) }
