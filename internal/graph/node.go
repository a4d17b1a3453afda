package graph

import (
	"fmt"
	"strings"

	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// NodeID is a unique id within a Graph.
type NodeID int

// InvalidNodeID identifies a node that failed to be created.
const InvalidNodeID = NodeID(-1)

// kernelFn computes a node's value from the values of its inputs. Kernels
// panic on invalid input, following the backend convention; Session.Run and
// constant folding turn panics into errors.
type kernelFn func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor

// Node is the result of an operation in a Graph.
type Node struct {
	graph  *Graph
	id     NodeID
	op     string
	name   string
	inputs []*Node
	dtype  tensor.DataType
	shape  StaticShape

	// value is set for constants, including folded ones.
	value *tensor.RawTensor

	kernel kernelFn
}

// Graph returns the graph the node belongs to.
func (n *Node) Graph() *Graph { return n.graph }

// ID returns the node id within its graph.
func (n *Node) ID() NodeID { return n.id }

// Op returns the name of the operation that created the node.
func (n *Node) Op() string { return n.op }

// Name returns the name given to placeholders, or the empty string.
func (n *Node) Name() string { return n.name }

// DType returns the node's data type.
func (n *Node) DType() tensor.DataType { return n.dtype }

// Shape returns the static shape of the node.
func (n *Node) Shape() StaticShape { return n.shape }

// Rank returns the static rank and whether it is known.
func (n *Node) Rank() (int, bool) { return n.shape.Rank() }

// Inputs returns the node's inputs.
func (n *Node) Inputs() []*Node { return n.inputs }

// Ok reports whether the node is valid.
func (n *Node) Ok() bool { return n != nil && n.id != InvalidNodeID }

// Value returns the node's value when it is known while building: constants,
// and integer or boolean computations folded from constants.
// The returned tensor must not be modified.
func (n *Node) Value() (*tensor.RawTensor, bool) {
	return n.value, n.value != nil
}

// IsConstant reports whether the node's value is known while building.
func (n *Node) IsConstant() bool { return n.value != nil }

// IntValues returns the values of a constant Int32 node.
func (n *Node) IntValues() ([]int, bool) {
	if n.value == nil || n.dtype != tensor.Int32 {
		return nil, false
	}
	return n.value.Ints(), true
}

// IntValue returns the value of a constant Int32 scalar node.
func (n *Node) IntValue() (int, bool) {
	values, ok := n.IntValues()
	if !ok || len(values) != 1 || n.value.Rank() != 0 {
		return 0, false
	}
	return values[0], true
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	if !n.Ok() {
		return "Node(invalid)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s#%d", n.op, n.id)
	if n.name != "" {
		fmt.Fprintf(&sb, "(%q)", n.name)
	}
	fmt.Fprintf(&sb, "[%s]%s", n.dtype, n.shape)
	if n.value != nil && n.value.NumElements() <= 8 {
		fmt.Fprintf(&sb, "=%v", n.value.Float64s())
	}
	return sb.String()
}

// inputValues returns the constant values of the inputs. Only valid when
// every input is constant.
func (n *Node) inputValues() []*tensor.RawTensor {
	values := make([]*tensor.RawTensor, len(n.inputs))
	for i, in := range n.inputs {
		values[i] = in.value
	}
	return values
}

// execute runs the node's kernel, converting panics into errors.
func (n *Node) execute(backend tensor.Backend, in []*tensor.RawTensor) (result *tensor.RawTensor, err error) {
	exception := exceptions.Try(func() {
		result = n.kernel(backend, in)
	})
	if exception == nil {
		return result, nil
	}
	if e, ok := exception.(error); ok {
		return nil, errors.WithMessagef(e, "%s", n.describe())
	}
	return nil, errors.Errorf("%s: %v", n.describe(), exception)
}

// describe names the node for error messages without needing a registered id.
func (n *Node) describe() string {
	if n.name != "" {
		return fmt.Sprintf("%s(%q)", n.op, n.name)
	}
	return n.op
}
