// Package graph implements a deferred (lazy) computation graph evaluated on a
// tensor.Backend.
//
// Building a graph does no numeric work on floating point data: every op
// returns a *Node describing the computation, with as much static shape
// information as can be inferred. Placeholders stand for values supplied at
// evaluation time through Feeds, so the same graph serves inputs whose shapes
// are only known when a Session runs it.
//
// Integer and boolean ops whose inputs are all known while building are folded
// into constants right away. This is what lets shape arithmetic (ranks, shape
// vectors, axis lists) resolve statically when shapes are known, while the same
// code builds evaluation-time computations when they are not.
//
// # Deferred error handling
//
// Ops don't return errors. The first error found while building is stored in
// the Graph and every later op becomes a no-op returning an invalid node.
// Check Graph.Error once building is done; Session.Run reports it too.
package graph

import (
	"fmt"
	"sync"

	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Graph holds the nodes of a computation and the backend used to evaluate them.
//
// Graph construction is safe for concurrent use. Nodes are immutable once created.
type Graph struct {
	mu      sync.Mutex
	backend tensor.Backend
	name    string
	err     error
	nodes   []*Node
}

// New creates an empty graph evaluated on backend.
func New(backend tensor.Backend) *Graph {
	return NewNamed(backend, "graph")
}

// NewNamed creates an empty graph with a name used in diagnostics.
func NewNamed(backend tensor.Backend, name string) *Graph {
	return &Graph{backend: backend, name: name}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Backend returns the backend nodes are evaluated on.
func (g *Graph) Backend() tensor.Backend { return g.backend }

// NumNodes returns the number of valid nodes created so far.
func (g *Graph) NumNodes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Error returns the first error recorded while building the graph, if any.
func (g *Graph) Error() error {
	if g == nil {
		return errors.New("the Graph is nil")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Ok returns whether there were no errors building the graph so far.
func (g *Graph) Ok() bool {
	return g != nil && g.Error() == nil
}

// SetError records err on the graph. Only the first error is kept; after it
// most operations become no-ops.
func (g *Graph) SetError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err == nil {
		g.err = err
	}
}

// SetErrorf is like SetError with in-place formatting. The error carries a
// stack trace.
func (g *Graph) SetErrorf(format string, args ...any) {
	g.SetError(errors.WithStack(fmt.Errorf(format, args...)))
}

// InvalidNode returns the node handed out by ops once the graph is in error.
func (g *Graph) InvalidNode() *Node {
	return &Node{
		graph: g,
		id:    InvalidNodeID,
		op:    "invalid",
		dtype: tensor.Invalid,
		shape: UnknownShape(),
	}
}

// String implements fmt.Stringer.
func (g *Graph) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	status := "ok"
	if g.err != nil {
		status = "error: " + g.err.Error()
	}
	return fmt.Sprintf("Graph(%q, %d nodes, %s)", g.name, len(g.nodes), status)
}

// opSpec describes a node about to be created.
type opSpec struct {
	op     string
	name   string
	inputs []*Node
	dtype  tensor.DataType
	shape  StaticShape
	value  *tensor.RawTensor
	kernel kernelFn
}

// addNode registers a node. Integer and boolean nodes whose inputs are all
// constants are folded: their kernel runs immediately and the node becomes a
// constant. A kernel failure while folding is a graph building error.
func (g *Graph) addNode(spec opSpec) *Node {
	if !g.Ok() {
		return g.InvalidNode()
	}
	n := &Node{
		graph:  g,
		op:     spec.op,
		name:   spec.name,
		inputs: spec.inputs,
		dtype:  spec.dtype,
		shape:  spec.shape,
		value:  spec.value,
		kernel: spec.kernel,
	}
	if n.value == nil && foldable(spec) {
		value, err := n.execute(g.backend, n.inputValues())
		if err != nil {
			g.SetError(err)
			return g.InvalidNode()
		}
		n.value = value
	}
	if n.value != nil {
		n.shape = KnownShape(n.value.Shape()...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.InvalidNode()
	}
	n.id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return n
}

// foldable reports whether a node can be evaluated while building.
func foldable(spec opSpec) bool {
	if spec.kernel == nil || !isShapeDType(spec.dtype) {
		return false
	}
	for _, in := range spec.inputs {
		if in.value == nil || !isShapeDType(in.dtype) {
			return false
		}
	}
	return true
}

func isShapeDType(dtype tensor.DataType) bool {
	return dtype == tensor.Int32 || dtype == tensor.Bool
}

// checkInputs verifies every input is a valid node of one graph, which it
// returns. ok is false when the graph is already in error or an input is bad,
// in which case an error was recorded and the caller must return g.InvalidNode().
func checkInputs(op string, inputs ...*Node) (g *Graph, ok bool) {
	for _, in := range inputs {
		if in != nil && in.graph != nil {
			g = in.graph
			break
		}
	}
	if g == nil {
		exceptions.Panicf("%s: no valid input node to infer the graph from", op)
	}
	if !g.Ok() {
		return g, false
	}
	for i, in := range inputs {
		switch {
		case in == nil:
			g.SetErrorf("%s: input #%d is nil", op, i)
			return g, false
		case in.graph != g:
			g.SetErrorf("%s: input #%d belongs to graph %q, not %q", op, i, in.graph.Name(), g.Name())
			return g, false
		case !in.Ok():
			g.SetErrorf("%s: input #%d is an invalid node", op, i)
			return g, false
		}
	}
	return g, true
}
