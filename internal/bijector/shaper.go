package bijector

import (
	"fmt"

	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// Ndims is a rank used for shape bookkeeping. It is either resolved, when its
// value is known while building the graph, or deferred, when only a node
// computing it exists. Node works in both cases and evaluates to the same value.
type Ndims struct {
	node     *graph.Node
	value    int
	resolved bool
}

func newNdims(node *graph.Node) Ndims {
	value, resolved := node.IntValue()
	return Ndims{node: node, value: value, resolved: resolved}
}

// Resolved returns the value and true when it is known while building.
func (n Ndims) Resolved() (int, bool) { return n.value, n.resolved }

// Node returns an Int32 scalar node evaluating to the rank.
func (n Ndims) Node() *graph.Node { return n.node }

// String implements fmt.Stringer.
func (n Ndims) String() string {
	if n.resolved {
		return fmt.Sprint(n.value)
	}
	return "deferred(" + n.node.String() + ")"
}

// Shaper splits the axes of arrays passed through a bijector into
// sample, batch and event axes, given the batch and event ranks:
//
//	shape = sample_shape + batch_shape + event_shape
//
// Axes not claimed by batch or event are sample axes, so
// sample_ndims = rank(x) - batch_ndims - event_ndims.
//
// When ranks and shapes are statically known every method returns constant
// nodes; otherwise the same methods build the computation that resolves them
// at evaluation time.
type Shaper struct {
	graph        *graph.Graph
	batchNdims   Ndims
	eventNdims   Ndims
	validateArgs bool
}

// NewShaper creates a shaper from Int32 scalar nodes for the batch and event
// ranks. Negative resolved ranks are an error; deferred ranks are checked at
// evaluation time. validateArgs adds evaluation-time checks that arrays have
// enough axes for both ranks.
func NewShaper(batchNdims, eventNdims *graph.Node, validateArgs bool) (*Shaper, error) {
	g := batchNdims.Graph()
	s := &Shaper{graph: g, validateArgs: validateArgs}
	var err error
	if s.batchNdims, err = s.checkNonNegative("batch_ndims", batchNdims); err != nil {
		return nil, err
	}
	if s.eventNdims, err = s.checkNonNegative("event_ndims", eventNdims); err != nil {
		return nil, err
	}
	if err := g.Error(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkNonNegative validates a rank node, adding an evaluation-time assertion
// when it is deferred.
func (s *Shaper) checkNonNegative(what string, n *graph.Node) (Ndims, error) {
	if !n.Ok() {
		return Ndims{}, errors.Wrapf(graph.ErrInvalidArgument, "%s: invalid node", what)
	}
	if n.DType() != tensor.Int32 {
		return Ndims{}, errors.Wrapf(graph.ErrDTypeMismatch, "%s must be int32, got %s", what, n.DType())
	}
	if rank, known := n.Rank(); known && rank != 0 {
		return Ndims{}, errors.Wrapf(graph.ErrShapeMismatch, "%s must be a scalar, got shape %s", what, n.Shape())
	}
	ndims := newNdims(n)
	if value, ok := ndims.Resolved(); ok {
		if value < 0 {
			return Ndims{}, errors.Wrapf(graph.ErrInvalidArgument, "%s must be non-negative, got %d", what, value)
		}
		return ndims, nil
	}
	n = graph.Assert(n, graph.GreaterEqual(n, graph.Int(s.graph, 0)), "%s must be non-negative", what)
	return newNdims(n), nil
}

// BatchNdims returns the number of batch axes.
func (s *Shaper) BatchNdims() Ndims { return s.batchNdims }

// EventNdims returns the number of event axes.
func (s *Shaper) EventNdims() Ndims { return s.eventNdims }

// IsStatic reports whether both ranks are resolved.
func (s *Shaper) IsStatic() bool {
	return s.batchNdims.resolved && s.eventNdims.resolved
}

// GetNdims returns the rank of x.
func (s *Shaper) GetNdims(x *graph.Node) Ndims {
	return newNdims(graph.Rank(x))
}

// GetSampleNdims returns rank(x) - batch_ndims - event_ndims. A negative
// result means x has too few axes: it is a graph error when resolved, and an
// evaluation-time assertion when deferred and validateArgs is set.
func (s *Shaper) GetSampleNdims(x *graph.Node) Ndims {
	ndims := graph.Sub(graph.Sub(graph.Rank(x), s.batchNdims.node), s.eventNdims.node)
	if value, ok := ndims.IntValue(); ok {
		if value < 0 {
			s.graph.SetError(errors.Wrapf(graph.ErrShapeMismatch,
				"array of shape %s has fewer axes than batch_ndims=%s plus event_ndims=%s",
				x.Shape(), s.batchNdims, s.eventNdims))
			return newNdims(s.graph.InvalidNode())
		}
	} else if s.validateArgs {
		ndims = graph.Assert(ndims, graph.GreaterEqual(ndims, graph.Int(s.graph, 0)),
			"array has fewer axes than batch_ndims plus event_ndims")
	}
	return newNdims(ndims)
}

// CheckRank returns x after verifying it has at least batch_ndims plus
// event_ndims axes, with the same rules as GetSampleNdims.
func (s *Shaper) CheckRank(x *graph.Node) *graph.Node {
	sampleNdims := s.GetSampleNdims(x)
	switch {
	case !sampleNdims.node.Ok():
		return s.graph.InvalidNode()
	case sampleNdims.resolved || !s.validateArgs:
		return x
	}
	return graph.Assert(x, graph.GreaterEqual(sampleNdims.node, graph.Int(s.graph, 0)),
		"array has fewer axes than batch_ndims plus event_ndims")
}

// GetDims returns Int32 vectors with the axis indices of the sample, batch and
// event parts of x.
func (s *Shaper) GetDims(x *graph.Node) (sample, batch, event *graph.Node) {
	sampleNdims := s.GetSampleNdims(x).node
	batchEnd := graph.Add(sampleNdims, s.batchNdims.node)
	zero := graph.Int(s.graph, 0)
	sample = graph.Range(zero, sampleNdims)
	batch = graph.Range(sampleNdims, batchEnd)
	event = graph.Range(batchEnd, graph.Rank(x))
	return sample, batch, event
}

// GetShape returns Int32 vectors with the sample, batch and event shapes of x.
func (s *Shaper) GetShape(x *graph.Node) (sample, batch, event *graph.Node) {
	sampleDims, batchDims, eventDims := s.GetDims(x)
	shape := graph.ShapeOf(x)
	return graph.Gather(shape, sampleDims), graph.Gather(shape, batchDims), graph.Gather(shape, eventDims)
}

// EventDims returns the axis indices of the event part of x.
func (s *Shaper) EventDims(x *graph.Node) *graph.Node {
	_, _, event := s.GetDims(x)
	return event
}

// ReduceEventDims sums x over its event axes. With a resolved event rank of
// zero x is returned unchanged.
func (s *Shaper) ReduceEventDims(x *graph.Node) *graph.Node {
	if value, ok := s.eventNdims.Resolved(); ok && value == 0 {
		return x
	}
	return graph.ReduceSum(x, s.EventDims(x))
}
