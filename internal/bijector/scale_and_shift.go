package bijector

import (
	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// ScaleAndShiftConfig configures a ScaleAndShift bijector.
type ScaleAndShiftConfig struct {
	// Loc is the shift. It broadcasts against the result of the scaling.
	Loc *graph.Node

	// Scale is a scalar, a vector of per-batch scalars, a matrix, or a batch
	// of matrices. Matrices require EventNdims == 1.
	Scale *graph.Node

	// EventNdims is 0 (scalar events, element-wise scaling) or 1 (vector
	// events, matrix scaling).
	EventNdims int

	// EventNdimsNode, when set, overrides EventNdims with an Int32 scalar
	// node, possibly a placeholder.
	EventNdimsNode *graph.Node

	// ValidateArgs enables evaluation-time checks of deferred ranks.
	ValidateArgs bool

	// Name overrides the default name "ScaleAndShift".
	Name string
}

// ScaleAndShift is the bijector Y = scale·X + loc.
//
// With EventNdims == 0 the scale multiplies element-wise: a scalar scale is
// shared by all elements and a scale of rank r gives r batch axes. With
// EventNdims == 1 the scale is a matrix, or batch of matrices, applied to the
// trailing vector axis. Batch axes of scale broadcast against the leading axes
// of the input. The inverse solves the linear system instead of inverting the
// scale.
//
// Internally the scale is kept in matrix form: with scalar events two unit
// axes are appended, so every case is a batch of matrices. That gives
// batch_ndims = rank(scale) - 2 + (2 if EventNdims == 0 else 0).
// The inverse log-det-Jacobian -log|det(scale)| does not depend on y and has
// rank >= 1: a scalar scale, or a single matrix, yields a 1-element vector.
//
// Everything is built from graph ops, so loc, scale and the event rank may
// all be placeholders; errors that depend on their values are then reported
// by graph.Session.Run.
type ScaleAndShift struct {
	base
	loc, scale *graph.Node

	// shift is loc with an evaluation-time check that it broadcasts
	// against the output when shapes are deferred.
	shift *graph.Node

	// scaleMatrix is scale with the unit axes appended for scalar events.
	scaleMatrix *graph.Node

	// expand is the Int32 scalar 1 for scalar events and 0 for vector
	// events: the number of unit axes added to inputs to treat them as vectors.
	expand *graph.Node

	ildj *graph.Node
}

var _ Bijector = (*ScaleAndShift)(nil)

// NewScaleAndShift creates a ScaleAndShift bijector on the graph of cfg.Scale.
func NewScaleAndShift(cfg ScaleAndShiftConfig) (*ScaleAndShift, error) {
	if cfg.Loc == nil || cfg.Scale == nil {
		return nil, errors.Wrapf(graph.ErrInvalidArgument, "ScaleAndShift: loc and scale are required")
	}
	loc, scale := cfg.Loc, cfg.Scale
	g := scale.Graph()
	if err := g.Error(); err != nil {
		return nil, err
	}
	if loc.Graph() != g {
		return nil, errors.Wrapf(graph.ErrInvalidArgument, "ScaleAndShift: loc and scale belong to different graphs")
	}
	if loc.DType() != scale.DType() {
		return nil, errors.Wrapf(graph.ErrDTypeMismatch, "ScaleAndShift: loc has dtype %s, scale has %s", loc.DType(), scale.DType())
	}
	if !scale.DType().IsFloat() {
		return nil, errors.Wrapf(graph.ErrDTypeMismatch, "ScaleAndShift: scale must be floating point, got %s", scale.DType())
	}

	eventNdims := cfg.EventNdimsNode
	if eventNdims == nil {
		eventNdims = graph.Int(g, cfg.EventNdims)
	}
	if eventNdims.DType() != tensor.Int32 {
		return nil, errors.Wrapf(graph.ErrDTypeMismatch, "ScaleAndShift: event_ndims must be int32, got %s", eventNdims.DType())
	}
	eventNdims, err := checkEventNdims(eventNdims)
	if err != nil {
		return nil, err
	}

	zero, one := graph.Int(g, 0), graph.Int(g, 1)
	scaleRank := graph.Rank(scale)
	isScalarEvent := graph.Equal(eventNdims, zero)
	if ev, ok := eventNdims.IntValue(); ok && ev == 1 {
		if rank, ok := scale.Rank(); ok && rank < 2 {
			return nil, errors.Wrapf(graph.ErrShapeMismatch,
				"ScaleAndShift: event_ndims=1 requires a matrix scale, got shape %s", scale.Shape())
		}
	}

	b := &ScaleAndShift{loc: loc, scale: scale}
	b.expand = graph.Cast(isScalarEvent, tensor.Int32)
	b.scaleMatrix = padShape(scale, nil, graph.Mul(b.expand, graph.Int(g, 2)))

	// loc must broadcast against the shape of scale·x without sample axes:
	// shape(scale) for scalar events, shape(scale)[:-1] for vector events.
	locShape := graph.ShapeOf(loc)
	outShape := graph.Gather(graph.ShapeOf(scale), graph.Range(zero, graph.Add(graph.Sub(scaleRank, one), b.expand)))
	if err := checkLocShape(locShape, outShape); err != nil {
		return nil, err
	}
	b.shift = graph.AssertBroadcastable(loc, locShape, outShape)

	batchNdims := graph.Add(graph.Sub(scaleRank, graph.Int(g, 2)), graph.Mul(b.expand, graph.Int(g, 2)))
	shaper, err := NewShaper(batchNdims, eventNdims, cfg.ValidateArgs)
	if err != nil {
		return nil, errors.WithMessage(err, "ScaleAndShift")
	}

	// A scalar scale, or a single matrix, gets a leading unit axis so the
	// log-det-Jacobian always has rank >= 1.
	left := graph.Cast(graph.LogicalOr(
		graph.LogicalAnd(graph.Equal(scaleRank, zero), isScalarEvent),
		graph.LogicalAnd(graph.Equal(scaleRank, graph.Int(g, 2)), graph.Equal(eventNdims, one)),
	), tensor.Int32)
	b.ildj = graph.AssertBroadcastable(padShape(graph.Neg(graph.LogAbsDet(b.scaleMatrix)), left, nil), locShape, outShape)

	if err := g.Error(); err != nil {
		return nil, errors.WithMessage(err, "ScaleAndShift")
	}
	b.base = base{
		name:   nameOr(cfg.Name, "ScaleAndShift"),
		dtype:  scale.DType(),
		shaper: shaper,
		parameters: map[string]*graph.Node{
			"loc":         loc,
			"scale":       scale,
			"event_ndims": eventNdims,
		},
		validateArgs:       cfg.ValidateArgs,
		isConstantJacobian: true,
	}
	return b, nil
}

// checkLocShape returns ErrShapeMismatch when the shapes of loc and of the
// scaled output are both known and don't broadcast.
func checkLocShape(locShape, outShape *graph.Node) error {
	loc, locKnown := locShape.IntValues()
	out, outKnown := outShape.IntValues()
	if !locKnown || !outKnown {
		return nil
	}
	if _, _, err := tensor.BroadcastShapes(loc, out); err != nil {
		return errors.Wrapf(graph.ErrShapeMismatch, "ScaleAndShift: loc of shape %v doesn't broadcast against scale: %v", loc, err)
	}
	return nil
}

// checkEventNdims verifies event_ndims is 0 or 1: immediately when it is a
// constant, otherwise when the returned node is evaluated.
func checkEventNdims(eventNdims *graph.Node) (*graph.Node, error) {
	if ev, ok := eventNdims.IntValue(); ok {
		if ev != 0 && ev != 1 {
			return nil, errors.Wrapf(graph.ErrInvalidArgument, "ScaleAndShift: event_ndims must be 0 or 1, got %d", ev)
		}
		return eventNdims, nil
	}
	g := eventNdims.Graph()
	valid := graph.LogicalOr(
		graph.Equal(eventNdims, graph.Int(g, 0)),
		graph.Equal(eventNdims, graph.Int(g, 1)))
	return graph.Assert(eventNdims, valid, "ScaleAndShift: event_ndims must be 0 or 1"), g.Error()
}

// padShape reshapes x to [1]*left + shape(x) + [1]*right, where left and right
// are Int32 scalar nodes; nil means zero.
func padShape(x, left, right *graph.Node) *graph.Node {
	g := x.Graph()
	one := graph.Int(g, 1)
	parts := make([]*graph.Node, 0, 3)
	if left != nil {
		parts = append(parts, graph.Fill(graph.ReshapeTo(left, 1), one))
	}
	parts = append(parts, graph.ShapeOf(x))
	if right != nil {
		parts = append(parts, graph.Fill(graph.ReshapeTo(right, 1), one))
	}
	return graph.Reshape(x, graph.Concat(0, parts...))
}

// dropTrailing removes the last n axes of x, which must all have size 1.
func dropTrailing(x, n *graph.Node) *graph.Node {
	g := x.Graph()
	keep := graph.Range(graph.Int(g, 0), graph.Sub(graph.Rank(x), n))
	return graph.Reshape(x, graph.Gather(graph.ShapeOf(x), keep))
}

// Forward returns scale·x + loc.
func (b *ScaleAndShift) Forward(x *graph.Node) *graph.Node {
	if !b.checkDType("Forward", x) {
		return x.Graph().InvalidNode()
	}
	y := graph.MatVec(b.scaleMatrix, padShape(x, nil, b.expand))
	return graph.Add(dropTrailing(y, b.expand), b.shift)
}

// Inverse returns scale⁻¹·(y - loc), solving the linear system.
func (b *ScaleAndShift) Inverse(y *graph.Node) *graph.Node {
	if !b.checkDType("Inverse", y) {
		return y.Graph().InvalidNode()
	}
	shifted := graph.Sub(y, b.shift)
	x := graph.Solve(b.scaleMatrix, padShape(shifted, nil, b.expand))
	return dropTrailing(x, b.expand)
}

// InverseLogDetJacobian returns -log|det(scale)|. It depends on y only
// through its dtype.
func (b *ScaleAndShift) InverseLogDetJacobian(y *graph.Node) *graph.Node {
	if !b.checkDType("InverseLogDetJacobian", y) {
		return y.Graph().InvalidNode()
	}
	return b.ildj
}

// InverseAndInverseLogDetJacobian returns Inverse(y) and InverseLogDetJacobian(y).
func (b *ScaleAndShift) InverseAndInverseLogDetJacobian(y *graph.Node) (x, ildj *graph.Node) {
	return b.Inverse(y), b.InverseLogDetJacobian(y)
}

// Loc returns the shift parameter.
func (b *ScaleAndShift) Loc() *graph.Node { return b.loc }

// Scale returns the scale parameter as given.
func (b *ScaleAndShift) Scale() *graph.Node { return b.scale }
