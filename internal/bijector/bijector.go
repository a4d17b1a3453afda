// Package bijector implements invertible, differentiable transformations used
// to reparameterize probability distributions.
//
// A bijector maps X to Y = g(X), provides the inverse mapping, and computes
// log|det J(g⁻¹)(y)|, the log-determinant of the Jacobian of the inverse,
// summed over event axes. Every operation takes and returns graph nodes: the
// numeric work happens when a graph.Session evaluates them, so parameters and
// inputs may be constants or placeholders fed at evaluation time.
//
// Inverse and InverseLogDetJacobian of Exp and Softplus are only defined for
// positive inputs. Outside the domain they produce NaN or -Inf, following
// IEEE 754; no error is reported.
package bijector

import (
	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// Bijector is an invertible, differentiable transformation Y = g(X).
//
// For x in the domain, Inverse(Forward(x)) == x and Forward(Inverse(y)) == y
// up to floating point tolerance, and InverseLogDetJacobian(y) equals
// -log|det J(g)(Inverse(y))|.
//
// Operations don't return errors: invalid inputs are recorded on the graph
// (see graph.Graph.Error) and reported by graph.Session.Run.
type Bijector interface {
	// Name identifies the bijector, e.g. "Exp".
	Name() string

	// DType is the data type the bijector operates on, or tensor.Invalid when
	// it accepts any floating point type.
	DType() tensor.DataType

	// Shaper resolves batch and event axes, or nil for bijectors that do no
	// shape bookkeeping.
	Shaper() *Shaper

	// Parameters returns the nodes the bijector was built from, by name.
	Parameters() map[string]*graph.Node

	// IsConstantJacobian reports whether the Jacobian does not depend on the input.
	IsConstantJacobian() bool

	// ValidateArgs reports whether evaluation-time argument checks are enabled.
	ValidateArgs() bool

	// Forward returns g(x).
	Forward(x *graph.Node) *graph.Node

	// Inverse returns g⁻¹(y).
	Inverse(y *graph.Node) *graph.Node

	// InverseLogDetJacobian returns log|det J(g⁻¹)(y)| summed over event axes.
	InverseLogDetJacobian(y *graph.Node) *graph.Node

	// InverseAndInverseLogDetJacobian returns both values, identical to
	// calling Inverse and InverseLogDetJacobian separately.
	InverseAndInverseLogDetJacobian(y *graph.Node) (x, ildj *graph.Node)
}

// Config configures bijectors whose only shape parameter is the event rank.
type Config struct {
	// EventNdims is the number of trailing axes forming one event.
	EventNdims int

	// EventNdimsNode, when set, overrides EventNdims with an Int32 scalar
	// node, possibly a placeholder.
	EventNdimsNode *graph.Node

	// ValidateArgs enables evaluation-time checks of deferred ranks.
	ValidateArgs bool

	// Name overrides the default bijector name.
	Name string
}

// eventNdimsNode returns the event rank as a node.
func (c Config) eventNdimsNode(g *graph.Graph) *graph.Node {
	if c.EventNdimsNode != nil {
		return c.EventNdimsNode
	}
	return graph.Int(g, c.EventNdims)
}

// nameOr returns name, or def when name is empty.
func nameOr(name, def string) string {
	if name != "" {
		return name
	}
	return def
}

// base holds the state shared by the bijectors.
type base struct {
	name               string
	dtype              tensor.DataType
	shaper             *Shaper
	parameters         map[string]*graph.Node
	validateArgs       bool
	isConstantJacobian bool
}

func (b *base) Name() string                       { return b.name }
func (b *base) DType() tensor.DataType             { return b.dtype }
func (b *base) Shaper() *Shaper                    { return b.shaper }
func (b *base) IsConstantJacobian() bool           { return b.isConstantJacobian }
func (b *base) ValidateArgs() bool                 { return b.validateArgs }
func (b *base) Parameters() map[string]*graph.Node { return b.parameters }

// checkDType records ErrDTypeMismatch on the graph when x doesn't have the
// bijector's dtype. It returns false if x must not be used.
func (b *base) checkDType(op string, x *graph.Node) bool {
	if x == nil {
		panic(b.name + "." + op + ": nil node")
	}
	g := x.Graph()
	if !g.Ok() || !x.Ok() {
		return false
	}
	if b.dtype != tensor.Invalid && x.DType() != b.dtype {
		g.SetError(errors.Wrapf(graph.ErrDTypeMismatch, "%s.%s: input has dtype %s, bijector expects %s",
			b.name, op, x.DType(), b.dtype))
		return false
	}
	return true
}

// newEventShaper builds the shaper of bijectors with no batch axes of their own.
func newEventShaper(g *graph.Graph, cfg Config) (*Shaper, error) {
	shaper, err := NewShaper(graph.Int(g, 0), cfg.eventNdimsNode(g), cfg.ValidateArgs)
	if err != nil {
		return nil, errors.WithMessage(err, "event_ndims")
	}
	return shaper, nil
}
