package bijector

import "github.com/born-ml/bijectors/internal/graph"

// Softplus is the bijector Y = log(1 + exp(X)).
//
// Forward is computed as max(x, 0) + log1p(exp(-|x|)), so it neither overflows
// for large x nor underflows for very negative x. The inverse
// log(exp(y) - 1) is computed as y + log(-expm1(-y)), which stays accurate
// both near y = 0 and for large y.
type Softplus struct {
	base
}

var _ Bijector = (*Softplus)(nil)

// NewSoftplus creates a Softplus bijector with cfg.EventNdims trailing event axes.
func NewSoftplus(g *graph.Graph, cfg Config) (*Softplus, error) {
	shaper, err := newEventShaper(g, cfg)
	if err != nil {
		return nil, err
	}
	return &Softplus{base{
		name:         nameOr(cfg.Name, "Softplus"),
		shaper:       shaper,
		parameters:   map[string]*graph.Node{"event_ndims": shaper.EventNdims().Node()},
		validateArgs: cfg.ValidateArgs,
	}}, nil
}

// Forward returns log(1 + exp(x)).
func (b *Softplus) Forward(x *graph.Node) *graph.Node {
	if !b.checkDType("Forward", x) {
		return x.Graph().InvalidNode()
	}
	x = b.shaper.CheckRank(x)
	return graph.Softplus(x)
}

// logOneMinusExpNeg returns log(1 - exp(-y)), the negated per-element inverse
// log-det-Jacobian.
func logOneMinusExpNeg(y *graph.Node) *graph.Node {
	return graph.Log(graph.Neg(graph.Expm1(graph.Neg(y))))
}

// Inverse returns log(exp(y) - 1).
func (b *Softplus) Inverse(y *graph.Node) *graph.Node {
	if !b.checkDType("Inverse", y) {
		return y.Graph().InvalidNode()
	}
	y = b.shaper.CheckRank(y)
	return graph.Add(y, logOneMinusExpNeg(y))
}

// InverseLogDetJacobian returns -sum(log(1 - exp(-y))) over the event axes.
func (b *Softplus) InverseLogDetJacobian(y *graph.Node) *graph.Node {
	_, ildj := b.InverseAndInverseLogDetJacobian(y)
	return ildj
}

// InverseAndInverseLogDetJacobian computes log(1 - exp(-y)) once for both results.
func (b *Softplus) InverseAndInverseLogDetJacobian(y *graph.Node) (x, ildj *graph.Node) {
	if !b.checkDType("InverseAndInverseLogDetJacobian", y) {
		invalid := y.Graph().InvalidNode()
		return invalid, invalid
	}
	y = b.shaper.CheckRank(y)
	inner := logOneMinusExpNeg(y)
	return graph.Add(y, inner), graph.Neg(b.shaper.ReduceEventDims(inner))
}
