package bijector

import "github.com/born-ml/bijectors/internal/graph"

// Exp is the bijector Y = exp(X).
//
// The inverse log-det-Jacobian is -sum(log(y)) over the event axes.
type Exp struct {
	base
}

var _ Bijector = (*Exp)(nil)

// NewExp creates an Exp bijector with cfg.EventNdims trailing event axes.
func NewExp(g *graph.Graph, cfg Config) (*Exp, error) {
	shaper, err := newEventShaper(g, cfg)
	if err != nil {
		return nil, err
	}
	return &Exp{base{
		name:         nameOr(cfg.Name, "Exp"),
		shaper:       shaper,
		parameters:   map[string]*graph.Node{"event_ndims": shaper.EventNdims().Node()},
		validateArgs: cfg.ValidateArgs,
	}}, nil
}

// Forward returns exp(x).
func (b *Exp) Forward(x *graph.Node) *graph.Node {
	if !b.checkDType("Forward", x) {
		return x.Graph().InvalidNode()
	}
	x = b.shaper.CheckRank(x)
	return graph.Exp(x)
}

// Inverse returns log(y).
func (b *Exp) Inverse(y *graph.Node) *graph.Node {
	if !b.checkDType("Inverse", y) {
		return y.Graph().InvalidNode()
	}
	y = b.shaper.CheckRank(y)
	return graph.Log(y)
}

// InverseLogDetJacobian returns -sum(log(y)) over the event axes.
func (b *Exp) InverseLogDetJacobian(y *graph.Node) *graph.Node {
	_, ildj := b.InverseAndInverseLogDetJacobian(y)
	return ildj
}

// InverseAndInverseLogDetJacobian computes log(y) once for both results.
func (b *Exp) InverseAndInverseLogDetJacobian(y *graph.Node) (x, ildj *graph.Node) {
	if !b.checkDType("InverseAndInverseLogDetJacobian", y) {
		invalid := y.Graph().InvalidNode()
		return invalid, invalid
	}
	y = b.shaper.CheckRank(y)
	logY := graph.Log(y)
	return logY, graph.Neg(b.shaper.ReduceEventDims(logY))
}
