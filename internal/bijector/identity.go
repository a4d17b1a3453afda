package bijector

import "github.com/born-ml/bijectors/internal/graph"

// Identity is the bijector Y = X.
type Identity struct {
	base
}

var _ Bijector = (*Identity)(nil)

// NewIdentity creates an Identity bijector. Only cfg.ValidateArgs, cfg.Name
// and the event rank are used.
func NewIdentity(g *graph.Graph, cfg Config) (*Identity, error) {
	shaper, err := newEventShaper(g, cfg)
	if err != nil {
		return nil, err
	}
	return &Identity{base{
		name:               nameOr(cfg.Name, "Identity"),
		shaper:             shaper,
		parameters:         map[string]*graph.Node{"event_ndims": shaper.EventNdims().Node()},
		validateArgs:       cfg.ValidateArgs,
		isConstantJacobian: true,
	}}, nil
}

// Forward returns x.
func (b *Identity) Forward(x *graph.Node) *graph.Node {
	if !b.checkDType("Forward", x) {
		return x.Graph().InvalidNode()
	}
	x = b.shaper.CheckRank(x)
	return x
}

// Inverse returns y.
func (b *Identity) Inverse(y *graph.Node) *graph.Node {
	if !b.checkDType("Inverse", y) {
		return y.Graph().InvalidNode()
	}
	y = b.shaper.CheckRank(y)
	return y
}

// InverseLogDetJacobian returns a scalar zero of y's dtype, which broadcasts
// to any batch shape.
func (b *Identity) InverseLogDetJacobian(y *graph.Node) *graph.Node {
	if !b.checkDType("InverseLogDetJacobian", y) {
		return y.Graph().InvalidNode()
	}
	return graph.ScalarLike(y, 0)
}

// InverseAndInverseLogDetJacobian returns (y, 0).
func (b *Identity) InverseAndInverseLogDetJacobian(y *graph.Node) (x, ildj *graph.Node) {
	return b.Inverse(y), b.InverseLogDetJacobian(y)
}
