package bijector

import (
	"strings"

	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
)

// InlineConfig holds the functions an Inline bijector delegates to.
type InlineConfig struct {
	ForwardFn               func(x *graph.Node) *graph.Node
	InverseFn               func(y *graph.Node) *graph.Node
	InverseLogDetJacobianFn func(y *graph.Node) *graph.Node

	// InverseAndInverseLogDetJacobianFn is optional. When nil the combined
	// operation calls InverseFn and InverseLogDetJacobianFn.
	InverseAndInverseLogDetJacobianFn func(y *graph.Node) (x, ildj *graph.Node)

	// Name defaults to "Inline".
	Name string

	// DType, when set, is checked against every input.
	DType tensor.DataType

	IsConstantJacobian bool
}

// Inline is a bijector built from user-supplied functions, for one-off
// transforms that don't deserve their own type. It does no shape bookkeeping
// of its own, so Shaper returns nil.
type Inline struct {
	base
	cfg InlineConfig
}

var _ Bijector = (*Inline)(nil)

// NewInline creates an Inline bijector. ForwardFn, InverseFn and
// InverseLogDetJacobianFn are required.
func NewInline(cfg InlineConfig) (*Inline, error) {
	var missing []string
	if cfg.ForwardFn == nil {
		missing = append(missing, "ForwardFn")
	}
	if cfg.InverseFn == nil {
		missing = append(missing, "InverseFn")
	}
	if cfg.InverseLogDetJacobianFn == nil {
		missing = append(missing, "InverseLogDetJacobianFn")
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(graph.ErrInvalidArgument, "Inline: missing required functions %s", strings.Join(missing, ", "))
	}
	return &Inline{
		base: base{
			name:               nameOr(cfg.Name, "Inline"),
			dtype:              cfg.DType,
			parameters:         map[string]*graph.Node{},
			isConstantJacobian: cfg.IsConstantJacobian,
		},
		cfg: cfg,
	}, nil
}

// Forward returns ForwardFn(x).
func (b *Inline) Forward(x *graph.Node) *graph.Node {
	if !b.checkDType("Forward", x) {
		return x.Graph().InvalidNode()
	}
	return b.cfg.ForwardFn(x)
}

// Inverse returns InverseFn(y).
func (b *Inline) Inverse(y *graph.Node) *graph.Node {
	if !b.checkDType("Inverse", y) {
		return y.Graph().InvalidNode()
	}
	return b.cfg.InverseFn(y)
}

// InverseLogDetJacobian returns InverseLogDetJacobianFn(y).
func (b *Inline) InverseLogDetJacobian(y *graph.Node) *graph.Node {
	if !b.checkDType("InverseLogDetJacobian", y) {
		return y.Graph().InvalidNode()
	}
	return b.cfg.InverseLogDetJacobianFn(y)
}

// InverseAndInverseLogDetJacobian uses the combined function when given.
func (b *Inline) InverseAndInverseLogDetJacobian(y *graph.Node) (x, ildj *graph.Node) {
	if b.cfg.InverseAndInverseLogDetJacobianFn == nil {
		return b.Inverse(y), b.InverseLogDetJacobian(y)
	}
	if !b.checkDType("InverseAndInverseLogDetJacobian", y) {
		invalid := y.Graph().InvalidNode()
		return invalid, invalid
	}
	return b.cfg.InverseAndInverseLogDetJacobianFn(y)
}
