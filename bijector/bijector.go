// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package bijector

import (
	"github.com/born-ml/bijectors/graph"
	"github.com/born-ml/bijectors/internal/bijector"
)

// Bijector is an invertible, differentiable transformation Y = g(X).
//
// Operations don't return errors: invalid inputs are recorded on the graph
// (see graph.Graph.Error) and reported by graph.Session.Run.
type Bijector = bijector.Bijector

// Config configures Identity, Exp and Softplus.
type Config = bijector.Config

// Shaper splits the axes of arrays into sample, batch and event axes.
type Shaper = bijector.Shaper

// Ndims is a rank, resolved while building or deferred to evaluation.
type Ndims = bijector.Ndims

// Bijector implementations.
type (
	Identity      = bijector.Identity
	Exp           = bijector.Exp
	Softplus      = bijector.Softplus
	ScaleAndShift = bijector.ScaleAndShift
	Inline        = bijector.Inline
)

// ScaleAndShiftConfig configures a ScaleAndShift bijector.
type ScaleAndShiftConfig = bijector.ScaleAndShiftConfig

// InlineConfig holds the functions an Inline bijector delegates to.
type InlineConfig = bijector.InlineConfig

// NewIdentity creates the bijector Y = X.
func NewIdentity(g *graph.Graph, cfg Config) (*Identity, error) {
	return bijector.NewIdentity(g, cfg)
}

// NewExp creates the bijector Y = exp(X).
//
// Example:
//
//	b, err := bijector.NewExp(g, bijector.Config{EventNdims: 1})
func NewExp(g *graph.Graph, cfg Config) (*Exp, error) {
	return bijector.NewExp(g, cfg)
}

// NewSoftplus creates the bijector Y = log(1 + exp(X)).
func NewSoftplus(g *graph.Graph, cfg Config) (*Softplus, error) {
	return bijector.NewSoftplus(g, cfg)
}

// NewScaleAndShift creates the bijector Y = scale·X + loc on the graph of cfg.Scale.
func NewScaleAndShift(cfg ScaleAndShiftConfig) (*ScaleAndShift, error) {
	return bijector.NewScaleAndShift(cfg)
}

// NewInline creates a bijector from user-supplied functions.
//
// Example:
//
//	b, err := bijector.NewInline(bijector.InlineConfig{
//	    ForwardFn: graph.Exp,
//	    InverseFn: graph.Log,
//	    InverseLogDetJacobianFn: func(y *graph.Node) *graph.Node {
//	        return graph.Neg(graph.ReduceSumAxes(graph.Log(y), -1))
//	    },
//	})
func NewInline(cfg InlineConfig) (*Inline, error) {
	return bijector.NewInline(cfg)
}

// NewShaper creates a shaper from Int32 scalar nodes for the batch and event ranks.
func NewShaper(batchNdims, eventNdims *graph.Node, validateArgs bool) (*Shaper, error) {
	return bijector.NewShaper(batchNdims, eventNdims, validateArgs)
}
