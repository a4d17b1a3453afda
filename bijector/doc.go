// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bijector provides invertible, differentiable transformations for
// reparameterizing probability distributions.
//
// # Overview
//
// A Bijector maps X to Y = g(X) and provides:
//   - Forward(x): g(x)
//   - Inverse(y): g⁻¹(y)
//   - InverseLogDetJacobian(y): log|det J(g⁻¹)(y)|, summed over event axes
//
// Available bijectors:
//   - Identity: Y = X
//   - Exp: Y = exp(X)
//   - Softplus: Y = log(1 + exp(X))
//   - ScaleAndShift: Y = scale·X + loc, with scalar or matrix scale
//   - Inline: Y = f(X) for user-supplied functions
//
// # Basic Usage
//
//	g := graph.New(cpu.New())
//	b, err := bijector.NewScaleAndShift(bijector.ScaleAndShiftConfig{
//	    Loc:        graph.Const(g, []float64{1, -1}),
//	    Scale:      graph.Const(g, [][]float64{{2, 0}, {0, 2}}),
//	    EventNdims: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	x := graph.Placeholder(g, "x", tensor.Float64, graph.UnknownShape())
//	y := b.Forward(x)
//	ildj := b.InverseLogDetJacobian(y)
//
// All operations return graph nodes, evaluated with a graph.Session. Loc,
// scale, inputs and even the event rank may be placeholders: a Shaper
// resolves sample, batch and event axes statically when it can and defers
// the computation to evaluation time otherwise.
package bijector
