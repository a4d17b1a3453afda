// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides deferred evaluation of array computations.
//
// # Overview
//
// Operations on a Graph do not compute anything: they add nodes. A Session
// evaluates the nodes asked for, on concrete values fed for placeholders.
// Ints and booleans derived from constants are folded while building, so
// shape arithmetic on statically known shapes yields constants right away,
// and the same code also works when shapes are only known at evaluation.
//
// # Basic Usage
//
//	g := graph.New(cpu.New())
//	x := graph.Placeholder(g, "x", tensor.Float64, graph.UnknownShape())
//	y := graph.Add(graph.Exp(x), graph.Const(g, 1.0))
//
//	feeds := graph.Feeds{}
//	if err := feeds.Set(x, []float64{0, 1}); err != nil {
//	    return err
//	}
//	out, err := graph.NewSession(g, graph.DefaultSessionConfig()).Eval(ctx, y, feeds)
//
// # Errors
//
// Build errors are deferred: the first one is stored in the Graph, the
// offending operation returns an invalid node, and later operations are
// no-ops. Check Graph.Error() after building, or let Session.Run report it.
// Errors wrap ErrShapeMismatch, ErrDTypeMismatch, ErrNotFed or
// ErrInvalidArgument and can be matched with errors.Is.
//
// # Thread Safety
//
// Adding nodes is serialized by the graph. Once built, a graph can be
// evaluated by any number of Sessions concurrently.
package graph
