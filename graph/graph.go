// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package graph

import (
	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/tensor"
)

// Graph holds the nodes of a deferred computation and its first build error.
type Graph = graph.Graph

// Node is one operation of a Graph. Its dtype and static shape are known
// when it is created; its value only once a Session evaluates it, unless it
// was folded.
type Node = graph.Node

// NodeID identifies a node within its graph.
type NodeID = graph.NodeID

// InvalidNodeID is the ID of the node returned by failed operations.
const InvalidNodeID = graph.InvalidNodeID

// StaticShape is the shape of a node as known while building: the rank
// may be unknown, and so may individual dimensions.
type StaticShape = graph.StaticShape

// UnknownDim marks a dimension of a StaticShape known only at evaluation.
const UnknownDim = graph.UnknownDim

// Feeds binds placeholders to values for one evaluation.
type Feeds = graph.Feeds

// Session evaluates nodes of a Graph.
type Session = graph.Session

// SessionConfig configures a Session.
type SessionConfig = graph.SessionConfig

// Error categories, for use with errors.Is.
var (
	ErrShapeMismatch   = graph.ErrShapeMismatch
	ErrDTypeMismatch   = graph.ErrDTypeMismatch
	ErrNotFed          = graph.ErrNotFed
	ErrInvalidArgument = graph.ErrInvalidArgument
)

// New creates an empty graph whose nodes are evaluated by backend.
func New(backend tensor.Backend) *Graph {
	return graph.New(backend)
}

// NewNamed is like New, naming the graph for logs and error messages.
func NewNamed(backend tensor.Backend, name string) *Graph {
	return graph.NewNamed(backend, name)
}

// NewSession creates a session evaluating g.
func NewSession(g *Graph, cfg SessionConfig) *Session {
	return graph.NewSession(g, cfg)
}

// DefaultSessionConfig returns the default session settings.
func DefaultSessionConfig() SessionConfig {
	return graph.DefaultSessionConfig()
}

// UnknownShape returns a shape of unknown rank.
func UnknownShape() StaticShape { return graph.UnknownShape() }

// KnownShape returns a shape with the given dims; UnknownDim marks unknown ones.
// With no dims it is the shape of a scalar.
func KnownShape(dims ...int) StaticShape { return graph.KnownShape(dims...) }

// UnknownDims returns a shape of known rank whose dims are all unknown.
func UnknownDims(rank int) StaticShape { return graph.UnknownDims(rank) }
