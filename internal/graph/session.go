package graph

import (
	"context"
	"time"

	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// SessionConfig configures a Session.
type SessionConfig struct {
	// MaxParallel bounds the number of evaluations RunBatch runs at once.
	// Zero or negative means no bound.
	MaxParallel int
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{MaxParallel: 0}
}

// Session evaluates nodes of a graph against Feeds.
//
// A Session keeps no state between runs, so Run and RunBatch may be called
// concurrently, including with different feeds for the same fetches.
type Session struct {
	graph *Graph
	cfg   SessionConfig
}

// NewSession creates a session evaluating nodes of g.
func NewSession(g *Graph, cfg SessionConfig) *Session {
	return &Session{graph: g, cfg: cfg}
}

// Graph returns the session's graph.
func (s *Session) Graph() *Graph { return s.graph }

// Run evaluates fetches with the given feeds and returns their values, in order.
//
// Any error recorded while building the graph is returned first. Evaluation
// errors (unfed placeholders, shape mismatches only detectable with concrete
// values, failed assertions) are returned wrapped with the failing node.
// The context is checked between node evaluations.
//
// Returned tensors may share storage with constants and feeds; don't modify them.
func (s *Session) Run(ctx context.Context, fetches []*Node, feeds Feeds) ([]*tensor.RawTensor, error) {
	if err := s.graph.Error(); err != nil {
		return nil, errors.WithMessage(err, "graph building failed")
	}
	start := time.Now()

	values := make(map[*Node]*tensor.RawTensor, len(feeds))
	for node, value := range feeds {
		if node.graph != s.graph {
			return nil, errors.Errorf("feed for %s belongs to another graph", node)
		}
		if err := checkFeed(node, value); err != nil {
			return nil, err
		}
		values[node] = value
	}
	for i, fetch := range fetches {
		if !fetch.Ok() || fetch.graph != s.graph {
			return nil, errors.Errorf("fetch #%d (%s) is not a valid node of graph %q", i, fetch, s.graph.Name())
		}
	}

	evaluated := 0
	results := make([]*tensor.RawTensor, len(fetches))
	for i, fetch := range fetches {
		// Iterative post-order traversal: inputs always precede their users.
		stack := []*Node{fetch}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			if _, done := values[node]; done {
				stack = stack[:len(stack)-1]
				continue
			}
			if node.value != nil {
				values[node] = node.value
				stack = stack[:len(stack)-1]
				continue
			}
			if node.IsPlaceholder() {
				return nil, errors.Wrapf(ErrNotFed, "placeholder %q (%s)", node.name, node)
			}

			pending := false
			for _, in := range node.inputs {
				if _, done := values[in]; !done {
					stack = append(stack, in)
					pending = true
				}
			}
			if pending {
				continue
			}

			if err := ctx.Err(); err != nil {
				return nil, errors.Wrapf(err, "evaluating %s", node)
			}
			inputs := make([]*tensor.RawTensor, len(node.inputs))
			for j, in := range node.inputs {
				inputs[j] = values[in]
			}
			value, err := node.execute(s.graph.backend, inputs)
			if err != nil {
				return nil, errors.WithMessagef(err, "evaluating %s", node)
			}
			if klog.V(2).Enabled() {
				klog.Infof("graph %q: %s -> %v", s.graph.Name(), node, value.Shape())
			}
			values[node] = value
			evaluated++
			stack = stack[:len(stack)-1]
		}
		results[i] = values[fetch]
	}

	klog.V(1).Infof("graph %q: fetched %d nodes, evaluated %d in %s",
		s.graph.Name(), len(fetches), evaluated, time.Since(start))
	return results, nil
}

// RunBatch evaluates the same fetches once per element of batch, concurrently.
// results[i] holds the values for batch[i]. The first error cancels the
// remaining evaluations and is returned.
func (s *Session) RunBatch(ctx context.Context, fetches []*Node, batch []Feeds) ([][]*tensor.RawTensor, error) {
	results := make([][]*tensor.RawTensor, len(batch))
	eg, ctx := errgroup.WithContext(ctx)
	if s.cfg.MaxParallel > 0 {
		eg.SetLimit(s.cfg.MaxParallel)
	}
	for i, feeds := range batch {
		eg.Go(func() error {
			values, err := s.Run(ctx, fetches, feeds)
			if err != nil {
				return errors.WithMessagef(err, "batch entry #%d", i)
			}
			results[i] = values
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Eval is a convenience that evaluates a single node.
func (s *Session) Eval(ctx context.Context, fetch *Node, feeds Feeds) (*tensor.RawTensor, error) {
	values, err := s.Run(ctx, []*Node{fetch}, feeds)
	if err != nil {
		return nil, err
	}
	return values[0], nil
}
