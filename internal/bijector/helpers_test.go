package bijector

import (
	"context"
	"testing"

	"github.com/born-ml/bijectors/internal/backend/cpu"
	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *graph.Graph {
	return graph.NewNamed(cpu.New(), "bijector_test")
}

// eval evaluates nodes on their graph, failing the test on error.
func eval(t *testing.T, feeds graph.Feeds, nodes ...*graph.Node) []*tensor.RawTensor {
	t.Helper()
	require.NotEmpty(t, nodes)
	values, err := graph.NewSession(nodes[0].Graph(), graph.DefaultSessionConfig()).
		Run(context.Background(), nodes, feeds)
	require.NoError(t, err)
	return values
}

// evalErr evaluates a node and returns the error, which must not be nil.
func evalErr(t *testing.T, feeds graph.Feeds, node *graph.Node) error {
	t.Helper()
	_, err := graph.NewSession(node.Graph(), graph.DefaultSessionConfig()).
		Eval(context.Background(), node, feeds)
	require.Error(t, err)
	return err
}

// assertAllClose checks shape and values of got against the Go value want.
func assertAllClose(t *testing.T, want any, got *tensor.RawTensor) {
	t.Helper()
	wantT := tensor.MustFromValue(want)
	assert.Equal(t, wantT.Shape(), got.Shape(), "shape")
	opts := cmp.Options{cmpopts.EquateApprox(1e-6, 1e-9), cmpopts.EquateNaNs()}
	if diff := cmp.Diff(wantT.Float64s(), got.Float64s(), opts); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

// mode builds an input node holding value: a constant (static shapes) or a
// placeholder of unknown shape fed at evaluation (dynamic shapes).
type mode struct {
	name  string
	input func(t *testing.T, g *graph.Graph, feeds graph.Feeds, value any) *graph.Node
}

var modes = []mode{
	{"static", func(_ *testing.T, g *graph.Graph, _ graph.Feeds, value any) *graph.Node {
		return graph.Const(g, value)
	}},
	{"dynamic", func(t *testing.T, g *graph.Graph, feeds graph.Feeds, value any) *graph.Node {
		x := graph.Placeholder(g, "x", tensor.MustFromValue(value).DType(), graph.UnknownShape())
		require.NoError(t, feeds.Set(x, value))
		return x
	}},
}

// run applies fn to value in the given mode and evaluates the result.
func (m mode) run(t *testing.T, g *graph.Graph, fn func(*graph.Node) *graph.Node, value any) *tensor.RawTensor {
	t.Helper()
	feeds := graph.Feeds{}
	return eval(t, feeds, fn(m.input(t, g, feeds, value)))[0]
}
