package graph

import (
	"context"
	"testing"

	"github.com/born-ml/bijectors/internal/backend/cpu"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *Graph {
	return NewNamed(cpu.New(), "test")
}

// evalNode evaluates a single node, failing the test on error.
func evalNode(t *testing.T, n *Node, feeds Feeds) *tensor.RawTensor {
	t.Helper()
	value, err := NewSession(n.Graph(), DefaultSessionConfig()).Eval(context.Background(), n, feeds)
	require.NoError(t, err)
	return value
}
