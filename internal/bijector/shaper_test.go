package bijector

import (
	"context"
	"fmt"
	"testing"

	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaperStatic(t *testing.T) {
	g := newTestGraph()
	s, err := NewShaper(graph.Int(g, 1), graph.Int(g, 2), false)
	require.NoError(t, err)
	assert.True(t, s.IsStatic())

	x := graph.Const(g, tensor.Zeros(tensor.Shape{4, 5, 2, 3, 6}, tensor.Float64))
	ndims, ok := s.GetNdims(x).Resolved()
	assert.True(t, ok)
	assert.Equal(t, 5, ndims)
	sampleNdims, ok := s.GetSampleNdims(x).Resolved()
	assert.True(t, ok)
	assert.Equal(t, 2, sampleNdims)

	// Everything folds to constants.
	sample, batch, event := s.GetDims(x)
	for _, n := range []*graph.Node{sample, batch, event} {
		assert.True(t, n.IsConstant(), "%s", n)
	}
	sampleShape, batchShape, eventShape := s.GetShape(x)
	for _, tt := range []struct {
		node *graph.Node
		want []int
	}{
		{sample, []int{0, 1}},
		{batch, []int{2}},
		{event, []int{3, 4}},
		{sampleShape, []int{4, 5}},
		{batchShape, []int{2}},
		{eventShape, []int{3, 6}},
	} {
		got, ok := tt.node.IntValues()
		assert.True(t, ok, "%s", tt.node)
		assert.Equal(t, tt.want, got)
	}
}

func TestShaperDynamic(t *testing.T) {
	g := newTestGraph()
	batchNdims := graph.Placeholder(g, "batch_ndims", tensor.Int32, graph.KnownShape())
	eventNdims := graph.Placeholder(g, "event_ndims", tensor.Int32, graph.KnownShape())
	s, err := NewShaper(batchNdims, eventNdims, true)
	require.NoError(t, err)
	assert.False(t, s.IsStatic())
	_, ok := s.EventNdims().Resolved()
	assert.False(t, ok)
	assert.Contains(t, s.EventNdims().String(), "deferred")

	x := graph.Placeholder(g, "x", tensor.Float64, graph.UnknownShape())
	feeds := graph.Feeds{}
	require.NoError(t, feeds.Set(batchNdims, 1))
	require.NoError(t, feeds.Set(eventNdims, 2))
	require.NoError(t, feeds.Set(x, tensor.Zeros(tensor.Shape{4, 5, 2, 3, 6}, tensor.Float64)))

	sample, batch, event := s.GetDims(x)
	sampleShape, batchShape, eventShape := s.GetShape(x)
	values := eval(t, feeds, s.GetNdims(x).Node(), s.GetSampleNdims(x).Node(),
		sample, batch, event, sampleShape, batchShape, eventShape)
	assert.Equal(t, 5, int(values[0].Item()))
	assert.Equal(t, 2, int(values[1].Item()))
	assert.Equal(t, []int{0, 1}, values[2].Ints())
	assert.Equal(t, []int{2}, values[3].Ints())
	assert.Equal(t, []int{3, 4}, values[4].Ints())
	assert.Equal(t, []int{4, 5}, values[5].Ints())
	assert.Equal(t, []int{2}, values[6].Ints())
	assert.Equal(t, []int{3, 6}, values[7].Ints())

	// Same graph, different ranks fed.
	require.NoError(t, feeds.Set(batchNdims, 0))
	require.NoError(t, feeds.Set(eventNdims, 0))
	values = eval(t, feeds, sampleShape, batchShape, eventShape)
	assert.Equal(t, []int{4, 5, 2, 3, 6}, values[0].Ints())
	assert.Empty(t, values[1].Ints())
	assert.Empty(t, values[2].Ints())
}

func TestShaperReduceEventDims(t *testing.T) {
	x := [][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}}
	tests := []struct {
		eventNdims int
		want       any
	}{
		{0, x},
		{1, [][]float64{{3, 7}, {11, 15}}},
		{2, []float64{10, 26}},
		{3, 36.0},
	}
	for _, tt := range tests {
		for _, m := range modes {
			t.Run(fmt.Sprintf("event_ndims=%d/%s", tt.eventNdims, m.name), func(t *testing.T) {
				g := newTestGraph()
				s, err := NewShaper(graph.Int(g, 0), graph.Int(g, tt.eventNdims), false)
				require.NoError(t, err)
				assertAllClose(t, tt.want, m.run(t, g, s.ReduceEventDims, x))
			})
		}
	}
}

func TestShaperErrors(t *testing.T) {
	t.Run("NegativeRank", func(t *testing.T) {
		g := newTestGraph()
		_, err := NewShaper(graph.Int(g, -1), graph.Int(g, 0), false)
		assert.True(t, errors.Is(err, graph.ErrInvalidArgument), "got %v", err)
	})

	t.Run("NonInt32Rank", func(t *testing.T) {
		g := newTestGraph()
		_, err := NewShaper(graph.Int(g, 0), graph.Const(g, 1.0), false)
		assert.True(t, errors.Is(err, graph.ErrDTypeMismatch), "got %v", err)
	})

	t.Run("NonScalarRank", func(t *testing.T) {
		g := newTestGraph()
		_, err := NewShaper(graph.Ints(g, 0, 1), graph.Int(g, 0), false)
		assert.True(t, errors.Is(err, graph.ErrShapeMismatch), "got %v", err)
	})

	t.Run("TooFewAxesStatic", func(t *testing.T) {
		g := newTestGraph()
		s, err := NewShaper(graph.Int(g, 1), graph.Int(g, 1), false)
		require.NoError(t, err)
		s.GetSampleNdims(graph.Const(g, []float64{1, 2}))
		assert.True(t, errors.Is(g.Error(), graph.ErrShapeMismatch), "got %v", g.Error())
	})

	t.Run("NegativeRankValidated", func(t *testing.T) {
		g := newTestGraph()
		ev := graph.Placeholder(g, "event_ndims", tensor.Int32, graph.KnownShape())
		s, err := NewShaper(graph.Int(g, 0), ev, true)
		require.NoError(t, err)
		feeds := graph.Feeds{}
		require.NoError(t, feeds.Set(ev, -2))
		err = evalErr(t, feeds, s.EventNdims().Node())
		assert.True(t, errors.Is(err, graph.ErrInvalidArgument), "got %v", err)
	})

	t.Run("TooFewAxesValidated", func(t *testing.T) {
		g := newTestGraph()
		s, err := NewShaper(graph.Int(g, 1), graph.Int(g, 1), true)
		require.NoError(t, err)
		x := graph.Placeholder(g, "x", tensor.Float64, graph.UnknownShape())
		feeds := graph.Feeds{}
		require.NoError(t, feeds.Set(x, []float64{1, 2}))
		err = evalErr(t, feeds, s.GetSampleNdims(x).Node())
		assert.True(t, errors.Is(err, graph.ErrInvalidArgument), "got %v", err)
	})
}

// TestConcurrentEvaluation evaluates one bijector's graph from many
// goroutines: graphs are immutable once built and safe to share.
func TestConcurrentEvaluation(t *testing.T) {
	g := newTestGraph()
	b, err := NewScaleAndShift(ScaleAndShiftConfig{
		Loc:        graph.Const(g, []float64{1, -1}),
		Scale:      graph.Const(g, [][]float64{{2, 0}, {0, 4}}),
		EventNdims: 1,
	})
	require.NoError(t, err)
	x := graph.Placeholder(g, "x", tensor.Float64, graph.KnownShape(graph.UnknownDim, 2))
	y := b.Forward(x)
	back := b.Inverse(y)

	batch := make([]graph.Feeds, 64)
	for i := range batch {
		batch[i] = graph.Feeds{}
		require.NoError(t, batch[i].Set(x, [][]float64{{float64(i), float64(-i)}}))
	}
	session := graph.NewSession(g, graph.SessionConfig{MaxParallel: 8})
	results, err := session.RunBatch(context.Background(), []*graph.Node{y, back}, batch)
	require.NoError(t, err)
	require.Len(t, results, len(batch))
	for i, r := range results {
		v := float64(i)
		assertAllClose(t, [][]float64{{2*v + 1, -4*v - 1}}, r[0])
		assertAllClose(t, [][]float64{{v, -v}}, r[1])
	}
}
