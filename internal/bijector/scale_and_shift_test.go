package bijector

import (
	"math"
	"testing"

	"github.com/born-ml/bijectors/internal/graph"
	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scaleAndShiftCase describes a ScaleAndShift bijector and its expected
// values on one or more inputs.
type scaleAndShiftCase struct {
	name                string
	loc, scale          any
	eventNdims          int
	batchNdims          int
	x, forward, inverse []any
	ildj                any
}

var scaleAndShiftCases = []scaleAndShiftCase{
	{
		name: "NoBatchScalar", loc: -1.0, scale: 2.0, batchNdims: 0,
		x:       []any{[]float64{1, 2, 3}, [][]float64{{1, 2, 3}, {4, 5, 6}}},
		forward: []any{[]float64{1, 3, 5}, [][]float64{{1, 3, 5}, {7, 9, 11}}},
		inverse: []any{[]float64{1, 1.5, 2}, [][]float64{{1, 1.5, 2}, {2.5, 3, 3.5}}},
		ildj:    []float64{-math.Ln2},
	},
	{
		name: "OneBatchScalar", loc: []float64{1}, scale: []float64{1}, batchNdims: 1,
		x:       []any{[]float64{1}},
		forward: []any{[]float64{2}},
		inverse: []any{[]float64{0}},
		ildj:    []float64{0},
	},
	{
		name: "TwoBatchScalar", loc: []float64{1, -1}, scale: []float64{1, 1}, batchNdims: 1,
		x:       []any{[]float64{1, 1}},
		forward: []any{[]float64{2, 0}},
		inverse: []any{[]float64{0, 2}},
		ildj:    []float64{0, 0},
	},
	{
		name: "NoBatchMultivariate", loc: []float64{1, -1}, scale: [][]float64{{1, 0}, {0, 1}},
		eventNdims: 1, batchNdims: 0,
		x:       []any{[]float64{1, 1}, [][]float64{{1, 1}, {-1, -1}}},
		forward: []any{[]float64{2, 0}, [][]float64{{2, 0}, {0, -2}}},
		inverse: []any{[]float64{0, 2}, [][]float64{{0, 2}, {-2, 0}}},
		ildj:    []float64{0},
	},
	{
		name: "ScalarLocMultivariate", loc: 1.0, scale: [][]float64{{1, 0}, {0, 1}},
		eventNdims: 1, batchNdims: 0,
		x:       []any{[]float64{1, 1}, [][]float64{{1, 1}}},
		forward: []any{[]float64{2, 2}, [][]float64{{2, 2}}},
		inverse: []any{[]float64{0, 0}, [][]float64{{0, 0}}},
		ildj:    []float64{0},
	},
	{
		name: "BatchMultivariate", loc: [][]float64{{1, -1}}, scale: [][][]float64{{{1, 0}, {0, 1}}},
		eventNdims: 1, batchNdims: 1,
		x:       []any{[][][]float64{{{1, 1}}}},
		forward: []any{[][][]float64{{{2, 0}}}},
		inverse: []any{[][][]float64{{{0, 2}}}},
		ildj:    []float64{0},
	},
	{
		name: "NonDiagonal", loc: []float64{0, 1}, scale: [][]float64{{2, 1}, {0, 4}},
		eventNdims: 1, batchNdims: 0,
		x:       []any{[]float64{1, 2}},
		forward: []any{[]float64{4, 9}},
		inverse: []any{[]float64{0.375, 0.25}},
		ildj:    []float64{-math.Log(8)},
	},
}

// buildScaleAndShift creates the bijector of c. With dynamic set, loc, scale
// and event_ndims are all placeholders of unknown shape, registered in feeds.
func buildScaleAndShift(t *testing.T, g *graph.Graph, feeds graph.Feeds, c scaleAndShiftCase, dynamic bool) *ScaleAndShift {
	t.Helper()
	cfg := ScaleAndShiftConfig{EventNdims: c.eventNdims}
	if dynamic {
		cfg.Loc = graph.Placeholder(g, "loc", tensor.Float64, graph.UnknownShape())
		cfg.Scale = graph.Placeholder(g, "scale", tensor.Float64, graph.UnknownShape())
		cfg.EventNdimsNode = graph.Placeholder(g, "event_ndims", tensor.Int32, graph.KnownShape())
		require.NoError(t, feeds.Set(cfg.Loc, c.loc))
		require.NoError(t, feeds.Set(cfg.Scale, c.scale))
		require.NoError(t, feeds.Set(cfg.EventNdimsNode, c.eventNdims))
	} else {
		cfg.Loc = graph.Const(g, c.loc)
		cfg.Scale = graph.Const(g, c.scale)
	}
	b, err := NewScaleAndShift(cfg)
	require.NoError(t, err)
	return b
}

func TestScaleAndShift(t *testing.T) {
	for _, c := range scaleAndShiftCases {
		for _, m := range modes {
			t.Run(c.name+"/"+m.name, func(t *testing.T) {
				g := newTestGraph()
				b := buildScaleAndShift(t, g, nil, c, false)
				assert.Equal(t, "ScaleAndShift", b.Name())
				assert.True(t, b.IsConstantJacobian())
				assert.True(t, b.Shaper().IsStatic())
				batch, _ := b.Shaper().BatchNdims().Resolved()
				event, _ := b.Shaper().EventNdims().Resolved()
				assert.Equal(t, c.batchNdims, batch)
				assert.Equal(t, c.eventNdims, event)

				for i, x := range c.x {
					assertAllClose(t, c.forward[i], m.run(t, g, b.Forward, x))
					assertAllClose(t, c.inverse[i], m.run(t, g, b.Inverse, x))
					assertAllClose(t, c.ildj, m.run(t, g, b.InverseLogDetJacobian, x))
				}
			})
		}
	}
}

// TestScaleAndShiftFullyDynamic feeds x, loc, scale and event_ndims at
// evaluation time; nothing about their shapes is known while building.
func TestScaleAndShiftFullyDynamic(t *testing.T) {
	for _, c := range scaleAndShiftCases {
		t.Run(c.name, func(t *testing.T) {
			g := newTestGraph()
			feeds := graph.Feeds{}
			b := buildScaleAndShift(t, g, feeds, c, true)
			assert.False(t, b.Shaper().IsStatic())

			for i, x := range c.x {
				in := graph.Placeholder(g, "x", tensor.Float64, graph.UnknownShape())
				require.NoError(t, feeds.Set(in, x))

				rev, jac := b.InverseAndInverseLogDetJacobian(in)
				values := eval(t, feeds, b.Forward(in), rev, jac,
					b.Shaper().BatchNdims().Node(), b.Shaper().EventNdims().Node())
				assertAllClose(t, c.forward[i], values[0])
				assertAllClose(t, c.inverse[i], values[1])
				assertAllClose(t, c.ildj, values[2])
				assert.InDelta(t, float64(c.batchNdims), values[3].Item(), 0)
				assert.InDelta(t, float64(c.eventNdims), values[4].Item(), 0)
			}
		})
	}
}

func TestScaleAndShiftFloat32(t *testing.T) {
	g := newTestGraph()
	b, err := NewScaleAndShift(ScaleAndShiftConfig{
		Loc:   graph.Const(g, float32(-1)),
		Scale: graph.Const(g, float32(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, tensor.Float32, b.DType())

	values := eval(t, nil, b.Forward(graph.Const(g, []float32{1, 2, 3})))
	assert.Equal(t, tensor.Float32, values[0].DType())
	assertAllClose(t, []float32{1, 3, 5}, values[0])
}

func TestScaleAndShiftConstructionErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(g *graph.Graph) ScaleAndShiftConfig
		wantErr error
	}{
		{"MissingLoc", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Scale: graph.Const(g, 1.0)}
		}, graph.ErrInvalidArgument},
		{"OtherGraph", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(newTestGraph(), 1.0), Scale: graph.Const(g, 1.0)}
		}, graph.ErrInvalidArgument},
		{"LocDType", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, float32(1)), Scale: graph.Const(g, 1.0)}
		}, graph.ErrDTypeMismatch},
		{"IntScale", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, 1), Scale: graph.Const(g, 1)}
		}, graph.ErrDTypeMismatch},
		{"EventNdimsTwo", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, 1.0), Scale: graph.Const(g, 1.0), EventNdims: 2}
		}, graph.ErrInvalidArgument},
		{"EventNdimsNegative", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, 1.0), Scale: graph.Const(g, 1.0), EventNdims: -1}
		}, graph.ErrInvalidArgument},
		{"EventNdimsFloat", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, 1.0), Scale: graph.Const(g, 1.0), EventNdimsNode: graph.Const(g, 1.0)}
		}, graph.ErrDTypeMismatch},
		{"VectorEventScalarScale", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, 1.0), Scale: graph.Const(g, []float64{1, 2}), EventNdims: 1}
		}, graph.ErrShapeMismatch},
		{"NonSquareScale", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, 1.0), Scale: graph.Const(g, [][]float64{{1, 2, 3}, {4, 5, 6}}), EventNdims: 1}
		}, graph.ErrShapeMismatch},
		{"LocScaleMismatch", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, []float64{1, 2, 3}), Scale: graph.Const(g, []float64{1, 2})}
		}, graph.ErrShapeMismatch},
		{"LocScaleMismatchMultivariate", func(g *graph.Graph) ScaleAndShiftConfig {
			return ScaleAndShiftConfig{Loc: graph.Const(g, []float64{1, 2, 3}), Scale: graph.Const(g, [][]float64{{1, 0}, {0, 1}}), EventNdims: 1}
		}, graph.ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScaleAndShift(tt.cfg(newTestGraph()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestScaleAndShiftDynamicErrors(t *testing.T) {
	t.Run("EventNdimsOutOfRange", func(t *testing.T) {
		g := newTestGraph()
		ev := graph.Placeholder(g, "event_ndims", tensor.Int32, graph.KnownShape())
		b, err := NewScaleAndShift(ScaleAndShiftConfig{
			Loc: graph.Const(g, 1.0), Scale: graph.Const(g, 1.0), EventNdimsNode: ev,
		})
		require.NoError(t, err)

		feeds := graph.Feeds{}
		require.NoError(t, feeds.Set(ev, 2))
		err = evalErr(t, feeds, b.Forward(graph.Const(g, []float64{1})))
		assert.True(t, errors.Is(err, graph.ErrInvalidArgument), "got %v", err)
	})

	t.Run("VectorEventScalarScale", func(t *testing.T) {
		g := newTestGraph()
		scale := graph.Placeholder(g, "scale", tensor.Float64, graph.UnknownShape())
		b, err := NewScaleAndShift(ScaleAndShiftConfig{Loc: graph.Const(g, 1.0), Scale: scale, EventNdims: 1})
		require.NoError(t, err)

		feeds := graph.Feeds{}
		require.NoError(t, feeds.Set(scale, 2.0))
		err = evalErr(t, feeds, b.Forward(graph.Const(g, []float64{1, 1})))
		assert.True(t, errors.Is(err, graph.ErrShapeMismatch), "got %v", err)
	})

	t.Run("LocScaleMismatch", func(t *testing.T) {
		g := newTestGraph()
		loc := graph.Placeholder(g, "loc", tensor.Float64, graph.UnknownShape())
		b, err := NewScaleAndShift(ScaleAndShiftConfig{Loc: loc, Scale: graph.Const(g, []float64{1, 2})})
		require.NoError(t, err)
		x := graph.Const(g, []float64{1, 1})

		feeds := graph.Feeds{}
		require.NoError(t, feeds.Set(loc, []float64{1, 2, 3}))
		for _, out := range []*graph.Node{b.Forward(x), b.Inverse(x), b.InverseLogDetJacobian(x)} {
			err := evalErr(t, feeds, out)
			assert.True(t, errors.Is(err, graph.ErrShapeMismatch), "got %v", err)
		}

		require.NoError(t, feeds.Set(loc, []float64{1, 2}))
		assertAllClose(t, []float64{2, 4}, eval(t, feeds, b.Forward(x))[0])
	})

	t.Run("SingularScale", func(t *testing.T) {
		g := newTestGraph()
		b, err := NewScaleAndShift(ScaleAndShiftConfig{
			Loc: graph.Const(g, 0.0), Scale: graph.Const(g, [][]float64{{1, 2}, {2, 4}}), EventNdims: 1,
		})
		require.NoError(t, err)
		evalErr(t, nil, b.Inverse(graph.Const(g, []float64{1, 1})))

		// The log-det-Jacobian of a singular scale is +Inf, not an error.
		got := eval(t, nil, b.InverseLogDetJacobian(graph.Const(g, []float64{1, 1})))[0].Float64s()
		assert.True(t, math.IsInf(got[0], 1))
	})
}
