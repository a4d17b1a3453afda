package graph

import (
	"testing"

	"github.com/born-ml/bijectors/internal/tensor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticShape(t *testing.T) {
	unknown := UnknownShape()
	_, known := unknown.Rank()
	assert.False(t, known)
	assert.False(t, unknown.IsFullyDefined())
	assert.True(t, unknown.CompatibleWith(tensor.Shape{2, 3}))
	assert.Equal(t, "<unknown>", unknown.String())

	partial := KnownShape(2, UnknownDim)
	rank, known := partial.Rank()
	assert.True(t, known)
	assert.Equal(t, 2, rank)
	assert.False(t, partial.IsFullyDefined())
	assert.True(t, partial.CompatibleWith(tensor.Shape{2, 7}))
	assert.False(t, partial.CompatibleWith(tensor.Shape{3, 7}))
	assert.False(t, partial.CompatibleWith(tensor.Shape{2}))
	assert.Equal(t, "[2 ?]", partial.String())

	d, ok := partial.Dim(-2)
	assert.True(t, ok)
	assert.Equal(t, 2, d)
	_, ok = partial.Dim(1)
	assert.False(t, ok)

	full, ok := KnownShape(4, 5).Shape()
	require.True(t, ok)
	assert.Equal(t, tensor.Shape{4, 5}, full)

	scalar := KnownShape()
	assert.True(t, scalar.IsFullyDefined())
}

func TestBroadcastStatic(t *testing.T) {
	tests := []struct {
		name    string
		shapes  []StaticShape
		want    string
		wantErr bool
	}{
		{"known", []StaticShape{KnownShape(3, 1), KnownShape(5)}, "[3 5]", false},
		{"scalar", []StaticShape{KnownShape(), KnownShape(2, 2)}, "[2 2]", false},
		{"unknown dim resolved by other", []StaticShape{KnownShape(UnknownDim), KnownShape(4)}, "[4]", false},
		{"unknown dim against one", []StaticShape{KnownShape(UnknownDim), KnownShape(1)}, "[?]", false},
		{"unknown rank", []StaticShape{UnknownShape(), KnownShape(4)}, "<unknown>", false},
		{"three way", []StaticShape{KnownShape(2, 1, 1), KnownShape(3, 1), KnownShape(4)}, "[2 3 4]", false},
		{"incompatible", []StaticShape{KnownShape(3), KnownShape(4)}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := broadcastStatic(tt.shapes...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrShapeMismatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
