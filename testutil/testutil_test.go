package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.Less(t, v[0][0], float32(1.0))
	assert.GreaterOrEqual(t, v[1][0], float32(0.0))
}

func TestRNGReset(t *testing.T) {
	rng := NewRNG(99)

	a := rng.Intn(1000)
	rng.Reset()
	b := rng.Intn(1000)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(99), rng.Seed())
}

func TestPointDistance(t *testing.T) {
	a := NewPoint(2)
	b := NewPoint(-3)

	assert.Equal(t, float32(5), a.Distance(b))
	assert.Equal(t, float32(5), b.Distance(a))
	assert.Equal(t, float32(0), a.Distance(a))
}

func TestMatrixSpace(t *testing.T) {
	s := NewMatrixSpace([][]float32{
		{0, 1, 2},
		{1, 0, 3},
		{2, 3, 0},
	})

	assert.Equal(t, float32(3), s.Object(1).Distance(s.Object(2)))
	assert.Equal(t, 3, len(s.Objects()))
	assert.Equal(t, 2, s.Object(2).Index())
}

func TestMatrixSpaceRejectsRaggedMatrix(t *testing.T) {
	assert.Panics(t, func() {
		NewMatrixSpace([][]float32{{0, 1}, {1}})
	})
}
