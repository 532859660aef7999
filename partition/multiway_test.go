package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/precomp"
	"github.com/hupe1980/metrigo/testutil"
)

func TestNewMultiWayBallValidation(t *testing.T) {
	pivot := testutil.NewPoint(0)

	tests := []struct {
		name string
		cfg  MultiWayBallConfig
	}{
		{"NilPivot", MultiWayBallConfig{Radii: []float32{1}}},
		{"NoRadii", MultiWayBallConfig{Pivot: pivot}},
		{"NegativeRadius", MultiWayBallConfig{Pivot: pivot, Radii: []float32{-1, 2}}},
		{"NotAscending", MultiWayBallConfig{Pivot: pivot, Radii: []float32{1, 3, 2}}},
		{"Duplicate", MultiWayBallConfig{Pivot: pivot, Radii: []float32{1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMultiWayBall(tt.cfg)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestMultiWayBallMatch(t *testing.T) {
	m, err := NewMultiWayBall(MultiWayBallConfig{
		Pivot: testutil.NewPoint(0),
		Radii: []float32{5, 10, 15},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, m.PartitionCount())

	tests := []struct {
		x    float32
		want int
	}{
		{0, 0},
		{3, 0},
		{5, 0}, // boundary belongs to the inner band
		{5.0001, 1},
		{10, 1},
		{10.0001, 2},
		{15, 2},
		{20, 3},
	}

	for _, tt := range tests {
		got, err := m.Match(testutil.NewPoint(tt.x))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Match(%v)", tt.x)
	}
}

func TestMultiWayBallMatchMonotone(t *testing.T) {
	m, err := NewMultiWayBall(MultiWayBallConfig{
		Pivot: testutil.NewPoint(0),
		Radii: []float32{2, 4, 8, 16},
	})
	require.NoError(t, err)

	prev := 0
	for x := float32(0); x <= 20; x += 0.25 {
		got, err := m.Match(testutil.NewPoint(x))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "band index must not decrease with distance at %v", x)
		prev = got
	}
}

func TestMultiWayBallMatchFilterAgreesWithExact(t *testing.T) {
	pivotX := float32(0)
	radii := []float32{5, 10, 15}
	xs := []float32{0, 4, 5, 6, 9, 10, 11, 15, 16, 40}

	plain := testutil.Points(xs...)
	filtered := testutil.Points(xs...)
	fp := testutil.NewPoint(pivotX)
	attachFilters(t, []core.Object{fp}, filtered...)

	mp, err := NewMultiWayBall(MultiWayBallConfig{Pivot: testutil.NewPoint(pivotX), Radii: radii})
	require.NoError(t, err)
	mf, err := NewMultiWayBall(MultiWayBallConfig{Pivot: fp, Radii: radii})
	require.NoError(t, err)

	for i := range xs {
		want, err := mp.Match(plain[i])
		require.NoError(t, err)
		got, err := mf.Match(filtered[i])
		require.NoError(t, err)
		assert.Equal(t, want, got, "x=%v", xs[i])
	}
}

func TestMultiWayBallMatchShortcutBeyondAllBands(t *testing.T) {
	pivot := testutil.NewPoint(0)
	m, err := NewMultiWayBall(MultiWayBallConfig{
		Pivot: pivot,
		Radii: []float32{5, 10},
	})
	require.NoError(t, err)

	schema := precomp.NewSchema(1)
	pf := precomp.NewFilter(schema, 1)
	require.NoError(t, pf.Add(0))
	pivot.ChainFilter(pf, true)

	obj := &noExactDistance{t: t}
	f := precomp.NewFilter(schema, 1)
	require.NoError(t, f.Add(50)) // provably beyond every boundary
	obj.ChainFilter(f, true)

	got, err := m.Match(obj)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestMultiWayBallMatchRegion(t *testing.T) {
	m, err := NewMultiWayBall(MultiWayBallConfig{
		Pivot: testutil.NewPoint(0),
		Radii: []float32{5, 10, 15},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		center float32
		radius float32
		want   int
	}{
		{"FullyInnermost", 2, 2, 0},
		{"StraddlesFirst", 5, 1, Any},
		{"FullySecond", 7.5, 1, 1},
		{"SecondInnerBoundary", 7, 2, Any}, // low == 5 is not strictly beyond
		{"FullyThird", 12.5, 1, 2},
		{"FullyBeyond", 30, 5, 3},
		{"StraddlesLast", 15, 2, Any},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.MatchRegion(core.NewBall(testutil.NewPoint(tt.center), tt.radius))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultiWayBallRadiiCopied(t *testing.T) {
	radii := []float32{1, 2, 3}
	m, err := NewMultiWayBall(MultiWayBallConfig{Pivot: testutil.NewPoint(0), Radii: radii})
	require.NoError(t, err)

	radii[0] = 99
	got := m.Radii()
	assert.Equal(t, float32(1), got[0])

	got[1] = 99
	assert.Equal(t, float32(2), m.Radii()[1])
}
