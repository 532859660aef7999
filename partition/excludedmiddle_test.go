package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/testutil"
)

func TestNewExcludedMiddleValidation(t *testing.T) {
	pivot := testutil.NewPoint(0)

	tests := []struct {
		name string
		cfg  ExcludedMiddleConfig
	}{
		{"NilPivot", ExcludedMiddleConfig{Radius: 10, Rho: 2}},
		{"NegativeRadius", ExcludedMiddleConfig{Pivot: pivot, Radius: -1, Rho: 0}},
		{"NegativeRho", ExcludedMiddleConfig{Pivot: pivot, Radius: 10, Rho: -1}},
		{"RhoAboveRadius", ExcludedMiddleConfig{Pivot: pivot, Radius: 10, Rho: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExcludedMiddle(tt.cfg)
			assert.ErrorIs(t, err, ErrNotConfigured)
		})
	}
}

func TestExcludedMiddleMatch(t *testing.T) {
	// Radius 10 with half-width 2: inner ends at 8, outer begins past 12.
	e, err := NewExcludedMiddle(ExcludedMiddleConfig{
		Pivot:  testutil.NewPoint(0),
		Radius: 10,
		Rho:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, e.PartitionCount())

	tests := []struct {
		x    float32
		want int
	}{
		{0, ExcludedMiddleInner},
		{7, ExcludedMiddleInner},
		{8, ExcludedMiddleInner}, // inner boundary is closed
		{9, ExcludedMiddleExcluded},
		{12, ExcludedMiddleExcluded}, // outer boundary belongs to the annulus
		{13, ExcludedMiddleOuter},
		{100, ExcludedMiddleOuter},
	}

	for _, tt := range tests {
		got, err := e.Match(testutil.NewPoint(tt.x))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Match(%v)", tt.x)
	}
}

func TestExcludedMiddleZeroRhoDegeneratesToBall(t *testing.T) {
	e, err := NewExcludedMiddle(ExcludedMiddleConfig{
		Pivot:  testutil.NewPoint(0),
		Radius: 5,
		Rho:    0,
	})
	require.NoError(t, err)
	b, err := NewBall(BallConfig{Pivot: testutil.NewPoint(0), Radius: 5})
	require.NoError(t, err)

	for _, x := range []float32{0, 2.5, 5, 5.0001, 9} {
		wantBall, err := b.Match(testutil.NewPoint(x))
		require.NoError(t, err)
		got, err := e.Match(testutil.NewPoint(x))
		require.NoError(t, err)

		want := ExcludedMiddleInner
		if wantBall == BallOuter {
			want = ExcludedMiddleOuter
		}
		assert.Equal(t, want, got, "x=%v", x)
	}
}

func TestExcludedMiddleMatchFilterAgreesWithExact(t *testing.T) {
	pivotX := float32(0)
	xs := []float32{0, 5, 8, 8.5, 10, 12, 12.5, 30}

	plain := testutil.Points(xs...)
	filtered := testutil.Points(xs...)
	fp := testutil.NewPoint(pivotX)
	attachFilters(t, []core.Object{fp}, filtered...)

	ep, err := NewExcludedMiddle(ExcludedMiddleConfig{Pivot: testutil.NewPoint(pivotX), Radius: 10, Rho: 2})
	require.NoError(t, err)
	ef, err := NewExcludedMiddle(ExcludedMiddleConfig{Pivot: fp, Radius: 10, Rho: 2})
	require.NoError(t, err)

	for i := range xs {
		want, err := ep.Match(plain[i])
		require.NoError(t, err)
		got, err := ef.Match(filtered[i])
		require.NoError(t, err)
		assert.Equal(t, want, got, "x=%v", xs[i])
	}
}

func TestExcludedMiddleMatchRegion(t *testing.T) {
	e, err := NewExcludedMiddle(ExcludedMiddleConfig{
		Pivot:  testutil.NewPoint(0),
		Radius: 10,
		Rho:    2,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		center float32
		radius float32
		want   int
	}{
		{"FullyInner", 3, 2, ExcludedMiddleInner},
		{"InnerBoundary", 6, 2, ExcludedMiddleInner},
		{"StraddlesInner", 8, 2, Any},
		{"FullyExcluded", 10.5, 1, ExcludedMiddleExcluded},
		{"StraddlesOuter", 12, 2, Any},
		{"FullyOuter", 20, 3, ExcludedMiddleOuter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.MatchRegion(core.NewBall(testutil.NewPoint(tt.center), tt.radius))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExcludedMiddleMatchIsTotal(t *testing.T) {
	e, err := NewExcludedMiddle(ExcludedMiddleConfig{
		Pivot:  testutil.NewPoint(0),
		Radius: 10,
		Rho:    2,
	})
	require.NoError(t, err)

	for x := float32(0); x <= 30; x += 0.5 {
		got, err := e.Match(testutil.NewPoint(x))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0)
		assert.Less(t, got, e.PartitionCount())
	}
}
