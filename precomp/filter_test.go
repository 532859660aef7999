package precomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaEpochsAreUnique(t *testing.T) {
	a := NewSchema(4)
	b := NewSchema(4)

	assert.NotEqual(t, a.Epoch(), b.Epoch())
	assert.Equal(t, 4, a.NumPivots())
}

func TestSchemaNegativeSizeClamped(t *testing.T) {
	s := NewSchema(-3)
	assert.Equal(t, 0, s.NumPivots())
}

func TestFilterAddRespectsCapacity(t *testing.T) {
	s := NewSchema(2)
	f := NewFilter(s, 0)

	require.NoError(t, f.Add(1.5))
	require.NoError(t, f.Add(2.5))
	assert.Equal(t, 2, f.Len())

	err := f.Add(3.5)
	var capErr *ErrCapacityExceeded
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Capacity)
	assert.Equal(t, 2, f.Len())
}

func TestFilterAddWithoutSchema(t *testing.T) {
	f := &Filter{}
	assert.ErrorIs(t, f.Add(1), ErrNoSchema)
}

func TestFilterDistance(t *testing.T) {
	s := NewSchema(3)
	f := NewFilter(s, 3)
	require.NoError(t, f.Add(1))
	require.NoError(t, f.Add(UnknownDistance))
	require.NoError(t, f.Add(3))

	d, ok := f.Distance(0)
	assert.True(t, ok)
	assert.Equal(t, float32(1), d)

	_, ok = f.Distance(1)
	assert.False(t, ok, "unknown entry must not report a value")

	_, ok = f.Distance(-1)
	assert.False(t, ok)
	_, ok = f.Distance(3)
	assert.False(t, ok)
}

func TestFilterResetRebinds(t *testing.T) {
	s1 := NewSchema(1)
	f := NewFilter(s1, 1)
	require.NoError(t, f.Add(7))

	s2 := NewSchema(5)
	f.Reset(s2)
	assert.Equal(t, 0, f.Len())
	assert.Same(t, s2, f.Schema())

	for i := 0; i < 5; i++ {
		require.NoError(t, f.Add(float32(i)))
	}
}

func TestFilterCloneIsIndependent(t *testing.T) {
	s := NewSchema(2)
	f := NewFilter(s, 2)
	require.NoError(t, f.Add(1))

	c := f.Clone()
	assert.Same(t, f.Schema(), c.Schema())
	require.NoError(t, c.Add(2))

	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 2, c.Len())
}

func TestExcludeWithin(t *testing.T) {
	s := NewSchema(3)

	mk := func(dists ...float32) *Filter {
		f := NewFilter(s, len(dists))
		for _, d := range dists {
			if err := f.Add(d); err != nil {
				t.Fatal(err)
			}
		}
		return f
	}

	tests := []struct {
		name   string
		a, b   *Filter
		radius float32
		want   bool
	}{
		{"ProvablyFar", mk(10, 2), mk(1, 2), 5, true},
		{"Inconclusive", mk(10, 2), mk(6, 2), 5, false},
		{"BoundaryNotExcluded", mk(10), mk(5), 5, false},
		{"UnknownSkipped", mk(UnknownDistance, 9), mk(1, 1), 5, true},
		{"AllUnknown", mk(UnknownDistance), mk(UnknownDistance), 5, false},
		{"ShorterPrefix", mk(10), mk(1, 99), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.ExcludeWithin(tt.b, tt.radius)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncludeWithin(t *testing.T) {
	s := NewSchema(2)

	mk := func(dists ...float32) *Filter {
		f := NewFilter(s, len(dists))
		for _, d := range dists {
			if err := f.Add(d); err != nil {
				t.Fatal(err)
			}
		}
		return f
	}

	tests := []struct {
		name   string
		a, b   *Filter
		radius float32
		want   bool
	}{
		{"ProvablyClose", mk(2, 9), mk(1, 9), 5, true},
		{"Boundary", mk(3), mk(2), 5, true},
		{"Inconclusive", mk(4), mk(2), 5, false},
		{"UnknownSkipped", mk(UnknownDistance, 2), mk(9, 1), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.IncludeWithin(tt.b, tt.radius)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEpochMismatch(t *testing.T) {
	a := NewFilter(NewSchema(1), 1)
	b := NewFilter(NewSchema(1), 1)
	require.NoError(t, a.Add(1))
	require.NoError(t, b.Add(1))

	_, err := a.ExcludeWithin(b, 5)
	var epochErr *ErrEpochMismatch
	require.ErrorAs(t, err, &epochErr)
	assert.NotEqual(t, epochErr.Want, epochErr.Got)

	_, err = a.IncludeWithin(b, 5)
	assert.ErrorAs(t, err, &epochErr)
}

func TestNoSchemaComparison(t *testing.T) {
	a := &Filter{}
	b := NewFilter(NewSchema(1), 1)

	_, err := a.ExcludeWithin(b, 5)
	assert.ErrorIs(t, err, ErrNoSchema)
	_, err = b.IncludeWithin(a, 5)
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestIsUnknown(t *testing.T) {
	assert.True(t, IsUnknown(UnknownDistance))
	assert.False(t, IsUnknown(0))
	assert.False(t, IsUnknown(1.5))
}
