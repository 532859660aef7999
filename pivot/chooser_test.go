package pivot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/testutil"
)

func TestChooserLazySuffixSelection(t *testing.T) {
	c := NewRandom(func(o *RandomOptions) { o.Seed = 42 })
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(1, 2, 3, 4, 5)))

	// Asking for position 2 fills positions 0..2 in one selection.
	p, err := c.Pivot(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, c.Len())

	// An already filled position does not reselect.
	p0, err := c.Pivot(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	again, err := c.Pivot(context.Background(), 0)
	require.NoError(t, err)
	assert.Same(t, p0, again)
}

func TestChooserInvalidPosition(t *testing.T) {
	c := NewRandom(func(o *RandomOptions) { o.Seed = 42 })
	_, err := c.Pivot(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestChooserNextAndLast(t *testing.T) {
	c := NewRandom(func(o *RandomOptions) { o.Seed = 42 })
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(1, 2, 3)))

	_, ok := c.Last()
	assert.False(t, ok)

	p, err := c.Next(context.Background())
	require.NoError(t, err)
	last, ok := c.Last()
	assert.True(t, ok)
	assert.Same(t, p, last)
	assert.Equal(t, 1, c.Len())
}

func TestChooserRemoveLastAndClear(t *testing.T) {
	c := NewRandom(func(o *RandomOptions) { o.Seed = 42 })
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(1, 2, 3, 4)))

	_, err := c.Pivot(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	c.RemoveLast()
	assert.Equal(t, 1, c.Len())

	c.RemoveLast()
	c.RemoveLast() // removing from empty is a no-op
	assert.Equal(t, 0, c.Len())

	_, err = c.Pivot(context.Background(), 2)
	require.NoError(t, err)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestChooserMergesProviders(t *testing.T) {
	c := NewRandom(func(o *RandomOptions) { o.Seed = 42 })
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(1)))
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(2)))
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(3)))

	// Three pivots need candidates from every provider.
	_, err := c.Pivot(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestChooserContextCanceled(t *testing.T) {
	c := NewRandom(func(o *RandomOptions) { o.Seed = 42 })
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(1, 2, 3)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Pivot(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
