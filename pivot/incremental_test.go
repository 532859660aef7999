package pivot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/resource"
	"github.com/hupe1980/metrigo/testutil"
)

func TestIncrementalSelectsExtremePoint(t *testing.T) {
	// On the line, an endpoint of the candidate range achieves the maximum
	// separation |d(l,p) - d(r,p)| = d(l,r) for every probe pair. The first
	// candidate scoring the maximum wins, and candidates are evaluated in
	// pool order.
	objs := testutil.Points(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	c := NewIncremental(func(o *IncrementalOptions) { o.Seed = 21 })
	c.RegisterSampleProvider(core.SliceProvider(objs))

	p, err := c.Pivot(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, float32(0), p.(*testutil.Point).X)
}

func TestIncrementalSelectsRequestedCount(t *testing.T) {
	objs := testutil.Points(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	members := make(map[core.Object]bool, len(objs))
	for _, o := range objs {
		members[o] = true
	}

	c := NewIncremental(func(o *IncrementalOptions) { o.Seed = 21 })
	c.RegisterSampleProvider(core.SliceProvider(objs))

	_, err := c.Pivot(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	for i := 0; i < 3; i++ {
		p, err := c.Pivot(context.Background(), i)
		require.NoError(t, err)
		assert.True(t, members[p])
	}
}

func TestIncrementalChargesController(t *testing.T) {
	ctrl := resource.NewController(resource.Config{})

	c := NewIncremental(func(o *IncrementalOptions) {
		o.Seed = 21
		o.Controller = ctrl
	})
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(0, 1, 2, 3, 4, 5)))

	_, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Greater(t, ctrl.DistanceCount(), int64(0))
}

func TestIncrementalTooFewObjects(t *testing.T) {
	c := NewIncremental(func(o *IncrementalOptions) { o.Seed = 21 })
	c.RegisterSampleProvider(core.SliceProvider(testutil.Points(1)))

	_, err := c.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestIncrementalEmptySamples(t *testing.T) {
	c := NewIncremental(func(o *IncrementalOptions) { o.Seed = 21 })
	_, err := c.Next(context.Background())
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestIDistanceKeepsProbeSample(t *testing.T) {
	objs := testutil.Points(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	c := NewIncrementalIDistance(func(o *IncrementalOptions) { o.Seed = 21 })
	c.RegisterSampleProvider(core.SliceProvider(objs))

	_, err := c.Next(context.Background())
	require.NoError(t, err)
	require.True(t, c.est.ready())

	left := c.est.left

	_, err = c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, left, c.est.left, "probe pairs survive across selections")
}

func TestIDistanceDriftInvalidatesSample(t *testing.T) {
	objs := testutil.Points(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	c := NewIncrementalIDistance(func(o *IncrementalOptions) { o.Seed = 21 })
	c.RegisterSampleProvider(core.SliceProvider(objs))

	_, err := c.Next(context.Background())
	require.NoError(t, err)
	require.True(t, c.est.ready())

	// Sample size is 10 (five pairs); the 0.2 drift threshold trips once
	// more than two objects have churned.
	c.NotifyPopulationChange(1)
	assert.True(t, c.est.ready())
	c.NotifyPopulationChange(-1)
	assert.True(t, c.est.ready())
	c.NotifyPopulationChange(1)
	assert.False(t, c.est.ready(), "accumulated drift must invalidate the sample")

	// The next selection rebuilds.
	_, err = c.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, c.est.ready())
}

func TestIDistanceDriftBeforeSample(t *testing.T) {
	c := NewIncrementalIDistance(func(o *IncrementalOptions) { o.Seed = 21 })
	c.NotifyPopulationChange(100) // no sample yet, nothing to invalidate
	assert.False(t, c.est.ready())
}
