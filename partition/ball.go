package partition

import (
	"fmt"

	"github.com/hupe1980/metrigo/core"
)

// Partition indices assigned by Ball.
const (
	BallInner = 0
	BallOuter = 1
)

// Compile-time check to ensure Ball satisfies the Policy interface.
var _ Policy = (*Ball)(nil)

// BallConfig configures a two-way ball partitioning policy.
type BallConfig struct {
	// Pivot is the anchor object. Required.
	Pivot core.Object

	// Radius is the covering radius of the inner partition.
	// Must be non-negative.
	Radius float32
}

// Ball splits the space into the closed ball around Pivot (inner) and
// everything beyond it (outer).
type Ball struct {
	pivot  core.Object
	radius float32
	last   lastDistance
}

// NewBall creates a ball partitioning policy.
func NewBall(cfg BallConfig) (*Ball, error) {
	if cfg.Pivot == nil {
		return nil, fmt.Errorf("%w: pivot is required", ErrNotConfigured)
	}
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("%w: radius %v is negative", ErrNotConfigured, cfg.Radius)
	}
	return &Ball{pivot: cfg.Pivot, radius: cfg.Radius}, nil
}

// PartitionCount returns 2.
func (b *Ball) PartitionCount() int { return 2 }

// Radius returns the configured covering radius.
func (b *Ball) Radius() float32 { return b.radius }

// LastDistance returns the most recently computed exact pivot distance.
// Diagnostic only.
func (b *Ball) LastDistance() float32 { return b.last.get() }

// Match returns BallInner when the object is within the radius of the
// pivot, BallOuter otherwise. Precomputed-distance shortcuts are tried
// before the exact distance computation.
func (b *Ball) Match(obj core.Object) (int, error) {
	c, err := precompContainment(obj, b.pivot, b.radius)
	if err != nil {
		return 0, err
	}
	switch c {
	case containInside:
		return BallInner, nil
	case containOutside:
		return BallOuter, nil
	}
	d := obj.Distance(b.pivot)
	b.last.set(d)
	if d <= b.radius {
		return BallInner, nil
	}
	return BallOuter, nil
}

// MatchRegion classifies a whole bounding ball: fully inner when the region
// fits inside the radius, fully outer when it clears it, Any otherwise.
func (b *Ball) MatchRegion(region core.BallRegion) (int, error) {
	d := region.Pivot().Distance(b.pivot)
	b.last.set(d)
	rr := region.Radius()
	if d+rr <= b.radius {
		return BallInner, nil
	}
	if d-rr > b.radius {
		return BallOuter, nil
	}
	return Any, nil
}
