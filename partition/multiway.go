package partition

import (
	"fmt"
	"slices"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/interval"
)

// Compile-time check to ensure MultiWayBall satisfies the Policy interface.
var _ Policy = (*MultiWayBall)(nil)

// MultiWayBallConfig configures a multi-way ball partitioning policy.
type MultiWayBallConfig struct {
	// Pivot is the anchor object. Required.
	Pivot core.Object

	// Radii are the band boundaries in strictly ascending order, producing
	// len(Radii)+1 partitions. At least one radius is required.
	Radii []float32
}

// MultiWayBall splits the space into concentric distance bands around a
// single pivot. Band i covers distances in (radii[i-1], radii[i]]; band
// len(radii) covers everything beyond the last radius.
type MultiWayBall struct {
	pivot core.Object
	radii interval.Bands[float32]
	last  lastDistance
}

// NewMultiWayBall creates a multi-way ball partitioning policy.
func NewMultiWayBall(cfg MultiWayBallConfig) (*MultiWayBall, error) {
	if cfg.Pivot == nil {
		return nil, fmt.Errorf("%w: pivot is required", ErrNotConfigured)
	}
	if len(cfg.Radii) == 0 {
		return nil, fmt.Errorf("%w: at least one radius is required", ErrNotConfigured)
	}
	if cfg.Radii[0] < 0 {
		return nil, fmt.Errorf("%w: radius %v is negative", ErrNotConfigured, cfg.Radii[0])
	}
	for i := 1; i < len(cfg.Radii); i++ {
		if cfg.Radii[i] <= cfg.Radii[i-1] {
			return nil, fmt.Errorf("%w: radii must be strictly ascending", ErrNotConfigured)
		}
	}
	return &MultiWayBall{
		pivot: cfg.Pivot,
		radii: slices.Clone(cfg.Radii),
	}, nil
}

// PartitionCount returns len(radii)+1.
func (m *MultiWayBall) PartitionCount() int { return len(m.radii) + 1 }

// Radii returns the configured band boundaries.
func (m *MultiWayBall) Radii() []float32 { return slices.Clone(m.radii) }

// LastDistance returns the most recently computed exact pivot distance.
// Diagnostic only.
func (m *MultiWayBall) LastDistance() float32 { return m.last.get() }

// Match walks the band boundaries in ascending order, trying the
// precomputed-distance shortcuts per boundary. The walk stays conclusive
// only while every earlier boundary was provably crossed; on the first
// inconclusive boundary it falls back to a single exact distance
// computation reused across all boundaries.
func (m *MultiWayBall) Match(obj core.Object) (int, error) {
	conclusive := true
	for i, r := range m.radii {
		c, err := precompContainment(obj, m.pivot, r)
		if err != nil {
			return 0, err
		}
		// Reaching boundary i means every earlier boundary was provably
		// crossed, so a proven inclusion pins the band exactly.
		if c == containInside {
			return i, nil
		}
		if c != containOutside {
			conclusive = false
			break
		}
	}
	if conclusive {
		// Provably beyond every boundary.
		return len(m.radii), nil
	}

	d := obj.Distance(m.pivot)
	m.last.set(d)
	return m.radii.Locate(d), nil
}

// MatchRegion returns the band fully containing the region, or Any when the
// region straddles a boundary.
func (m *MultiWayBall) MatchRegion(region core.BallRegion) (int, error) {
	d := region.Pivot().Distance(m.pivot)
	m.last.set(d)
	rr := region.Radius()
	low, high := d-rr, d+rr

	for i, r := range m.radii {
		if high <= r {
			if i == 0 || low > m.radii[i-1] {
				return i, nil
			}
			return Any, nil
		}
	}
	if low > m.radii[len(m.radii)-1] {
		return len(m.radii), nil
	}
	return Any, nil
}
