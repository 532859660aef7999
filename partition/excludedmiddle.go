package partition

import (
	"fmt"

	"github.com/hupe1980/metrigo/core"
)

// Partition indices assigned by ExcludedMiddle.
const (
	ExcludedMiddleInner    = 0
	ExcludedMiddleOuter    = 1
	ExcludedMiddleExcluded = 2
)

// Compile-time check to ensure ExcludedMiddle satisfies the Policy interface.
var _ Policy = (*ExcludedMiddle)(nil)

// ExcludedMiddleConfig configures a ball partitioning policy with an
// excluded annulus around the boundary.
type ExcludedMiddleConfig struct {
	// Pivot is the anchor object. Required.
	Pivot core.Object

	// Radius is the center of the excluded annulus.
	Radius float32

	// Rho is the half-width of the excluded annulus. Must be non-negative
	// and no larger than Radius.
	Rho float32
}

// ExcludedMiddle splits the space into three partitions: the ball of radius
// Radius-Rho (inner), everything beyond Radius+Rho (outer), and the annulus
// between them (excluded).
type ExcludedMiddle struct {
	pivot  core.Object
	radius float32
	rho    float32
	last   lastDistance
}

// NewExcludedMiddle creates an excluded-middle ball partitioning policy.
func NewExcludedMiddle(cfg ExcludedMiddleConfig) (*ExcludedMiddle, error) {
	if cfg.Pivot == nil {
		return nil, fmt.Errorf("%w: pivot is required", ErrNotConfigured)
	}
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("%w: radius %v is negative", ErrNotConfigured, cfg.Radius)
	}
	if cfg.Rho < 0 || cfg.Rho > cfg.Radius {
		return nil, fmt.Errorf("%w: rho %v outside [0, radius]", ErrNotConfigured, cfg.Rho)
	}
	return &ExcludedMiddle{pivot: cfg.Pivot, radius: cfg.Radius, rho: cfg.Rho}, nil
}

// PartitionCount returns 3.
func (e *ExcludedMiddle) PartitionCount() int { return 3 }

// LastDistance returns the most recently computed exact pivot distance.
// Diagnostic only.
func (e *ExcludedMiddle) LastDistance() float32 { return e.last.get() }

// Match classifies the object against the two annulus boundaries, trying
// precomputed-distance shortcuts for each boundary before falling back to
// one exact distance computation.
func (e *ExcludedMiddle) Match(obj core.Object) (int, error) {
	inner := e.radius - e.rho
	outer := e.radius + e.rho

	ci, err := precompContainment(obj, e.pivot, inner)
	if err != nil {
		return 0, err
	}
	if ci == containInside {
		return ExcludedMiddleInner, nil
	}
	co, err := precompContainment(obj, e.pivot, outer)
	if err != nil {
		return 0, err
	}
	if co == containOutside {
		return ExcludedMiddleOuter, nil
	}
	// Provably beyond the inner boundary and within the outer one.
	if ci == containOutside && co == containInside {
		return ExcludedMiddleExcluded, nil
	}

	d := obj.Distance(e.pivot)
	e.last.set(d)
	switch {
	case d <= inner:
		return ExcludedMiddleInner, nil
	case d > outer:
		return ExcludedMiddleOuter, nil
	default:
		return ExcludedMiddleExcluded, nil
	}
}

// MatchRegion tests the region extent against both annulus boundaries.
// A region spanning more than one partition yields Any.
func (e *ExcludedMiddle) MatchRegion(region core.BallRegion) (int, error) {
	d := region.Pivot().Distance(e.pivot)
	e.last.set(d)
	rr := region.Radius()
	inner := e.radius - e.rho
	outer := e.radius + e.rho

	switch {
	case d+rr <= inner:
		return ExcludedMiddleInner, nil
	case d-rr > outer:
		return ExcludedMiddleOuter, nil
	case d-rr > inner && d+rr <= outer:
		return ExcludedMiddleExcluded, nil
	default:
		return Any, nil
	}
}
