package partition

import (
	"fmt"

	"github.com/hupe1980/metrigo/core"
)

// Compile-time check to ensure Voronoi satisfies the Policy interface.
var _ Policy = (*Voronoi)(nil)

// VoronoiConfig configures a Voronoi-like partitioning policy.
type VoronoiConfig struct {
	// Pivots are the cell anchors, one partition per pivot. At least one is
	// required and none may be nil.
	Pivots []core.Object
}

// Voronoi assigns every object to the partition of its nearest pivot.
type Voronoi struct {
	pivots []core.Object
	last   lastDistance
}

// NewVoronoi creates a Voronoi-like partitioning policy.
func NewVoronoi(cfg VoronoiConfig) (*Voronoi, error) {
	if len(cfg.Pivots) == 0 {
		return nil, fmt.Errorf("%w: at least one pivot is required", ErrNotConfigured)
	}
	for i, p := range cfg.Pivots {
		if p == nil {
			return nil, fmt.Errorf("%w: pivot %d is nil", ErrNotConfigured, i)
		}
	}
	pivots := make([]core.Object, len(cfg.Pivots))
	copy(pivots, cfg.Pivots)
	return &Voronoi{pivots: pivots}, nil
}

// PartitionCount returns the number of pivots.
func (v *Voronoi) PartitionCount() int { return len(v.pivots) }

// LastDistance returns the most recently computed winning pivot distance.
// Diagnostic only.
func (v *Voronoi) LastDistance() float32 { return v.last.get() }

// Match returns the index of the nearest pivot by exact distance. A later
// pivot at equal distance does not overwrite an earlier minimum: the first
// minimum wins.
func (v *Voronoi) Match(obj core.Object) (int, error) {
	best := 0
	bestDist := obj.Distance(v.pivots[0])
	for i := 1; i < len(v.pivots); i++ {
		d := obj.Distance(v.pivots[i])
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	v.last.set(bestDist)
	return best, nil
}

// MatchRegion is not supported: a bounding ball generally intersects several
// Voronoi cells and this policy does not approximate. Callers must match
// objects individually.
func (v *Voronoi) MatchRegion(region core.BallRegion) (int, error) {
	return 0, fmt.Errorf("%w: voronoi cells", ErrRegionUnsupported)
}
