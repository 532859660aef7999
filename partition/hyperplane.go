package partition

import (
	"fmt"

	"github.com/hupe1980/metrigo/core"
)

// Partition indices assigned by Hyperplane.
const (
	HyperplaneLeft  = 0
	HyperplaneRight = 1
)

// Compile-time check to ensure Hyperplane satisfies the Policy interface.
var _ Policy = (*Hyperplane)(nil)

// HyperplaneConfig configures a generalized-hyperplane partitioning policy.
type HyperplaneConfig struct {
	// Left and Right are the two anchor pivots. Both required.
	Left  core.Object
	Right core.Object
}

// Hyperplane splits the space along the generalized hyperplane between two
// pivots: objects closer to (or equidistant from) the left pivot go left,
// the rest go right.
type Hyperplane struct {
	left  core.Object
	right core.Object

	// halfPivotDistance is d(left, right)/2, recomputed whenever either
	// pivot changes. Objects within this distance of the left pivot cannot
	// be closer to the right one.
	halfPivotDistance float32

	last lastDistance
}

// NewHyperplane creates a generalized-hyperplane partitioning policy.
func NewHyperplane(cfg HyperplaneConfig) (*Hyperplane, error) {
	if cfg.Left == nil || cfg.Right == nil {
		return nil, fmt.Errorf("%w: both pivots are required", ErrNotConfigured)
	}
	h := &Hyperplane{}
	h.setPivots(cfg.Left, cfg.Right)
	return h, nil
}

func (h *Hyperplane) setPivots(left, right core.Object) {
	h.left = left
	h.right = right
	h.halfPivotDistance = left.Distance(right) / 2
}

// SetPivots replaces both pivots and recomputes the derived half pivot
// distance.
func (h *Hyperplane) SetPivots(left, right core.Object) error {
	if left == nil || right == nil {
		return fmt.Errorf("%w: both pivots are required", ErrNotConfigured)
	}
	h.setPivots(left, right)
	return nil
}

// SetLeft replaces the left pivot and recomputes the derived half pivot
// distance.
func (h *Hyperplane) SetLeft(left core.Object) error {
	if left == nil {
		return fmt.Errorf("%w: left pivot is required", ErrNotConfigured)
	}
	h.setPivots(left, h.right)
	return nil
}

// SetRight replaces the right pivot and recomputes the derived half pivot
// distance.
func (h *Hyperplane) SetRight(right core.Object) error {
	if right == nil {
		return fmt.Errorf("%w: right pivot is required", ErrNotConfigured)
	}
	h.setPivots(h.left, right)
	return nil
}

// PartitionCount returns 2.
func (h *Hyperplane) PartitionCount() int { return 2 }

// HalfPivotDistance returns the derived d(left, right)/2.
func (h *Hyperplane) HalfPivotDistance() float32 { return h.halfPivotDistance }

// LastDistance returns the most recently computed exact left-pivot distance.
// Diagnostic only.
func (h *Hyperplane) LastDistance() float32 { return h.last.get() }

// Match returns HyperplaneLeft when the object is closer to or equidistant
// from the left pivot, HyperplaneRight otherwise. An object within half the
// inter-pivot distance of the left pivot resolves without computing the
// right-pivot distance.
func (h *Hyperplane) Match(obj core.Object) (int, error) {
	c, err := precompContainment(obj, h.left, h.halfPivotDistance)
	if err != nil {
		return 0, err
	}
	if c == containInside {
		return HyperplaneLeft, nil
	}

	dl := obj.Distance(h.left)
	h.last.set(dl)
	if dl <= h.halfPivotDistance {
		return HyperplaneLeft, nil
	}
	dr := obj.Distance(h.right)
	if dl <= dr {
		return HyperplaneLeft, nil
	}
	return HyperplaneRight, nil
}

// MatchRegion classifies a bounding ball against the hyperplane. The right
// boundary uses a strict comparison where the left uses a closed one; the
// asymmetry is inherited behavior kept for compatibility.
func (h *Hyperplane) MatchRegion(region core.BallRegion) (int, error) {
	rr := region.Radius()

	dl := region.Pivot().Distance(h.left)
	h.last.set(dl)
	if dl+rr <= h.halfPivotDistance {
		return HyperplaneLeft, nil
	}
	dr := region.Pivot().Distance(h.right)
	if dr+rr < h.halfPivotDistance {
		return HyperplaneRight, nil
	}
	return Any, nil
}
