package partition

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/hupe1980/metrigo/core"
)

// Any is the ambiguous region result: the bounding region straddles more
// than one partition and must be resolved object by object. It is never
// returned for a single object.
const Any = -1

var (
	// ErrNotConfigured is returned when a policy is constructed or used
	// before all required parameters are set.
	ErrNotConfigured = errors.New("partition: policy is not fully configured")

	// ErrRegionUnsupported is returned by policies that cannot classify
	// bounding regions. Callers must fall back to per-object matching.
	ErrRegionUnsupported = errors.New("partition: region matching not supported")
)

// Policy assigns objects and bounding regions to partitions.
//
// Implementations are constructed once per split operation with a typed
// config struct and discarded after the split completes. Match calls are
// safe to run concurrently; the last-distance inspection field is
// diagnostic only.
type Policy interface {
	// PartitionCount returns the fixed number of partitions.
	PartitionCount() int

	// Match returns the partition index for obj in [0, PartitionCount()).
	// A single object always resolves to exactly one partition.
	Match(obj core.Object) (int, error)

	// MatchRegion returns the index of the partition fully containing
	// region, or Any when the region straddles a boundary.
	MatchRegion(region core.BallRegion) (int, error)
}

// lastDistance stores the most recently computed exact pivot distance as an
// inspection aid. It is kept atomic so concurrent Match calls stay race
// free; the value is diagnostic and never used for correctness.
type lastDistance struct {
	bits atomic.Uint32
}

func (l *lastDistance) set(d float32) {
	l.bits.Store(math.Float32bits(d))
}

func (l *lastDistance) get() float32 {
	return math.Float32frombits(l.bits.Load())
}

// containment is the three-valued outcome of a precomputed-distance test.
type containment int

const (
	containUnknown containment = iota
	containInside
	containOutside
)

// precompContainment applies the triangle-inequality shortcuts between obj
// and pivot for the ball of the given radius. A containUnknown result means
// the caller must fall back to an exact distance computation.
func precompContainment(obj, pivot core.Object, radius float32) (containment, error) {
	fo, fp := core.FilterOf(obj), core.FilterOf(pivot)
	if fo == nil || fp == nil {
		return containUnknown, nil
	}
	ok, err := fo.IncludeWithin(fp, radius)
	if err != nil {
		return containUnknown, err
	}
	if ok {
		return containInside, nil
	}
	ok, err = fo.ExcludeWithin(fp, radius)
	if err != nil {
		return containUnknown, err
	}
	if ok {
		return containOutside, nil
	}
	return containUnknown, nil
}
