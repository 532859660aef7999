package precomp

import (
	"errors"
	"fmt"
	"math"
)

// UnknownDistance is the sentinel for a cache slot whose distance has not
// been computed. Unknown entries are skipped by the shortcut tests, never
// treated as zero.
var UnknownDistance = float32(math.NaN())

// IsUnknown reports whether d is the UnknownDistance sentinel.
func IsUnknown(d float32) bool {
	return math.IsNaN(float64(d))
}

// ErrNoSchema is returned when a filter without a schema is used for a
// positional operation.
var ErrNoSchema = errors.New("precomp: filter is not bound to a schema")

// ErrCapacityExceeded indicates an append past the fixed capacity agreed by
// the schema. Silent truncation would break the positional-index invariant,
// so this fails loudly.
type ErrCapacityExceeded struct {
	Capacity int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("precomp: filter capacity of %d entries exceeded", e.Capacity)
}

// ErrEpochMismatch indicates that two filters bound to different pivot-order
// epochs were compared positionally.
type ErrEpochMismatch struct {
	Want, Got uint64
}

func (e *ErrEpochMismatch) Error() string {
	return fmt.Sprintf("precomp: pivot epoch mismatch: %d vs %d", e.Want, e.Got)
}

// Filter caches the exact distances from its owning object to the ordered
// pivot list described by its schema. Entry i is the distance to the i-th
// pivot, or UnknownDistance.
//
// A Filter is owned by exactly one object and is not safe for concurrent
// mutation. The schema may be shared; the distance array is never shared.
type Filter struct {
	schema *Schema
	dist   []float32
}

// NewFilter creates a filter bound to schema. The initialSize hint
// preallocates the distance array; it is clamped to the schema capacity.
func NewFilter(schema *Schema, initialSize int) *Filter {
	if initialSize < 0 {
		initialSize = 0
	}
	if schema != nil && initialSize > schema.numPivots {
		initialSize = schema.numPivots
	}
	return &Filter{
		schema: schema,
		dist:   make([]float32, 0, initialSize),
	}
}

// Schema returns the pivot-ordering schema this filter is bound to.
func (f *Filter) Schema() *Schema { return f.schema }

// Len returns the number of entries currently cached, valid or unknown.
func (f *Filter) Len() int { return len(f.dist) }

// Add appends the distance to the next pivot in the agreed order.
// It fails once the schema capacity is reached: the array is logically
// append-only within one pivot epoch.
func (f *Filter) Add(d float32) error {
	if f.schema == nil {
		return ErrNoSchema
	}
	if len(f.dist) >= f.schema.numPivots {
		return &ErrCapacityExceeded{Capacity: f.schema.numPivots}
	}
	f.dist = append(f.dist, d)
	return nil
}

// Distance returns the cached distance to the i-th pivot and whether the
// entry is valid.
func (f *Filter) Distance(i int) (float32, bool) {
	if i < 0 || i >= len(f.dist) || IsUnknown(f.dist[i]) {
		return 0, false
	}
	return f.dist[i], true
}

// Reset clears every cached entry and rebinds the filter to schema.
// Call it whenever the canonical pivot list is invalidated.
func (f *Filter) Reset(schema *Schema) {
	f.schema = schema
	f.dist = f.dist[:0]
}

// Clone returns a filter with its own copy of the distance array.
// The schema is shared: it is immutable.
func (f *Filter) Clone() *Filter {
	c := &Filter{
		schema: f.schema,
		dist:   make([]float32, len(f.dist)),
	}
	copy(c.dist, f.dist)
	return c
}

func (f *Filter) checkEpoch(other *Filter) error {
	if f.schema == nil || other.schema == nil {
		return ErrNoSchema
	}
	if f.schema.epoch != other.schema.epoch {
		return &ErrEpochMismatch{Want: f.schema.epoch, Got: other.schema.epoch}
	}
	return nil
}

// ExcludeWithin reports whether the owning objects are provably farther
// apart than radius: |d(a,p_i) - d(b,p_i)| > radius for some pivot i valid
// in both arrays. A false result is inconclusive.
func (f *Filter) ExcludeWithin(other *Filter, radius float32) (bool, error) {
	if err := f.checkEpoch(other); err != nil {
		return false, err
	}
	n := min(len(f.dist), len(other.dist))
	for i := 0; i < n; i++ {
		a, b := f.dist[i], other.dist[i]
		if IsUnknown(a) || IsUnknown(b) {
			continue
		}
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		if diff > radius {
			return true, nil
		}
	}
	return false, nil
}

// IncludeWithin reports whether the owning objects are provably within
// radius: d(a,p_i) + d(b,p_i) <= radius for some pivot i valid in both
// arrays. A false result is inconclusive.
func (f *Filter) IncludeWithin(other *Filter, radius float32) (bool, error) {
	if err := f.checkEpoch(other); err != nil {
		return false, err
	}
	n := min(len(f.dist), len(other.dist))
	for i := 0; i < n; i++ {
		a, b := f.dist[i], other.dist[i]
		if IsUnknown(a) || IsUnknown(b) {
			continue
		}
		if a+b <= radius {
			return true, nil
		}
	}
	return false, nil
}
