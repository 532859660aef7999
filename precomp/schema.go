package precomp

import "sync/atomic"

// epochCounter issues process-wide unique epochs so that two independently
// created schemas never compare equal by accident.
var epochCounter atomic.Uint64

// Schema describes one epoch of the canonical pivot ordering: how many pivots
// there are and which generation of the pivot list they belong to.
//
// A Schema is immutable. Objects may freely share a Schema; they must never
// share the mutable distance arrays of their filters. When the pivot list
// changes meaning, create a new Schema and Reset every filter onto it.
type Schema struct {
	epoch     uint64
	numPivots int
}

// NewSchema creates a schema for an ordered pivot list of the given size.
// Every call starts a fresh epoch.
func NewSchema(numPivots int) *Schema {
	if numPivots < 0 {
		numPivots = 0
	}
	return &Schema{
		epoch:     epochCounter.Add(1),
		numPivots: numPivots,
	}
}

// Epoch returns the unique generation token of this pivot ordering.
func (s *Schema) Epoch() uint64 { return s.epoch }

// NumPivots returns the size of the canonical pivot list, which is also the
// fixed capacity of every filter bound to this schema.
func (s *Schema) NumPivots() int { return s.numPivots }
