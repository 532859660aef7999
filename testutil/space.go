package testutil

import (
	"fmt"

	"github.com/hupe1980/metrigo/core"
)

// Point is a one-dimensional metric object: the distance between two points
// is the absolute difference of their coordinates. It carries a filter slot
// so precomputed-distance shortcuts can be exercised.
type Point struct {
	core.FilterBase
	X float32
}

// NewPoint creates a point at coordinate x.
func NewPoint(x float32) *Point {
	return &Point{X: x}
}

// Distance returns |a - b|.
func (p *Point) Distance(other core.Object) float32 {
	d := p.X - other.(*Point).X
	if d < 0 {
		d = -d
	}
	return d
}

// Points creates one point per coordinate.
func Points(xs ...float32) []core.Object {
	objs := make([]core.Object, len(xs))
	for i, x := range xs {
		objs[i] = NewPoint(x)
	}
	return objs
}

// MatrixSpace is a finite metric space with explicitly given pairwise
// distances, for scenarios where every distance must be under test control.
// The caller is responsible for supplying a valid metric (symmetric, zero
// diagonal, triangle inequality).
type MatrixSpace struct {
	dist [][]float32
	objs []*MatrixObject
}

// NewMatrixSpace creates a space over the given square distance matrix.
func NewMatrixSpace(dist [][]float32) *MatrixSpace {
	for i, row := range dist {
		if len(row) != len(dist) {
			panic(fmt.Sprintf("testutil: row %d has %d entries, want %d", i, len(row), len(dist)))
		}
	}
	s := &MatrixSpace{dist: dist}
	s.objs = make([]*MatrixObject, len(dist))
	for i := range s.objs {
		s.objs[i] = &MatrixObject{space: s, idx: i}
	}
	return s
}

// Object returns the i-th object of the space.
func (s *MatrixSpace) Object(i int) *MatrixObject { return s.objs[i] }

// Objects returns all objects of the space in index order.
func (s *MatrixSpace) Objects() []core.Object {
	objs := make([]core.Object, len(s.objs))
	for i, o := range s.objs {
		objs[i] = o
	}
	return objs
}

// MatrixObject is one member of a MatrixSpace.
type MatrixObject struct {
	core.FilterBase
	space *MatrixSpace
	idx   int
}

// Index returns the object's position in its space.
func (o *MatrixObject) Index() int { return o.idx }

// Distance looks up the matrix entry for the pair.
func (o *MatrixObject) Distance(other core.Object) float32 {
	return o.space.dist[o.idx][other.(*MatrixObject).idx]
}
