package core

// BallRegion is a bounding ball over a set of objects: every covered object
// is within Radius of Pivot. It is a lazy upper-bound cover, never an exact
// partition membership.
type BallRegion interface {
	Pivot() Object
	Radius() float32
}

// Ball is the plain value implementation of BallRegion.
type Ball struct {
	P Object
	R float32
}

// NewBall creates a ball region around pivot with the given covering radius.
func NewBall(pivot Object, radius float32) Ball {
	return Ball{P: pivot, R: radius}
}

// Pivot returns the center object of the ball.
func (b Ball) Pivot() Object { return b.P }

// Radius returns the covering radius of the ball.
func (b Ball) Radius() float32 { return b.R }
