package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rotation is a 2x2 rotation matrix.
type Rotation struct {
	data [2 * 2]float64
}

// NewRotation returns the counter-clockwise rotation by angle radians.
func NewRotation(angle float64) Rotation {
	s, c := math.Sincos(angle)
	return Rotation{data: [4]float64{c, -s, s, c}}
}

func (t *Rotation) At(i, j int) float64 {
	return t.data[i*2+j]
}

// Apply rotates b about the origin.
func (t Rotation) Apply(b r2.Vec) r2.Vec {
	return r2.Vec{
		X: t.At(0, 0)*b.X + t.At(0, 1)*b.Y,
		Y: t.At(1, 0)*b.X + t.At(1, 1)*b.Y,
	}
}

// ArrowHead returns the two barb end points of an arrow drawn from p0 to p1.
// Barbs are tipFrac times the arrow length and sit at ±45° from the shaft,
// the same geometry as OpenCV's arrowedLine. A zero length arrow returns p1
// twice.
func ArrowHead(p0, p1 r2.Vec, tipFrac float64) (left, right r2.Vec) {
	shaft := r2.Sub(p0, p1)
	length := r2.Norm(shaft)
	if length == 0 {
		return p1, p1
	}
	barb := r2.Scale(tipFrac, shaft)
	left = r2.Add(p1, NewRotation(math.Pi/4).Apply(barb))
	right = r2.Add(p1, NewRotation(-math.Pi/4).Apply(barb))
	return left, right
}
