package d2

import (
	"math"

	"github.com/soypat/glgl/math/ms2"
	"gonum.org/v1/gonum/spatial/r2"
)

// FromMS2 widens a float32 vector to float64.
func FromMS2(a ms2.Vec) r2.Vec {
	return r2.Vec{X: float64(a.X), Y: float64(a.Y)}
}

// ToMS2 narrows a vector to float32 components.
func ToMS2(a r2.Vec) ms2.Vec {
	return ms2.Vec{X: float32(a.X), Y: float32(a.Y)}
}

func Min(a r2.Vec) float64 {
	return math.Min(a.X, a.Y)
}

func MulElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.X * b.X,
		Y: a.Y * b.Y,
	}
}

func DivElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{
		X: a.X / b.X,
		Y: a.Y / b.Y,
	}
}

type Set []r2.Vec

// MS2 narrows the set to float32 vectors.
func (a Set) MS2() []ms2.Vec {
	s := make([]ms2.Vec, len(a))
	for i, v := range a {
		s[i] = ToMS2(v)
	}
	return s
}
