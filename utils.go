package flowvis

import (
	"math"
	"math/rand"

	"github.com/soypat/flowvis/internal/d2"
	"github.com/soypat/glgl/math/ms2"
	"gonum.org/v1/gonum/spatial/r2"
)

// RandomTracers returns n tracer positions drawn uniformly from [0,w)×[0,h).
func RandomTracers(rng *rand.Rand, n, w, h int) []ms2.Vec {
	box := d2.Box{Max: r2.Vec{X: float64(w), Y: float64(h)}}
	pts := box.RandomSet(rng, n).MS2()
	xmax := math.Nextafter32(float32(w), 0)
	ymax := math.Nextafter32(float32(h), 0)
	for i := range pts {
		// Narrowing to float32 may round a value just below w up to w.
		pts[i].X = Clamp(pts[i].X, 0, xmax)
		pts[i].Y = Clamp(pts[i].Y, 0, ymax)
	}
	return pts
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float32) float32 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
