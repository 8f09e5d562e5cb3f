package flowvis

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

// Sample returns the bilinearly interpolated value of f at the continuous
// grid position p. Cell (i,j) sits at exactly (i,j), so sampling an integer
// position returns the stored vector unchanged.
//
// Positions outside [0,W)×[0,H) read cells mirrored about the edge cell
// without repeating it (index -1 reads 1, index W reads W-2), so any real
// position yields a value.
func Sample(f *VectorField, p ms2.Vec) ms2.Vec {
	fx, fy := math32.Floor(p.X), math32.Floor(p.Y)
	tx, ty := p.X-fx, p.Y-fy
	x0, y0 := int(fx), int(fy)
	xa, xb := reflect101(x0, f.W), reflect101(x0+1, f.W)
	ya, yb := reflect101(y0, f.H), reflect101(y0+1, f.H)
	top := lerp(f.At(xa, ya), f.At(xb, ya), tx)
	bottom := lerp(f.At(xa, yb), f.At(xb, yb), tx)
	return lerp(top, bottom, ty)
}

// SampleAll samples f at every position in pos and stores the results in dst.
// dst and pos must be of same length.
func SampleAll(f *VectorField, pos, dst []ms2.Vec) {
	if len(pos) != len(dst) {
		panic("SampleAll: length of positions and destination not equal")
	}
	for i, p := range pos {
		dst[i] = Sample(f, p)
	}
}

// reflect101 maps an arbitrary index onto [0,n) by mirroring about the first
// and last element without duplicating them: for n=4 the indices
// -3..6 read 3 2 1 0 1 2 3 2 1 0.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// lerp interpolates from a to b. t=0 returns a exactly and a==b returns a
// for any t.
func lerp(a, b ms2.Vec, t float32) ms2.Vec {
	return ms2.Add(a, ms2.Scale(t, ms2.Sub(b, a)))
}
