package flowvis

import (
	"fmt"

	"github.com/soypat/flowvis/internal/d2"
	"github.com/soypat/glgl/math/ms2"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DisplayWidth is the default width in pixels of each rendered image.
	DisplayWidth = 512
	// DisplayHeight is the default height in pixels of each rendered image.
	DisplayHeight = 512
	// SpeedGain multiplies pixel displacement per substep to get the
	// speed shown next to each tracer.
	SpeedGain = 100
)

// ScaleFactor maps field grid coordinates to display pixel coordinates.
// It holds display_dim / field_dim for each axis.
type ScaleFactor r2.Vec

// NewScaleFactor returns the scale factor between a display and a field.
func NewScaleFactor(displayW, displayH, fieldW, fieldH int) ScaleFactor {
	if displayW <= 0 || displayH <= 0 || fieldW <= 0 || fieldH <= 0 {
		panic(fmt.Sprintf("invalid scale dimensions display=%dx%d field=%dx%d", displayW, displayH, fieldW, fieldH))
	}
	return ScaleFactor(d2.DivElem(
		r2.Vec{X: float64(displayW), Y: float64(displayH)},
		r2.Vec{X: float64(fieldW), Y: float64(fieldH)},
	))
}

// ToPixel converts a field-space position to display pixels.
func (s ScaleFactor) ToPixel(p ms2.Vec) r2.Vec {
	return d2.MulElem(r2.Vec(s), d2.FromMS2(p))
}

// CellCenter returns the pixel position of the center of grid cell (x,y).
func (s ScaleFactor) CellCenter(x, y int) r2.Vec {
	return d2.MulElem(r2.Vec(s), r2.Vec{X: 0.5 + float64(x), Y: 0.5 + float64(y)})
}

// Min returns the smaller of the two axis ratios.
func (s ScaleFactor) Min() float64 { return d2.Min(r2.Vec(s)) }

// Speed returns the displayed speed of a tracer moving from old to new in one
// substep: the pixel distance travelled times SpeedGain.
func (s ScaleFactor) Speed(old, new ms2.Vec) float64 {
	return r2.Norm(r2.Sub(s.ToPixel(new), s.ToPixel(old))) * SpeedGain
}
