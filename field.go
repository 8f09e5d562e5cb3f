package flowvis

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

const (
	// FieldWidth is the width of the flow grids the visualizer is built around.
	FieldWidth = 128
	// FieldHeight is the height of the flow grids the visualizer is built around.
	FieldHeight = 128
)

// VectorField is a W×H grid of 2-component vectors stored in row-major order.
// A field handed to the functions of this package is never modified by them.
type VectorField struct {
	W, H int
	Data []ms2.Vec
}

// NewVectorField returns a zero valued field of w×h cells.
func NewVectorField(w, h int) *VectorField {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("invalid vector field dimensions %dx%d", w, h))
	}
	return &VectorField{W: w, H: h, Data: make([]ms2.Vec, w*h)}
}

// At returns the vector stored at cell (x,y).
func (f *VectorField) At(x, y int) ms2.Vec {
	return f.Data[y*f.W+x]
}

// Set stores v at cell (x,y).
func (f *VectorField) Set(x, y int, v ms2.Vec) {
	f.Data[y*f.W+x] = v
}

// Dims returns the width and height of the field.
func (f *VectorField) Dims() (w, h int) { return f.W, f.H }

// Clone returns a deep copy of the field.
func (f *VectorField) Clone() *VectorField {
	c := &VectorField{W: f.W, H: f.H, Data: make([]ms2.Vec, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}

// MaxAbs returns the largest absolute value found in either component of the field.
func (f *VectorField) MaxAbs() float32 {
	var max float32
	for _, v := range f.Data {
		max = math32.Max(max, math32.Max(math32.Abs(v.X), math32.Abs(v.Y)))
	}
	return max
}

// Finite reports whether every component of the field is a finite number.
// The core does not check this itself; frame sources may.
func (f *VectorField) Finite() bool {
	for _, v := range f.Data {
		if !isFinite(v.X) || !isFinite(v.Y) {
			return false
		}
	}
	return true
}

// CurlField is a W×H grid of scalar rotation values in row-major order.
type CurlField struct {
	W, H int
	Data []float32
}

// NewCurlField returns a zero valued curl grid of w×h cells.
func NewCurlField(w, h int) CurlField {
	return CurlField{W: w, H: h, Data: make([]float32, w*h)}
}

// At returns the curl at cell (x,y).
func (c CurlField) At(x, y int) float32 {
	return c.Data[y*c.W+x]
}

// MinMax returns the smallest and largest value in the grid.
// An empty grid returns zeros.
func (c CurlField) MinMax() (min, max float32) {
	if len(c.Data) == 0 {
		return 0, 0
	}
	min, max = math32.Inf(1), math32.Inf(-1)
	for _, v := range c.Data {
		min = math32.Min(min, v)
		max = math32.Max(max, v)
	}
	return min, max
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
