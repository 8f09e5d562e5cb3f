package flowvis

import (
	"github.com/soypat/glgl/math/ms2"
)

// StepRK4 advances every point by one 4th-order Runge-Kutta step of size h
// through the static field f and returns the new positions in a new slice.
// points is not modified.
func StepRK4(f *VectorField, points []ms2.Vec, h float32) []ms2.Vec {
	dst := make([]ms2.Vec, len(points))
	StepRK4Into(dst, f, points, h)
	return dst
}

// StepRK4Into is StepRK4 writing into dst, which must be the same length as
// points and must not share its backing array.
//
//	k1 = F(p)·h
//	k2 = F(p + k1/2)·h
//	k3 = F(p + k2/2)·h
//	k4 = F(p + k3)·h
//	p' = p + (k1 + 2·k2 + 2·k3 + k4)/6
func StepRK4Into(dst []ms2.Vec, f *VectorField, points []ms2.Vec, h float32) {
	if len(dst) != len(points) {
		panic("StepRK4Into: length of destination and points not equal")
	}
	for i, p := range points {
		k1 := ms2.Scale(h, Sample(f, p))
		k2 := ms2.Scale(h, Sample(f, ms2.Add(p, ms2.Scale(0.5, k1))))
		k3 := ms2.Scale(h, Sample(f, ms2.Add(p, ms2.Scale(0.5, k2))))
		k4 := ms2.Scale(h, Sample(f, ms2.Add(p, k3)))
		dst[i] = ms2.Vec{
			X: p.X + (k1.X+2*k2.X+2*k3.X+k4.X)/6,
			Y: p.Y + (k1.Y+2*k2.Y+2*k3.Y+k4.Y)/6,
		}
	}
}

// Trajectory holds the tracer positions before and after each substep of an
// advection pass. Element 0 is the starting set; element i is the set after
// i substeps. All elements have the same length and tracer order.
type Trajectory [][]ms2.Vec

// Advect runs substeps chained RK4 steps over f, feeding each step's output
// into the next, and returns every intermediate tracer set. points is copied
// and left untouched. A non-positive substep count returns only the copy.
func Advect(f *VectorField, points []ms2.Vec, h float32, substeps int) Trajectory {
	if substeps < 0 {
		substeps = 0
	}
	tr := make(Trajectory, substeps+1)
	tr[0] = append(make([]ms2.Vec, 0, len(points)), points...)
	for i := 1; i <= substeps; i++ {
		tr[i] = StepRK4(f, tr[i-1], h)
	}
	return tr
}

// Substeps returns the number of RK4 steps recorded.
func (t Trajectory) Substeps() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// Last returns the final tracer positions, or nil for an empty trajectory.
func (t Trajectory) Last() []ms2.Vec {
	if len(t) == 0 {
		return nil
	}
	return t[len(t)-1]
}

// Segment returns tracer i's position before and after the given substep,
// which counts from 1.
func (t Trajectory) Segment(substep, i int) (from, to ms2.Vec) {
	return t[substep-1][i], t[substep][i]
}
