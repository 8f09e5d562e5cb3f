package sim

import (
	"github.com/soypat/flowvis"
)

// Output is everything produced by one tick that a renderer needs.
type Output struct {
	// Frame is the displayed frame counter after this tick.
	Frame int
	// Field is the vector field the tick was computed from.
	Field *flowvis.VectorField
	Curl  flowvis.CurlField
	// Trajectory holds the tracers before and after every substep.
	Trajectory flowvis.Trajectory
	// Speeds[i][j] is tracer j's displayed speed during substep i+1.
	Speeds [][]float64
	// Advanced is false when the tick did not step the simulation
	// (paused, quitting, or resuming from pause).
	Advanced bool
	Quit     bool
}

// Tick applies action a to s and, unless paused or quitting, advances the
// simulation one displayed frame through field f: it computes the curl of f,
// runs s.Precision RK4 substeps of size s.StepSize from the live tracers and
// replaces the live tracers with the final positions.
//
// While paused any action other than ActionNone resumes the run and is
// consumed without further effect.
func Tick(s *State, f *flowvis.VectorField, a Action) Output {
	if s.Paused {
		if a != ActionNone {
			s.Paused = false
		}
		return Output{Frame: s.displayed}
	}
	if s.Apply(a) {
		return Output{Frame: s.displayed, Quit: true}
	}
	if s.Paused {
		return Output{Frame: s.displayed}
	}
	s.displayed++
	tr := flowvis.Advect(f, s.Tracers, s.StepSize, s.Precision)
	s.Tracers = tr.Last()
	return Output{
		Frame:      s.displayed,
		Field:      f,
		Curl:       flowvis.Curl(f),
		Trajectory: tr,
		Speeds:     Speeds(s.cfg.Scale(), tr),
		Advanced:   true,
	}
}

// Speeds returns the displayed speed of every tracer during every substep
// of tr.
func Speeds(scale flowvis.ScaleFactor, tr flowvis.Trajectory) [][]float64 {
	speeds := make([][]float64, tr.Substeps())
	for i := range speeds {
		row := make([]float64, len(tr[i]))
		for j := range row {
			from, to := tr.Segment(i+1, j)
			row[j] = scale.Speed(from, to)
		}
		speeds[i] = row
	}
	return speeds
}
