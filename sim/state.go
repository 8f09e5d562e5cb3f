package sim

import (
	"math/rand"
	"time"

	"github.com/soypat/flowvis"
	"github.com/soypat/glgl/math/ms2"
)

// State is the mutable simulation state carried from one tick to the next.
// It is owned by the driving loop and passed by reference into Tick.
type State struct {
	// Tracers holds the live tracer positions in field coordinates.
	Tracers []ms2.Vec
	// StepSize is the current RK4 step size.
	StepSize float32
	// Precision is the current number of RK4 substeps per displayed frame.
	Precision int
	// Paused is set by a pause action and cleared by the next key.
	Paused bool

	cursor    int // next frame index to fetch
	displayed int // frames displayed since start
	cfg       Config
	rng       *rand.Rand
}

// NewState returns the initial state for cfg with freshly seeded tracers.
// rng may be nil, in which case one is seeded from cfg.Seed or the clock.
func NewState(cfg Config, rng *rand.Rand) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	s := &State{
		StepSize:  cfg.StepSize,
		Precision: cfg.Precision,
		cfg:       cfg,
		rng:       rng,
	}
	s.seedTracers()
	return s, nil
}

// Reset reseeds the tracers with new random positions and rewinds the frame
// cursor so the next fetch reads frame 0. Step size, precision and the
// displayed frame counter are kept.
func (s *State) Reset() {
	s.seedTracers()
	s.cursor = 0
}

// NextFrame returns the index of the frame to use for the coming tick. While
// frames remain fetch is true and the cursor advances; once the configured
// frame count is reached fetch is false and the caller keeps its last field.
func (s *State) NextFrame() (index int, fetch bool) {
	if s.cursor < s.cfg.Frames {
		index = s.cursor
		s.cursor++
		return index, true
	}
	return s.cfg.Frames - 1, false
}

// Cursor returns the index of the next frame to be fetched.
func (s *State) Cursor() int { return s.cursor }

// Displayed returns the number of frames displayed so far.
func (s *State) Displayed() int { return s.displayed }

// Config returns the configuration the state was built from.
func (s *State) Config() Config { return s.cfg }

// TickInterval returns the time the driving loop waits for input each tick.
func (s *State) TickInterval() time.Duration { return s.cfg.TickInterval }

func (s *State) seedTracers() {
	s.Tracers = flowvis.RandomTracers(s.rng, s.cfg.Tracers, s.cfg.FieldWidth, s.cfg.FieldHeight)
}
