package frame

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	"github.com/soypat/flowvis"
	"github.com/soypat/glgl/math/ms2"
)

// DefaultPerlinFrames is the length of the synthetic sequence Open("perlin")
// returns.
const DefaultPerlinFrames = 200

// PerlinConfig parametrizes a synthetic divergence-free flow.
type PerlinConfig struct {
	W, H   int
	Frames int
	// Scale is the noise frequency in cycles per cell.
	Scale float64
	// TimeScale is how far along the noise time axis one frame moves.
	TimeScale float64
	// Gain scales the velocities, in cells per unit step.
	Gain float64
	// Alpha, Beta and Octaves are passed to the noise generator.
	Alpha, Beta float64
	Octaves     int32
	Seed        int64
}

// DefaultPerlinConfig returns a config producing a slowly evolving w×h flow
// with a handful of vortices across the grid.
func DefaultPerlinConfig(w, h int) PerlinConfig {
	return PerlinConfig{
		W:         w,
		H:         h,
		Frames:    DefaultPerlinFrames,
		Scale:     1.0 / 32,
		TimeScale: 0.02,
		Gain:      1.5,
		Alpha:     2,
		Beta:      2,
		Octaves:   3,
		Seed:      1,
	}
}

// Perlin is a Source of synthetic flows. Each frame is the curl of a
// Perlin noise stream function ψ(x,y,t):
//
//	u =  ∂ψ/∂y
//	v = -∂ψ/∂x
//
// so the flow is divergence free and tracers swirl instead of pooling.
// Frames are a pure function of the config and index.
type Perlin struct {
	cfg   PerlinConfig
	noise *perlin.Perlin
}

// NewPerlin returns a synthetic Source. It panics on a non-positive size.
func NewPerlin(cfg PerlinConfig) *Perlin {
	if cfg.W <= 0 || cfg.H <= 0 {
		panic(fmt.Sprintf("invalid perlin flow dimensions %dx%d", cfg.W, cfg.H))
	}
	return &Perlin{
		cfg:   cfg,
		noise: perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, cfg.Seed),
	}
}

// Len returns the configured frame count.
func (p *Perlin) Len() int { return p.cfg.Frames }

// Frame computes frame i.
func (p *Perlin) Frame(i int) (*flowvis.VectorField, error) {
	if i < 0 || i >= p.cfg.Frames {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, p.cfg.Frames)
	}
	const eps = 0.5 // half a cell, in grid units.
	t := float64(i) * p.cfg.TimeScale
	sc := p.cfg.Scale
	psi := func(x, y float64) float64 {
		return p.noise.Noise3D(x*sc, y*sc, t)
	}
	// Central differences over 2·eps cells, scaled by Gain.
	g := p.cfg.Gain / (2 * eps)
	f := flowvis.NewVectorField(p.cfg.W, p.cfg.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			fx, fy := float64(x), float64(y)
			dx := psi(fx+eps, fy) - psi(fx-eps, fy)
			dy := psi(fx, fy+eps) - psi(fx, fy-eps)
			f.Set(x, y, ms2.Vec{
				X: float32(dy * g),
				Y: float32(-dx * g),
			})
		}
	}
	return f, nil
}
