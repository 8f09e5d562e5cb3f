package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/frame"
	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
)

// Runner is the driving loop of a visualization: every tick it fetches a
// field, advances the state, renders and shows the result, then waits one
// tick interval for the next action.
type Runner struct {
	Source   frame.Source
	Renderer *render.Renderer
	Sink     Sink
	Input    Input
	State    *sim.State
	// Logger receives one line per displayed frame. Nil discards.
	Logger *log.Logger
	// Observe, when set, is called with the output of every tick that
	// advanced the simulation.
	Observe func(sim.Output)

	field *flowvis.VectorField
	index int // source index of field
}

// Run loops until a quit action, input exhaustion (io.EOF) or ctx is done.
// The first two return nil. The sink is not closed.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	action := sim.ActionNone
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := r.Step(action)
		if err != nil {
			return err
		}
		if out.Quit {
			logger.Printf("quit after %d frames", r.State.Displayed())
			return nil
		}
		if out.Advanced {
			logger.Printf("frame %d: source=%d precision=%d step=%g tracers=%d",
				out.Frame, r.index, r.State.Precision, r.State.StepSize, len(r.State.Tracers))
		} else if r.State.Paused {
			logger.Printf("paused at frame %d", out.Frame)
		}
		action, err = r.Input.Next(ctx, r.State.TickInterval())
		if errors.Is(err, io.EOF) {
			logger.Printf("input exhausted after %d frames", r.State.Displayed())
			return nil
		} else if err != nil {
			return err
		}
		if action != sim.ActionNone {
			logger.Printf("key: %s", action)
		}
	}
}

// Step runs one tick with action a: it fetches the next frame if the tick
// will advance, calls sim.Tick, and renders and shows an advanced output.
func (r *Runner) Step(a sim.Action) (sim.Output, error) {
	if r.willAdvance(a) {
		if i, fetch := r.State.NextFrame(); fetch || r.field == nil {
			f, err := r.Source.Frame(i)
			if err != nil {
				return sim.Output{}, fmt.Errorf("fetching frame %d: %w", i, err)
			}
			if f.W != r.State.Config().FieldWidth || f.H != r.State.Config().FieldHeight {
				return sim.Output{}, fmt.Errorf("fetching frame %d: %w: got %dx%d, want %dx%d", i, frame.ErrDimension,
					f.W, f.H, r.State.Config().FieldWidth, r.State.Config().FieldHeight)
			}
			r.field, r.index = f, i
		}
	}
	out := sim.Tick(r.State, r.field, a)
	if !out.Advanced {
		return out, nil
	}
	if r.Observe != nil {
		r.Observe(out)
	}
	if err := r.Sink.Show(r.Renderer.Render(out), out.Frame); err != nil {
		return out, fmt.Errorf("showing frame %d: %w", out.Frame, err)
	}
	return out, nil
}

// willAdvance reports whether sim.Tick will step the simulation for a, so
// that frames are not consumed by ticks that only pause, resume or quit.
func (r *Runner) willAdvance(a sim.Action) bool {
	return !r.State.Paused && a != sim.ActionPause && a != sim.ActionQuit
}
