// Package display connects rendered frames to their destination and
// keyboard actions to the simulation, and holds the loop driving both.
package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
)

// Sink receives the images of every displayed frame.
type Sink interface {
	// Show presents the frames of displayed frame number frame.
	Show(f render.Frames, frame int) error
	Close() error
}

// Input supplies user actions.
type Input interface {
	// Next waits up to timeout for an action. It returns sim.ActionNone when
	// nothing arrived in time and io.EOF once no more input will arrive.
	Next(ctx context.Context, timeout time.Duration) (sim.Action, error)
}

// Script is an Input replaying a fixed list of actions without waiting.
// Once exhausted it returns io.EOF, or sim.ActionNone forever when Loop is
// set.
type Script struct {
	Actions []sim.Action
	Loop    bool
	pos     int
}

// ParseScript builds a script from key presses as typed at the keyboard.
// A '.' stands for a tick with no key pressed.
func ParseScript(keys string) *Script {
	s := &Script{}
	for _, k := range keys {
		if k == '.' {
			s.Actions = append(s.Actions, sim.ActionNone)
			continue
		}
		s.Actions = append(s.Actions, sim.KeyAction(k))
	}
	return s
}

// Next returns the next scripted action.
func (s *Script) Next(ctx context.Context, _ time.Duration) (sim.Action, error) {
	if err := ctx.Err(); err != nil {
		return sim.ActionNone, err
	}
	if s.pos < len(s.Actions) {
		a := s.Actions[s.pos]
		s.pos++
		return a, nil
	}
	if s.Loop {
		return sim.ActionNone, nil
	}
	return sim.ActionNone, io.EOF
}

// Idle is an Input that never produces an action. It sleeps for the
// timeout so a headless run keeps the configured pace.
type Idle struct{}

// Next waits for timeout or ctx, whichever comes first.
func (Idle) Next(ctx context.Context, timeout time.Duration) (sim.Action, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return sim.ActionNone, ctx.Err()
	case <-t.C:
		return sim.ActionNone, nil
	}
}

// PNGDir is a Sink writing every frame as PNG files named
// flow_00001.png, rotation_00001.png and speed_00001.png into Dir.
type PNGDir struct {
	Dir string
	// SkipSpeed leaves out the speed image.
	SkipSpeed bool
}

// NewPNGDir creates dir if needed and returns a sink writing into it.
func NewPNGDir(dir string) (*PNGDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PNGDir{Dir: dir}, nil
}

// Show writes the frames to disk.
func (p *PNGDir) Show(f render.Frames, frame int) error {
	if err := render.SavePNG(p.path("flow", frame), f.Flow); err != nil {
		return err
	}
	if err := render.SavePNG(p.path("rotation", frame), f.Rotation); err != nil {
		return err
	}
	if p.SkipSpeed {
		return nil
	}
	return render.SavePNG(p.path("speed", frame), f.Speed)
}

// Close is a no-op.
func (p *PNGDir) Close() error { return nil }

func (p *PNGDir) path(prefix string, frame int) string {
	return filepath.Join(p.Dir, fmt.Sprintf("%s_%05d.png", prefix, frame))
}

// Tee returns a Sink showing frames on every one of sinks in order.
func Tee(sinks ...Sink) Sink { return tee(sinks) }

type tee []Sink

func (t tee) Show(f render.Frames, frame int) error {
	for _, s := range t {
		if err := s.Show(f, frame); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) Close() error {
	var errs []error
	for _, s := range t {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a Sink dropping every frame.
var Discard Sink = discard{}

type discard struct{}

func (discard) Show(render.Frames, int) error { return nil }
func (discard) Close() error                  { return nil }

// TypedAction returns the action of the first recognized key among chars,
// as typed since the previous tick, or sim.ActionNone.
func TypedAction(chars []rune) sim.Action {
	for _, r := range chars {
		if a := sim.KeyAction(r); a != sim.ActionNone {
			return a
		}
	}
	return sim.ActionNone
}
