// Package term shows a visualization in a terminal with tcell and reads the
// control keys from it.
package term

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
)

const halfBlock = '▀'

const help = "[space] pause  [q] quit  [r] reset  [w/s] step  [d/a] precision"

// Screen is a display.Sink drawing one of the rendered images with half
// block glyphs, two pixels per cell, and a display.Input reading keys.
type Screen struct {
	s      tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	// Pick selects the image to draw. Nil draws the rotation image.
	Pick func(render.Frames) *image.RGBA
	// Status, when set, is printed after the frame counter.
	Status func() string
}

// New initializes the terminal and returns a screen drawing into it.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(s), nil
}

// NewWithScreen wraps an initialized tcell screen.
func NewWithScreen(s tcell.Screen) *Screen {
	t := &Screen{
		s:      s,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
	}
	s.HideCursor()
	go t.poll()
	return t
}

func (t *Screen) poll() {
	for {
		ev := t.s.PollEvent()
		if ev == nil {
			return // Screen finalized.
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// Show draws the picked image scaled to fit above a status line.
func (t *Screen) Show(f render.Frames, frame int) error {
	img := f.Rotation
	if t.Pick != nil {
		img = t.Pick(f)
	}
	if img == nil {
		return fmt.Errorf("frame %d: no image to show", frame)
	}
	t.s.Clear()
	cols, rows := t.s.Size()
	if rows > 1 {
		t.drawImage(img, cols, rows-1)
	}
	status := fmt.Sprintf("frame: %d", frame)
	if t.Status != nil {
		status += "  " + t.Status()
	}
	t.drawText(0, rows-1, status+"  "+help, tcell.StyleDefault.Bold(true))
	t.s.Show()
	return nil
}

// drawImage samples img nearest-neighbor into cols×rows cells keeping
// its aspect ratio. Each cell shows two vertically stacked pixels.
func (t *Screen) drawImage(img *image.RGBA, cols, rows int) {
	b := img.Bounds()
	if b.Empty() || cols <= 0 || rows <= 0 {
		return
	}
	// Pixels per screen pixel, screen pixels are cols wide and 2*rows high.
	step := max(float64(b.Dx())/float64(cols), float64(b.Dy())/float64(2*rows))
	w := min(cols, int(float64(b.Dx())/step))
	h := min(rows, int(float64(b.Dy())/step/2))
	at := func(x, y int) tcell.Color {
		px := b.Min.X + min(b.Dx()-1, int(float64(x)*step))
		py := b.Min.Y + min(b.Dy()-1, int(float64(y)*step))
		c := img.RGBAAt(px, py)
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			style := tcell.StyleDefault.Foreground(at(x, 2*y)).Background(at(x, 2*y+1))
			t.s.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

func (t *Screen) drawText(x, y int, s string, style tcell.Style) {
	cols, _ := t.s.Size()
	for _, r := range s {
		if x >= cols {
			return
		}
		t.s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Next waits up to timeout for a key. Escape and Ctrl-C quit. Resizes
// redraw the screen and count as no key.
func (t *Screen) Next(ctx context.Context, timeout time.Duration) (sim.Action, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return sim.ActionNone, ctx.Err()
		case <-timer.C:
			return sim.ActionNone, nil
		case ev := <-t.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return sim.ActionQuit, nil
				case tcell.KeyRune:
					if a := sim.KeyAction(ev.Rune()); a != sim.ActionNone {
						return a, nil
					}
				}
			case *tcell.EventResize:
				t.s.Sync()
			}
		}
	}
}

// Close restores the terminal.
func (t *Screen) Close() error {
	close(t.quit)
	t.s.Fini()
	return nil
}
