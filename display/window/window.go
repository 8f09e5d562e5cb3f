// Package window shows a visualization in a desktop window with ebiten.
package window

import (
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/soypat/flowvis/display"
	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
)

const defaultTPS = 30

// Run opens a window and drives r from ebiten's update loop, one tick per
// update at a rate of one per tick interval, until the window is closed or a
// quit key is pressed. Frames are shown in the window in addition to r.Sink.
// r.Input is not used; keys come from the window.
func Run(r *display.Runner, title string) error {
	cfg := r.State.Config()
	win := &sink{}
	if r.Sink == nil {
		r.Sink = win
	} else {
		r.Sink = display.Tee(win, r.Sink)
	}
	tps := defaultTPS
	if cfg.TickInterval > 0 {
		tps = max(1, int(time.Second/cfg.TickInterval))
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(3*cfg.DisplayWidth, cfg.DisplayHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(&game{runner: r, win: win, w: 3 * cfg.DisplayWidth, h: cfg.DisplayHeight})
}

type game struct {
	runner *display.Runner
	win    *sink
	chars  []rune
	w, h   int
	eimg   *ebiten.Image
}

func (g *game) Update() error {
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	a := display.TypedAction(g.chars)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a = sim.ActionQuit
	}
	out, err := g.runner.Step(a)
	if err != nil {
		return err
	}
	if out.Quit {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	img := g.win.last()
	if img == nil {
		return
	}
	b := img.Bounds()
	if g.eimg == nil || g.eimg.Bounds().Dx() != b.Dx() || g.eimg.Bounds().Dy() != b.Dy() {
		if g.eimg != nil {
			g.eimg.Deallocate()
		}
		g.eimg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.eimg.WritePixels(img.Pix)
	screen.DrawImage(g.eimg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}

// sink keeps the composite of the last shown frame for Draw.
type sink struct {
	mu  sync.Mutex
	img *image.RGBA
}

func (s *sink) Show(f render.Frames, frame int) error {
	img := f.Composite()
	s.mu.Lock()
	s.img = img
	s.mu.Unlock()
	return nil
}

func (s *sink) last() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

func (s *sink) Close() error { return nil }
