package display

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"time"

	"github.com/icza/mjpeg"
	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
)

// defaultFPS is the playback rate of recordings made with no tick interval.
const defaultFPS = 30

// Recorder is a Sink encoding the side by side composite of every frame
// into a Motion-JPEG AVI file.
type Recorder struct {
	w       mjpeg.AviWriter
	width   int
	height  int
	quality int
	buf     bytes.Buffer
	frames  int
}

// NewRecorder creates the AVI file at path sized for the composite of cfg's
// display and played back at one frame per tick interval.
func NewRecorder(path string, cfg sim.Config) (*Recorder, error) {
	w, h := 3*cfg.DisplayWidth, cfg.DisplayHeight
	fps := int32(defaultFPS)
	if cfg.TickInterval > 0 {
		fps = int32(time.Second / cfg.TickInterval)
	}
	if fps < 1 {
		fps = 1
	}
	aw, err := mjpeg.New(path, int32(w), int32(h), fps)
	if err != nil {
		return nil, fmt.Errorf("creating recording %s: %w", path, err)
	}
	return &Recorder{w: aw, width: w, height: h, quality: 90}, nil
}

// Show appends the composite of f as one video frame.
func (r *Recorder) Show(f render.Frames, frame int) error {
	img := f.Composite()
	if b := img.Bounds(); b.Dx() != r.width || b.Dy() != r.height {
		// AVI frames must all have the stream size.
		fit := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
		draw.Draw(fit, fit.Bounds(), img, b.Min, draw.Src)
		img = fit
	}
	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return err
	}
	if err := r.w.AddFrame(r.buf.Bytes()); err != nil {
		return fmt.Errorf("recording frame %d: %w", frame, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames recorded so far.
func (r *Recorder) Frames() int { return r.frames }

// Close finalizes the AVI file.
func (r *Recorder) Close() error { return r.w.Close() }
