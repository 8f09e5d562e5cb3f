// Package render turns the output of a simulation tick into images: the
// curl shaded flow with tracer arrows, the false-colored rotation map and
// the per-tracer speed readout.
package render

import (
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/internal/d2"
	"github.com/soypat/flowvis/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultArrowWidth is the stroke width of tracer arrows in pixels.
	DefaultArrowWidth = 2
	// DefaultTipFrac is the arrow head length as a fraction of the arrow.
	DefaultTipFrac = 0.1
)

// Frames are the images produced for one displayed frame.
type Frames struct {
	// Flow is the gray curl map with tracer arrows.
	Flow *image.RGBA
	// Rotation is the false-colored curl map with tracer arrows and caption.
	Rotation *image.RGBA
	// Speed is the gray curl map with a speed label at every tracer.
	Speed *image.RGBA
}

// Composite returns the three images side by side.
func (f Frames) Composite() *image.RGBA {
	return Compose(f.Flow, f.Rotation, f.Speed)
}

// Renderer draws Frames. Its fields may be changed between calls.
type Renderer struct {
	Width, Height int
	Scale         flowvis.ScaleFactor
	Colormap      *Colormap
	ArrowColor    color.RGBA
	TextColor     color.RGBA
	ArrowWidth    float64
	TipFrac       float64
	// FieldArrows draws a field arrow every FieldArrows cells on the flow
	// image when positive.
	FieldArrows int
}

// New returns a renderer for the display size and colormap of cfg.
func New(cfg sim.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cm, err := ColormapByName(cfg.Colormap)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		Width:       cfg.DisplayWidth,
		Height:      cfg.DisplayHeight,
		Scale:       cfg.Scale(),
		Colormap:    cm,
		ArrowColor:  color.RGBAModel.Convert(fauxgl.HexColor("#FF00FF").NRGBA()).(color.RGBA),
		TextColor:   color.RGBA{R: 10, G: 10, B: 10, A: 255},
		ArrowWidth:  DefaultArrowWidth,
		TipFrac:     DefaultTipFrac,
		FieldArrows: cfg.FieldArrows,
	}, nil
}

// Render draws the images for an advanced tick. out.Field must be set.
func (r *Renderer) Render(out sim.Output) Frames {
	gray := NormalizeCurl(out.Curl)
	flow := Upscale(gray, r.Width, r.Height)
	rotation := Upscale(ApplyColormap(gray, r.Colormap), r.Width, r.Height)
	speed := cloneRGBA(flow)

	if r.FieldArrows > 0 {
		r.drawFieldArrows(flow, out.Field, gray)
	}
	arrows := r.TracerArrows(out.Trajectory)
	DrawArrows(flow, arrows, r.ArrowColor, r.ArrowWidth, r.TipFrac)
	DrawArrows(rotation, arrows, r.ArrowColor, r.ArrowWidth, r.TipFrac)
	DrawText(rotation, 10, 20, "frame: "+strconv.Itoa(out.Frame), r.TextColor)

	canvas := d2.Box{Max: r2.Vec{X: float64(r.Width), Y: float64(r.Height)}}
	for i, row := range out.Speeds {
		for j, v := range row {
			p := r.Scale.ToPixel(out.Trajectory[i+1][j])
			if !canvas.Contains(p) {
				continue
			}
			DrawText(speed, int(p.X), int(p.Y), strconv.Itoa(int(v)), r.ArrowColor)
		}
	}
	return Frames{Flow: flow, Rotation: rotation, Speed: speed}
}

// TracerArrows returns one arrow per tracer per substep, from its position
// before the substep to its position after, in pixels.
func (r *Renderer) TracerArrows(tr flowvis.Trajectory) []Arrow {
	arrows := make([]Arrow, 0, tr.Substeps()*len(tr.Last()))
	for s := 1; s <= tr.Substeps(); s++ {
		for i := range tr[s] {
			from, to := tr.Segment(s, i)
			arrows = append(arrows, Arrow{From: r.Scale.ToPixel(from), To: r.Scale.ToPixel(to)})
		}
	}
	return arrows
}

// ArrowScale returns the factor k for field arrows drawn from pos-F·k to
// pos+F·k so that the largest component of f spans half of a spacing-cell
// overlay step. A zero field returns 0.
func (r *Renderer) ArrowScale(f *flowvis.VectorField, spacing int) float64 {
	max := float64(f.MaxAbs())
	if max == 0 {
		return 0
	}
	return float64(spacing) * r.Scale.Min() / (4 * max)
}

func (r *Renderer) drawFieldArrows(dst *image.RGBA, f *flowvis.VectorField, gray *image.Gray) {
	n := r.FieldArrows
	k := r.ArrowScale(f, n)
	if k == 0 {
		return
	}
	for y := n / 2; y < f.H; y += n {
		for x := n / 2; x < f.W; x += n {
			pos := r.Scale.CellCenter(x, y)
			v := f.At(x, y)
			d := r2.Scale(k, r2.Vec{X: float64(v.X), Y: float64(v.Y)})
			c := r.Colormap.At(gray.GrayAt(x, y).Y)
			DrawArrows(dst, []Arrow{{From: r2.Sub(pos, d), To: r2.Add(pos, d)}}, c, 1, 2*r.TipFrac)
		}
	}
}
