package render

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/flowvis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	if err := fauxgl.SavePNG(path, img); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// curlGrid adapts a CurlField to plotter.GridXYZ. Rows are flipped so row 0
// is drawn at the top, at y=0, with y decreasing downward.
type curlGrid struct {
	c flowvis.CurlField
}

func (g curlGrid) Dims() (c, r int)       { return g.c.W, g.c.H }
func (g curlGrid) X(c int) float64        { return float64(c) }
func (g curlGrid) Y(r int) float64        { return float64(r - (g.c.H - 1)) }
func (g curlGrid) Z(c, r int) float64     { return float64(g.c.At(c, g.c.H-1-r)) }
func (g curlGrid) size() (w, h vg.Length) { return vg.Length(g.c.W) * 4, vg.Length(g.c.H) * 4 }

// WriteCurlHeatMap plots c as a heat map with axes and saves it to path. The
// image format follows the extension (.png, .svg, .pdf, ...). A nil palette
// selects jet.
func WriteCurlHeatMap(path string, c flowvis.CurlField, p palette.Palette) error {
	if c.W < 2 || c.H < 2 {
		return fmt.Errorf("curl grid %dx%d too small to plot", c.W, c.H)
	}
	if p == nil {
		p = Jet()
	}
	plt := plot.New()
	plt.Title.Text = "Rotation " + filepath.Base(path)
	plt.X.Label.Text = "x"
	plt.Y.Label.Text = "-y"
	grid := curlGrid{c: c}
	hm := plotter.NewHeatMap(grid, p)
	if min, max := c.MinMax(); min == max {
		// HeatMap needs a non empty range.
		hm.Min, hm.Max = float64(min)-1, float64(max)+1
	}
	plt.Add(hm)
	w, h := grid.size()
	return plt.Save(w, h, path)
}
