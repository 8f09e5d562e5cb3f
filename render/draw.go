package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/nfnt/resize"
	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/internal/d2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// Arrow is a line segment in pixel space with a head at To.
type Arrow struct {
	From, To r2.Vec
}

// NormalizeCurl maps c linearly onto [0,255], the smallest value to 0 and
// the largest to 255. A constant grid maps to all zeros.
func NormalizeCurl(c flowvis.CurlField) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.W, c.H))
	min, max := c.MinMax()
	span := max - min
	if !(span > 0) {
		return img
	}
	gain := 255 / float64(span)
	for i, v := range c.Data {
		img.Pix[i] = uint8(math.Round(float64(v-min) * gain))
	}
	return img
}

// ApplyColormap false-colors a gray image.
func ApplyColormap(gray *image.Gray, cm *Colormap) *image.RGBA {
	b := gray.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, cm.At(gray.GrayAt(x, y).Y))
		}
	}
	return dst
}

// Upscale resizes img to w×h with bicubic interpolation and returns an
// opaque RGBA copy.
func Upscale(img image.Image, w, h int) *image.RGBA {
	resized := resize.Resize(uint(w), uint(h), img, resize.Bicubic)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return dst
}

// DrawArrows strokes every arrow onto dst with the given width and color.
// Heads are OpenCV style: two barbs of tipFrac times the arrow length.
func DrawArrows(dst draw.Image, arrows []Arrow, c color.Color, width, tipFrac float64) {
	if len(arrows) == 0 {
		return
	}
	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.BeginPath()
	for _, a := range arrows {
		left, right := d2.ArrowHead(a.From, a.To, tipFrac)
		gc.MoveTo(a.From.X, a.From.Y)
		gc.LineTo(a.To.X, a.To.Y)
		gc.MoveTo(left.X, left.Y)
		gc.LineTo(a.To.X, a.To.Y)
		gc.LineTo(right.X, right.Y)
	}
	gc.Stroke()
}

// DrawText writes s onto dst with its baseline starting at (x,y).
func DrawText(dst draw.Image, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Compose places images left to right on one canvas, top aligned.
func Compose(imgs ...*image.RGBA) *image.RGBA {
	w, h := 0, 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		w += img.Bounds().Dx()
		if img.Bounds().Dy() > h {
			h = img.Bounds().Dy()
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	x := 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		r := img.Bounds()
		draw.Draw(dst, image.Rect(x, 0, x+r.Dx(), r.Dy()), img, r.Min, draw.Src)
		x += r.Dx()
	}
	return dst
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	c := image.NewRGBA(img.Bounds())
	copy(c.Pix, img.Pix)
	return c
}
