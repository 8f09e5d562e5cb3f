package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/sim"
	"github.com/soypat/glgl/math/ms2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/cmpimg"
)

func testConfig() sim.Config {
	return sim.Config{
		Precision:     2,
		StepSize:      1,
		Frames:        1,
		Tracers:       10,
		FieldWidth:    flowvis.FieldWidth,
		FieldHeight:   flowvis.FieldHeight,
		DisplayWidth:  flowvis.DisplayWidth,
		DisplayHeight: flowvis.DisplayHeight,
		TickInterval:  time.Millisecond,
		Colormap:      "jet",
	}
}

func uniformField(v ms2.Vec) *flowvis.VectorField {
	f := flowvis.NewVectorField(flowvis.FieldWidth, flowvis.FieldHeight)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

func vortexField() *flowvis.VectorField {
	f := flowvis.NewVectorField(flowvis.FieldWidth, flowvis.FieldHeight)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			f.Set(x, y, ms2.Vec{X: -float32(y-64) / 64, Y: float32(x-64) / 64})
		}
	}
	return f
}

func tick(t *testing.T, cfg sim.Config, f *flowvis.VectorField) sim.Output {
	t.Helper()
	s, err := sim.NewState(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	out := sim.Tick(s, f, sim.ActionNone)
	require.True(t, out.Advanced)
	return out
}

func countPixels(img *image.RGBA, match func(c color.RGBA) bool) (n int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if match(img.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func magenta(c color.RGBA) bool { return c.R > 128 && c.B > 128 && c.G == 0 }

func TestNormalizeCurl(t *testing.T) {
	c := flowvis.CurlField{W: 3, H: 1, Data: []float32{-2, 0, 2}}
	assert.Equal(t, []uint8{0, 128, 255}, NormalizeCurl(c).Pix)

	flat := flowvis.CurlField{W: 2, H: 2, Data: []float32{3, 3, 3, 3}}
	assert.Equal(t, []uint8{0, 0, 0, 0}, NormalizeCurl(flat).Pix)
}

func TestColormaps(t *testing.T) {
	for _, name := range ColormapNames() {
		cm, err := ColormapByName(name)
		require.NoError(t, err, name)
		assert.Len(t, cm.Colors(), 256)
		for _, c := range cm {
			assert.Equal(t, uint8(255), c.A, name)
		}
	}
	jet, err := ColormapByName("")
	require.NoError(t, err)
	lo, hi := jet.At(0), jet.At(255)
	assert.True(t, lo.B > lo.R, "jet should start blue, got %v", lo)
	assert.True(t, hi.R > hi.B, "jet should end red, got %v", hi)

	gray := Gray()
	assert.Equal(t, color.RGBA{R: 77, G: 77, B: 77, A: 255}, gray.At(77))

	_, err = ColormapByName("sepia")
	assert.Error(t, err)
}

func TestTracerArrows(t *testing.T) {
	cfg := testConfig()
	r, err := New(cfg)
	require.NoError(t, err)
	out := tick(t, cfg, uniformField(ms2.Vec{X: 1}))
	arrows := r.TracerArrows(out.Trajectory)
	require.Len(t, arrows, cfg.Precision*cfg.Tracers)
	for i, a := range arrows {
		assert.InDelta(t, 4, a.To.X-a.From.X, 1e-4, "arrow %d", i)
		assert.InDelta(t, 0, a.To.Y-a.From.Y, 1e-4, "arrow %d", i)
	}
	assert.Equal(t, r.Scale.ToPixel(out.Trajectory[1][0]), arrows[0].To)
}

func TestRender(t *testing.T) {
	cfg := testConfig()
	r, err := New(cfg)
	require.NoError(t, err)
	frames := r.Render(tick(t, cfg, uniformField(ms2.Vec{X: 1})))
	for _, img := range []*image.RGBA{frames.Flow, frames.Rotation, frames.Speed} {
		require.NotNil(t, img)
		assert.Equal(t, image.Rect(0, 0, cfg.DisplayWidth, cfg.DisplayHeight), img.Bounds())
	}
	// Zero curl: black flow, the lowest colormap entry as rotation background.
	assert.Equal(t, color.RGBA{A: 255}, frames.Flow.RGBAAt(cfg.DisplayWidth-1, cfg.DisplayHeight-1))
	assert.Equal(t, r.Colormap.At(0), frames.Rotation.RGBAAt(cfg.DisplayWidth-1, cfg.DisplayHeight-1))

	assert.Greater(t, countPixels(frames.Flow, magenta), 0, "flow arrows")
	assert.Greater(t, countPixels(frames.Speed, magenta), 0, "speed labels")
	caption := frames.Rotation.SubImage(image.Rect(0, 0, 120, 24)).(*image.RGBA)
	assert.Greater(t, countPixels(caption, func(c color.RGBA) bool { return c == r.TextColor }), 0, "frame caption")

	composite := frames.Composite()
	assert.Equal(t, image.Rect(0, 0, 3*cfg.DisplayWidth, cfg.DisplayHeight), composite.Bounds())
	assert.Equal(t, frames.Rotation.RGBAAt(300, 300), composite.RGBAAt(cfg.DisplayWidth+300, 300))
}

func TestRenderDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.FieldArrows = 16
	encode := func() []byte {
		r, err := New(cfg)
		require.NoError(t, err)
		frames := r.Render(tick(t, cfg, vortexField()))
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, frames.Composite()))
		return buf.Bytes()
	}
	ok, err := cmpimg.Equal("png", encode(), encode())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArrowScale(t *testing.T) {
	r, err := New(testConfig())
	require.NoError(t, err)
	f := uniformField(ms2.Vec{X: 2, Y: -0.5})
	k := r.ArrowScale(f, 8)
	// The largest arrow, 2·k·2 pixels long, spans half of 8 cells of 4 pixels.
	assert.InDelta(t, 16, 2*k*2, 1e-9)
	assert.Zero(t, r.ArrowScale(uniformField(ms2.Vec{}), 8))
}

func TestNewErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Colormap = "nope"
	_, err := New(cfg)
	assert.Error(t, err)
	cfg = testConfig()
	cfg.Precision = 0
	_, err = New(cfg)
	assert.True(t, errors.Is(err, sim.ErrInvalidConfig))
}

func TestSaveFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	out := tick(t, cfg, vortexField())

	name := filepath.Join(dir, "rotation.png")
	gray := NormalizeCurl(out.Curl)
	require.NoError(t, SavePNG(name, ApplyColormap(gray, Viridis())))
	fp, err := os.Open(name)
	require.NoError(t, err)
	defer fp.Close()
	img, err := png.Decode(fp)
	require.NoError(t, err)
	assert.Equal(t, gray.Bounds(), img.Bounds())

	heat := filepath.Join(dir, "curl.png")
	require.NoError(t, WriteCurlHeatMap(heat, out.Curl, nil))
	info, err := os.Stat(heat)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, WriteCurlHeatMap(heat, flowvis.NewCurlField(1, 1), nil))
}
