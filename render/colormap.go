package render

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/mazznoer/colorgrad"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// Colormap maps an 8-bit intensity to a color. It implements
// gonum/plot's palette.Palette so it can drive plotter heat maps.
type Colormap [256]color.RGBA

// At returns the color for intensity v.
func (c *Colormap) At(v uint8) color.RGBA { return c[v] }

// Colors returns the map as a slice, lowest intensity first.
func (c *Colormap) Colors() []color.Color {
	cols := make([]color.Color, len(c))
	for i := range c {
		cols[i] = c[i]
	}
	return cols
}

var colormaps = map[string]func() *Colormap{
	"jet":     Jet,
	"bluered": BlueRed,
	"viridis": Viridis,
	"turbo":   Turbo,
	"gray":    Gray,
}

// ColormapNames returns the names accepted by ColormapByName, sorted.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColormapByName returns the named colormap. The empty name selects jet.
func ColormapByName(name string) (*Colormap, error) {
	if name == "" {
		return Jet(), nil
	}
	fn, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q, want one of %v", name, ColormapNames())
	}
	return fn(), nil
}

// Jet runs from blue through cyan, green and yellow to red.
func Jet() *Colormap {
	return fromColors(palette.Rainbow(256, palette.Blue, palette.Red, 1, 1, 1).Colors())
}

// BlueRed is Moreland's smooth diverging blue to red map.
func BlueRed() *Colormap {
	cm := moreland.SmoothBlueRed()
	cm.SetMax(1)
	cm.SetMin(0)
	return fromColors(cm.Palette(256).Colors())
}

// Viridis is the perceptually uniform matplotlib default.
func Viridis() *Colormap { return fromColors(colorgrad.Viridis().Colors(256)) }

// Turbo is Google's improved rainbow map.
func Turbo() *Colormap { return fromColors(colorgrad.Turbo().Colors(256)) }

// Gray maps intensity v to the gray level v.
func Gray() *Colormap {
	var c Colormap
	for i := range c {
		c[i] = color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 255}
	}
	return &c
}

func fromColors(cols []color.Color) *Colormap {
	if len(cols) != 256 {
		panic(fmt.Sprintf("colormap needs 256 colors, got %d", len(cols)))
	}
	var c Colormap
	for i, col := range cols {
		c[i] = color.RGBAModel.Convert(col).(color.RGBA)
	}
	return &c
}
