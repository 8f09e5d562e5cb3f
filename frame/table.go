package frame

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/phil-mansfield/table"
	"github.com/soypat/flowvis"
	"github.com/soypat/glgl/math/ms2"
)

// ReadTable reads a whitespace separated text frame with one cell per line:
//
//	0 0 0.25 -0.5
//	1 0 0.31 -0.4
//
// The grid size is one more than the largest x and y index found, and every
// cell of the grid must appear in the file.
func ReadTable(file string) (*flowvis.VectorField, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2, 3}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	xs, ys, us, vs := cols[0], cols[1], cols[2], cols[3]
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrBadFormat, file)
	}
	w, h := 0, 0
	for i := range xs {
		x, y := xs[i], ys[i]
		if x < 0 || y < 0 || x != math.Trunc(x) || y != math.Trunc(y) {
			return nil, fmt.Errorf("%w: row %d has non-integer cell index (%g,%g)", ErrBadFormat, i, x, y)
		}
		if int(x) >= w {
			w = int(x) + 1
		}
		if int(y) >= h {
			h = int(y) + 1
		}
	}
	if w > maxFloSide || h > maxFloSide {
		return nil, fmt.Errorf("%w: table grid %dx%d too large", ErrBadFormat, w, h)
	}
	f := flowvis.NewVectorField(w, h)
	seen := make([]bool, w*h)
	for i := range xs {
		idx := int(ys[i])*w + int(xs[i])
		if seen[idx] {
			return nil, fmt.Errorf("%w: cell (%d,%d) repeated", ErrBadFormat, int(xs[i]), int(ys[i]))
		}
		seen[idx] = true
		f.Data[idx] = ms2.Vec{X: float32(us[i]), Y: float32(vs[i])}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: cell (%d,%d) missing", ErrBadFormat, i%w, i/w)
		}
	}
	return f, nil
}

// WriteTable writes f in the format read by ReadTable.
func WriteTable(w io.Writer, f *flowvis.VectorField) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			v := f.At(x, y)
			fmt.Fprintf(bw, "%d %d %g %g\n", x, y, v.X, v.Y)
		}
	}
	return bw.Flush()
}
