package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/soypat/flowvis"
	"github.com/soypat/glgl/math/ms2"
)

// floMagic is the float32 sanity check value at the start of a Middlebury
// .flo file. Its little-endian bytes spell "PIEH".
const floMagic float32 = 202021.25

// maxFloSide guards against allocating absurd grids from corrupt headers.
const maxFloSide = 1 << 15

type floHeader struct {
	Magic  float32
	Width  int32
	Height int32
}

// ReadFlo reads a field stored in the Middlebury .flo format: the magic
// number, int32 width and height, then width*height interleaved float32
// (u,v) pairs in row-major order, all little-endian.
func ReadFlo(r io.Reader) (*flowvis.VectorField, error) {
	var header floHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: encountered EOF while reading .flo header", ErrBadFormat)
		}
		return nil, err
	}
	if header.Magic != floMagic {
		return nil, fmt.Errorf("%w: .flo magic %v, want %v", ErrBadFormat, header.Magic, floMagic)
	}
	if header.Width <= 0 || header.Height <= 0 || header.Width > maxFloSide || header.Height > maxFloSide {
		return nil, fmt.Errorf("%w: .flo dimensions %dx%d", ErrBadFormat, header.Width, header.Height)
	}
	f := flowvis.NewVectorField(int(header.Width), int(header.Height))
	row := make([]float32, 2*f.W)
	for y := 0; y < f.H; y++ {
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("%w: .flo row %d/%d: %v", ErrBadFormat, y, f.H, err)
		}
		for x := 0; x < f.W; x++ {
			f.Set(x, y, ms2.Vec{X: row[2*x], Y: row[2*x+1]})
		}
	}
	return f, nil
}

// WriteFlo writes f in the Middlebury .flo format.
func WriteFlo(w io.Writer, f *flowvis.VectorField) error {
	if f.W > maxFloSide || f.H > maxFloSide {
		return fmt.Errorf("%w: field %dx%d too large for .flo", ErrDimension, f.W, f.H)
	}
	header := floHeader{Magic: floMagic, Width: int32(f.W), Height: int32(f.H)}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	buf := make([]byte, 8*f.W)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			v := f.At(x, y)
			binary.LittleEndian.PutUint32(buf[8*x:], math.Float32bits(v.X))
			binary.LittleEndian.PutUint32(buf[8*x+4:], math.Float32bits(v.Y))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
