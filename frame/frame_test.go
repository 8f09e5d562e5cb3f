package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/flowvis"
	"github.com/soypat/glgl/math/ms2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testField(w, h int) *flowvis.VectorField {
	f := flowvis.NewVectorField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, ms2.Vec{X: float32(x) - 0.25*float32(y), Y: float32(x*y) / 7})
		}
	}
	return f
}

func TestFloRoundTrip(t *testing.T) {
	f := testField(5, 3)
	var buf bytes.Buffer
	require.NoError(t, WriteFlo(&buf, f))
	assert.Equal(t, 12+8*5*3, buf.Len())
	assert.Equal(t, "PIEH", buf.String()[:4])

	got, err := ReadFlo(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestFloBadInput(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, floHeader{Magic: 1, Width: 2, Height: 2})
	_, err := ReadFlo(&buf)
	assert.True(t, errors.Is(err, ErrBadFormat))

	_, err = ReadFlo(strings.NewReader("PIE"))
	assert.True(t, errors.Is(err, ErrBadFormat))

	buf.Reset()
	binary.Write(&buf, binary.LittleEndian, floHeader{Magic: floMagic, Width: 2, Height: 2})
	buf.Write(make([]byte, 8*2)) // only one row.
	_, err = ReadFlo(&buf)
	assert.True(t, errors.Is(err, ErrBadFormat))

	buf.Reset()
	binary.Write(&buf, binary.LittleEndian, floHeader{Magic: floMagic, Width: -1, Height: 2})
	_, err = ReadFlo(&buf)
	assert.True(t, errors.Is(err, ErrBadFormat))
}

func TestOpenCVYAMLRoundTrip(t *testing.T) {
	f := testField(4, 6)
	var buf bytes.Buffer
	require.NoError(t, WriteOpenCVYAML(&buf, DefaultYAMLKey, f))
	assert.True(t, strings.HasPrefix(buf.String(), "%YAML:1.0\n"))

	got, err := ReadOpenCVYAML(&buf, DefaultYAMLKey)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestOpenCVYAMLFromOpenCV(t *testing.T) {
	const doc = `%YAML:1.0
---
flow: !!opencv-matrix
   rows: 2
   cols: 2
   dt: "2f"
   data: [ 1., -2., 3.5e-01, 0., .Nan, 4., -.Inf,
       1.25e+00 ]
`
	f, err := ReadOpenCVYAML(strings.NewReader(doc), "flow")
	require.NoError(t, err)
	assert.Equal(t, 2, f.W)
	assert.Equal(t, 2, f.H)
	assert.Equal(t, ms2.Vec{X: 1, Y: -2}, f.At(0, 0))
	assert.Equal(t, ms2.Vec{X: 0.35, Y: 0}, f.At(1, 0))
	assert.True(t, math.IsNaN(float64(f.At(0, 1).X)))
	assert.True(t, math.IsInf(float64(f.At(1, 1).X), -1))
	assert.False(t, f.Finite())

	_, err = ReadOpenCVYAML(strings.NewReader(doc), "other")
	assert.True(t, errors.Is(err, ErrBadFormat))

	short := strings.Replace(doc, "rows: 2", "rows: 3", 1)
	_, err = ReadOpenCVYAML(strings.NewReader(short), "flow")
	assert.True(t, errors.Is(err, ErrBadFormat))

	oneChannel := strings.Replace(doc, `"2f"`, `f`, 1)
	_, err = ReadOpenCVYAML(strings.NewReader(oneChannel), "flow")
	assert.True(t, errors.Is(err, ErrBadFormat))
}

func TestTableRoundTrip(t *testing.T) {
	f := testField(3, 4)
	name := filepath.Join(t.TempDir(), "frame.txt")
	fp, err := os.Create(name)
	require.NoError(t, err)
	require.NoError(t, WriteTable(fp, f))
	require.NoError(t, fp.Close())

	got, err := ReadTable(name)
	require.NoError(t, err)
	require.Equal(t, 3, got.W)
	require.Equal(t, 4, got.H)
	for i := range f.Data {
		assert.InDelta(t, f.Data[i].X, got.Data[i].X, 1e-6)
		assert.InDelta(t, f.Data[i].Y, got.Data[i].Y, 1e-6)
	}
}

func TestTableMissingCell(t *testing.T) {
	name := filepath.Join(t.TempDir(), "frame.txt")
	require.NoError(t, os.WriteFile(name, []byte("0 0 1 1\n1 1 2 2\n"), 0o644))
	_, err := ReadTable(name)
	assert.True(t, errors.Is(err, ErrBadFormat))
}

func writeFrames(t *testing.T, dir, pattern string, n int) []*flowvis.VectorField {
	t.Helper()
	var frames []*flowvis.VectorField
	for i := 0; i < n; i++ {
		f := testField(4, 4)
		f.Set(0, 0, ms2.Vec{X: float32(i)})
		frames = append(frames, f)
		var buf bytes.Buffer
		switch filepath.Ext(pattern) {
		case ".yml":
			require.NoError(t, WriteOpenCVYAML(&buf, DefaultYAMLKey, f))
		case ".flo":
			require.NoError(t, WriteFlo(&buf, f))
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf(pattern, i)), buf.Bytes(), 0o644))
	}
	return frames
}

func TestDirDetect(t *testing.T) {
	for _, pattern := range []string{"u%05d.yml", "%05d.flo"} {
		dir := t.TempDir()
		frames := writeFrames(t, dir, pattern, 3)
		// A gap ends the sequence.
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf(pattern, 4)), nil, 0o644))

		src, err := Open(dir, 0, 0)
		require.NoError(t, err, pattern)
		assert.Equal(t, 3, src.Len())
		for i := range frames {
			got, err := src.Frame(i)
			require.NoError(t, err)
			assert.Equal(t, frames[i], got)
		}
		_, err = src.Frame(3)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	}
}

func TestOpenPattern(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, "flow_%d.flo", 2)
	src, err := Open(filepath.Join(dir, "flow_%d.flo"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())
	assert.Equal(t, "flow_%d.flo", src.(*Dir).Pattern())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(t.TempDir(), 0, 0)
	assert.Error(t, err)
	_, err = Open(filepath.Join(t.TempDir(), "missing"), 0, 0)
	assert.Error(t, err)
	_, err = Open("perlin:zero", 8, 8)
	assert.Error(t, err)
	_, err = NewDir(t.TempDir(), "%05d.png")
	assert.Error(t, err)
}

func TestSlice(t *testing.T) {
	s := Slice{testField(2, 2)}
	f, err := s.Frame(0)
	require.NoError(t, err)
	f.Set(0, 0, ms2.Vec{X: 99})
	assert.NotEqual(t, f.At(0, 0), s[0].At(0, 0), "Frame must return a copy")
	_, err = s.Frame(1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = s.Frame(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestPerlin(t *testing.T) {
	src, err := Open("perlin:4", 16, 12)
	require.NoError(t, err)
	require.Equal(t, 4, src.Len())

	a, err := src.Frame(2)
	require.NoError(t, err)
	b, err := NewPerlin(src.(*Perlin).cfg).Frame(2)
	require.NoError(t, err)
	assert.Equal(t, a, b, "frames must be deterministic")
	assert.Equal(t, 16, a.W)
	assert.Equal(t, 12, a.H)
	assert.True(t, a.Finite())
	assert.Greater(t, a.MaxAbs(), float32(0))

	c, err := src.Frame(3)
	require.NoError(t, err)
	assert.NotEqual(t, a.Data, c.Data, "flow should evolve between frames")

	_, err = src.Frame(4)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	def, err := Open("perlin", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerlinFrames, def.Len())
}
