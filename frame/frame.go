// Package frame provides sources of vector field sequences for the
// visualizer: optical-flow files on disk, synthetic flows and in-memory
// sequences.
package frame

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/soypat/flowvis"
)

var (
	// ErrOutOfRange is returned when a frame index outside [0,Len) is requested.
	ErrOutOfRange = errors.New("frame index out of range")
	// ErrBadFormat is returned for malformed frame data.
	ErrBadFormat = errors.New("malformed frame data")
	// ErrDimension is returned when a frame does not have the expected size.
	ErrDimension = errors.New("frame dimension mismatch")
)

// Source supplies the frames of a vector field sequence by index.
type Source interface {
	// Len returns the number of frames available.
	Len() int
	// Frame returns frame i, 0 <= i < Len(). The returned field is owned by
	// the caller.
	Frame(i int) (*flowvis.VectorField, error)
}

// Slice is an in-memory Source.
type Slice []*flowvis.VectorField

// Len returns the number of frames in s.
func (s Slice) Len() int { return len(s) }

// Frame returns a copy of frame i.
func (s Slice) Frame(i int) (*flowvis.VectorField, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, len(s))
	}
	return s[i].Clone(), nil
}

// Open returns the source described by spec:
//
//	perlin          synthetic flow, DefaultPerlinFrames frames
//	perlin:N        synthetic flow, N frames
//	dir             directory of frames; the file pattern is detected
//	dir/u%05d.yml   directory of frames with an explicit printf pattern
//
// w and h size synthetic flows; file sources take their size from the files.
func Open(spec string, w, h int) (Source, error) {
	if spec == "perlin" || strings.HasPrefix(spec, "perlin:") {
		cfg := DefaultPerlinConfig(w, h)
		if n := strings.TrimPrefix(spec, "perlin"); n != "" {
			frames, err := strconv.Atoi(n[1:])
			if err != nil || frames < 1 {
				return nil, fmt.Errorf("bad perlin frame count in %q", spec)
			}
			cfg.Frames = frames
		}
		return NewPerlin(cfg), nil
	}
	if strings.Contains(spec, "%") {
		dir, pattern := splitPattern(spec)
		d, err := NewDir(dir, pattern)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	info, err := os.Stat(spec)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frame source %q is not a directory", spec)
	}
	d, err := NewDir(spec, "")
	if err != nil {
		return nil, err
	}
	return d, nil
}

func splitPattern(spec string) (dir, pattern string) {
	i := strings.LastIndexAny(spec, `/\`)
	if i < 0 {
		return ".", spec
	}
	return spec[:i], spec[i+1:]
}
