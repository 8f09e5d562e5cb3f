package frame

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/flowvis"
)

// DefaultPatterns lists the file name patterns NewDir tries, in order, when
// no pattern is given. The first one whose frame 0 exists wins.
var DefaultPatterns = []string{"u%05d.yml", "%05d.flo", "u%05d.flo", "%05d.txt"}

// Dir is a Source reading numbered frame files from a directory. Frame i
// is the file named by fmt.Sprintf(pattern, i). The decoder is picked from
// the file extension: .yml/.yaml for OpenCV YAML, .flo for Middlebury flow
// and .txt/.dat for x y u v tables.
type Dir struct {
	dir     string
	pattern string
	key     string
	n       int
}

// NewDir returns a Source over the frames in dir. An empty pattern selects
// the first of DefaultPatterns that matches a file. Frames are counted from
// 0 up to the first missing index.
func NewDir(dir, pattern string) (*Dir, error) {
	if pattern == "" {
		for _, p := range DefaultPatterns {
			if fileExists(filepath.Join(dir, fmt.Sprintf(p, 0))) {
				pattern = p
				break
			}
		}
		if pattern == "" {
			return nil, fmt.Errorf("no frame files found in %s", dir)
		}
	}
	if _, err := decoderFor(pattern); err != nil {
		return nil, err
	}
	d := &Dir{dir: dir, pattern: pattern, key: DefaultYAMLKey}
	for fileExists(d.path(d.n)) {
		d.n++
	}
	if d.n == 0 {
		return nil, fmt.Errorf("frame 0 (%s) not found", d.path(0))
	}
	return d, nil
}

// SetYAMLKey changes the node name YAML frames are read from.
func (d *Dir) SetYAMLKey(key string) { d.key = key }

// Len returns the number of consecutive frames found when d was created.
func (d *Dir) Len() int { return d.n }

// Pattern returns the file name pattern in use.
func (d *Dir) Pattern() string { return d.pattern }

// Frame reads and decodes frame i.
func (d *Dir) Frame(i int) (*flowvis.VectorField, error) {
	if i < 0 || i >= d.n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, d.n)
	}
	name := d.path(i)
	dec, _ := decoderFor(d.pattern)
	f, err := dec(name, d.key)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", i, err)
	}
	return f, nil
}

func (d *Dir) path(i int) string {
	return filepath.Join(d.dir, fmt.Sprintf(d.pattern, i))
}

type decodeFunc func(name, key string) (*flowvis.VectorField, error)

func decoderFor(pattern string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(pattern)) {
	case ".yml", ".yaml":
		return func(name, key string) (*flowvis.VectorField, error) {
			fp, err := os.Open(name)
			if err != nil {
				return nil, err
			}
			defer fp.Close()
			return ReadOpenCVYAML(fp, key)
		}, nil
	case ".flo":
		return func(name, _ string) (*flowvis.VectorField, error) {
			fp, err := os.Open(name)
			if err != nil {
				return nil, err
			}
			defer fp.Close()
			return ReadFlo(fp)
		}, nil
	case ".txt", ".dat":
		return func(name, _ string) (*flowvis.VectorField, error) {
			return ReadTable(name)
		}, nil
	}
	return nil, fmt.Errorf("unsupported frame file pattern %q", pattern)
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
