package frame

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/soypat/flowvis"
	"github.com/soypat/glgl/math/ms2"
	"gopkg.in/yaml.v3"
)

// DefaultYAMLKey is the node name OpenCV flow dumps are stored under.
const DefaultYAMLKey = "flow"

// ReadOpenCVYAML reads a 2-channel float matrix stored under key in an
// OpenCV FileStorage YAML document:
//
//	%YAML:1.0
//	---
//	flow: !!opencv-matrix
//	   rows: 128
//	   cols: 128
//	   dt: "2f"
//	   data: [ 1.5e-01, -2.0e-02, ... ]
func ReadOpenCVYAML(r io.Reader, key string) (*flowvis.VectorField, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(stripOpenCVDirective(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a YAML mapping document", ErrBadFormat)
	}
	mat := mappingValue(doc.Content[0], key)
	if mat == nil {
		return nil, fmt.Errorf("%w: key %q not found", ErrBadFormat, key)
	}
	if mat.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %q is not an opencv-matrix", ErrBadFormat, key)
	}
	rows, err := scalarInt(mat, "rows")
	if err != nil {
		return nil, err
	}
	cols, err := scalarInt(mat, "cols")
	if err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix dimensions %dx%d", ErrBadFormat, cols, rows)
	}
	if dt := mappingValue(mat, "dt"); dt == nil || dt.Value != "2f" {
		return nil, fmt.Errorf("%w: want dt \"2f\" (2-channel float32)", ErrBadFormat)
	}
	data := mappingValue(mat, "data")
	if data == nil || data.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: missing data sequence", ErrBadFormat)
	}
	if len(data.Content) != 2*rows*cols {
		return nil, fmt.Errorf("%w: %d data values for %dx%dx2 matrix", ErrBadFormat, len(data.Content), rows, cols)
	}
	f := flowvis.NewVectorField(cols, rows)
	for i := range f.Data {
		u, err := parseOpenCVFloat(data.Content[2*i].Value)
		if err != nil {
			return nil, err
		}
		v, err := parseOpenCVFloat(data.Content[2*i+1].Value)
		if err != nil {
			return nil, err
		}
		f.Data[i] = ms2.Vec{X: u, Y: v}
	}
	return f, nil
}

// WriteOpenCVYAML writes f under key as an OpenCV FileStorage YAML document
// that ReadOpenCVYAML and OpenCV itself can read.
func WriteOpenCVYAML(w io.Writer, key string, f *flowvis.VectorField) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%%YAML:1.0\n---\n%s: !!opencv-matrix\n   rows: %d\n   cols: %d\n   dt: \"2f\"\n   data: [", key, f.H, f.W)
	for i, v := range f.Data {
		if i > 0 {
			bw.WriteString(",")
			if i%2 == 0 {
				bw.WriteString("\n       ")
			}
		}
		bw.WriteString(" ")
		bw.WriteString(formatOpenCVFloat(v.X))
		bw.WriteString(", ")
		bw.WriteString(formatOpenCVFloat(v.Y))
	}
	bw.WriteString(" ]\n")
	return bw.Flush()
}

// stripOpenCVDirective drops the "%YAML:1.0" line OpenCV writes, which is
// not a valid YAML directive.
func stripOpenCVDirective(raw []byte) []byte {
	if !bytes.HasPrefix(raw, []byte("%YAML:")) {
		return raw
	}
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		return raw[i+1:]
	}
	return nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalarInt(m *yaml.Node, key string) (int, error) {
	n := mappingValue(m, key)
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("%w: missing %q", ErrBadFormat, key)
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadFormat, key, err)
	}
	return v, nil
}

func parseOpenCVFloat(s string) (float32, error) {
	switch strings.ToLower(s) {
	case ".nan":
		return float32(math.NaN()), nil
	case ".inf", "+.inf":
		return float32(math.Inf(1)), nil
	case "-.inf":
		return float32(math.Inf(-1)), nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return float32(v), nil
}

func formatOpenCVFloat(v float32) string {
	switch {
	case math.IsNaN(float64(v)):
		return ".Nan"
	case math.IsInf(float64(v), 1):
		return ".Inf"
	case math.IsInf(float64(v), -1):
		return "-.Inf"
	}
	return strconv.FormatFloat(float64(v), 'e', 8, 32)
}
