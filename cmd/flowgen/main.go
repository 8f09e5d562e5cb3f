// Command flowgen writes synthetic flow sequences to disk in the formats the
// flowvis frame sources read, with a curl preview and an index per run.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/frame"
	"github.com/soypat/flowvis/render"
)

const previewName = "preview.png"

type dataset struct {
	Name string
	Dir  string
	cfg  frame.PerlinConfig

	// Following values set during execution.

	Files         string
	Size          string
	ExecutionTime string
	Preview       string
}

var presets = map[string]func(w, h int) frame.PerlinConfig{
	"default": frame.DefaultPerlinConfig,
	"calm": func(w, h int) frame.PerlinConfig {
		c := frame.DefaultPerlinConfig(w, h)
		c.Scale /= 2
		c.TimeScale /= 2
		c.Gain = 0.75
		return c
	},
	"turbulent": func(w, h int) frame.PerlinConfig {
		c := frame.DefaultPerlinConfig(w, h)
		c.Scale *= 2
		c.TimeScale *= 3
		c.Octaves = 5
		c.Gain = 3
		return c
	},
}

const indexTmpl = `# Synthetic flows
{{range .}}
## {{.Name}}
Files {{.Files}} ({{.Size}}), generated in {{.ExecutionTime}}.

![{{.Name}}]({{.Preview}})
{{end}}`

func main() {
	var (
		out     = flag.String("o", "dataflow", "output directory")
		format  = flag.String("format", "yml", "frame format: yml, flo or txt")
		frames  = flag.Int("frames", 50, "frames per sequence")
		size    = flag.Int("size", flowvis.FieldWidth, "field width and height")
		seed    = flag.Int64("seed", 1, "noise seed")
		preset  = flag.String("preset", "default", "comma separated presets: default, calm, turbulent")
		nosplit = flag.Bool("flat", false, "write a single preset straight into the output directory")
	)
	flag.Parse()
	pattern, err := patternFor(*format)
	if err != nil {
		log.Fatal(err)
	}
	names := strings.Split(*preset, ",")
	if *nosplit && len(names) != 1 {
		log.Fatal("-flat takes exactly one preset")
	}
	var sets []dataset
	for _, name := range names {
		mk, ok := presets[name]
		if !ok {
			log.Fatalf("unknown preset %q", name)
		}
		cfg := mk(*size, *size)
		cfg.Frames = *frames
		cfg.Seed = *seed
		dir := filepath.Join(*out, name)
		if *nosplit {
			dir = *out
		}
		sets = append(sets, dataset{Name: name, Dir: dir, cfg: cfg})
	}

	for i, set := range sets {
		tstart := time.Now()
		if err := os.MkdirAll(set.Dir, 0o777); err != nil {
			log.Fatal(err)
		}
		src := frame.NewPerlin(set.cfg)
		var total int64
		for j := 0; j < src.Len(); j++ {
			f, err := src.Frame(j)
			if err != nil {
				log.Fatal(err)
			}
			name := filepath.Join(set.Dir, fmt.Sprintf(pattern, j))
			n, err := writeFrame(name, *format, f)
			if err != nil {
				log.Fatalf("dataset %s frame %d: %s", set.Name, j, err)
			}
			total += n
			if j == 0 {
				err = render.WriteCurlHeatMap(filepath.Join(set.Dir, previewName), flowvis.Curl(f), render.Jet())
				if err != nil {
					log.Fatal(err)
				}
			}
		}
		sets[i].Files = filepath.Join(set.Dir, pattern)
		sets[i].Size = humanSize(total)
		sets[i].ExecutionTime = fmt.Sprintf("%gs", time.Since(tstart).Round(time.Second/10).Seconds())
		sets[i].Preview = filepath.Join(filepath.Base(set.Dir), previewName)
		log.Printf("%s: %d frames, %s", set.Name, src.Len(), sets[i].Size)
	}
	if *nosplit {
		return
	}
	index, err := os.Create(filepath.Join(*out, "index.md"))
	if err != nil {
		log.Fatal(err)
	}
	defer index.Close()
	if err := template.Must(template.New("index").Parse(indexTmpl)).Execute(index, sets); err != nil {
		log.Fatal(err)
	}
}

func patternFor(format string) (string, error) {
	switch format {
	case "yml", "yaml":
		return "u%05d.yml", nil
	case "flo":
		return "%05d.flo", nil
	case "txt":
		return "%05d.txt", nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// writeFrame writes f to name and returns the number of bytes written.
func writeFrame(name, format string, f *flowvis.VectorField) (int64, error) {
	fp, err := os.Create(name)
	if err != nil {
		return 0, err
	}
	defer fp.Close()
	cw := &countWriter{w: fp}
	switch format {
	case "yml", "yaml":
		err = frame.WriteOpenCVYAML(cw, frame.DefaultYAMLKey, f)
	case "flo":
		err = frame.WriteFlo(cw, f)
	default:
		err = frame.WriteTable(cw, f)
	}
	if err != nil {
		return cw.n, err
	}
	return cw.n, fp.Close()
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

func humanSize(bytes int64) (size string) {
	const (
		kB = 1000
		MB = 1000 * kB
		GB = 1000 * MB
	)
	switch {
	case bytes < 10*kB:
		size = fmt.Sprintf("%dB", bytes)
	case bytes < 10*MB:
		size = fmt.Sprintf("%dkB", bytes/kB)
	case bytes < 10*GB:
		size = fmt.Sprintf("%dMB", bytes/MB)
	default:
		size = fmt.Sprintf("%dGB", bytes/GB)
	}
	return size
}
