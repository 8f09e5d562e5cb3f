// Command flowvis visualizes a sequence of 2D flow fields: the curl of each
// frame and tracer particles advected through it.
//
// Keys: space pauses, q quits, r resets the tracers and the sequence, w/s
// scale the step size up and down, d/a add and remove substeps.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/display"
	"github.com/soypat/flowvis/display/term"
	"github.com/soypat/flowvis/display/window"
	"github.com/soypat/flowvis/frame"
	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
)

var (
	srcFlag       = flag.String("src", "perlin", "frame source: perlin[:N], a directory of frames or dir/pattern such as dataflow/u%05d.yml")
	configFlag    = flag.String("config", "", "gcfg configuration file; flags given explicitly override it")
	precisionFlag = flag.Int("precision", 10, "RK4 substeps per frame")
	stepFlag      = flag.Float64("step", 0.1, "RK4 step size")
	framesFlag    = flag.Int("frames", 0, "frames to read before reusing the last one (0 = all)")
	tracersFlag   = flag.Int("tracers", 100, "number of tracer points")
	tickFlag      = flag.Duration("tick", 30*time.Millisecond, "time to wait for a key each frame")
	seedFlag      = flag.Int64("seed", 0, "tracer seed (0 = time based)")
	colormapFlag  = flag.String("colormap", "jet", "rotation colormap: "+strings.Join(render.ColormapNames(), ", "))
	arrowsFlag    = flag.Int("arrows", 0, "draw a field arrow every N cells (0 = off)")
	displayFlag   = flag.String("display", "term", "display: term, window, png or none")
	outFlag       = flag.String("out", "frames", "output directory of the png display")
	recordFlag    = flag.String("record", "", "also record the run to this MJPEG .avi file")
	keysFlag      = flag.String("keys", "", "scripted keys for png and none displays, '.' is a tick without key (default: one tick per frame)")
	heatmapFlag   = flag.String("heatmap", "", "write a heat map of the last frame's curl to this file at exit")
	debugFlag     = flag.String("debug", "", "write a debug log to this file")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "flowvis:", err)
		os.Exit(1)
	}
}

func run() error {
	logger := log.New(io.Discard, "", 0)
	if *debugFlag != "" {
		fp, err := os.Create(*debugFlag)
		if err != nil {
			return err
		}
		defer fp.Close()
		logger = log.New(fp, "flowvis: ", log.LstdFlags|log.Lmicroseconds)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := frame.Open(*srcFlag, cfg.FieldWidth, cfg.FieldHeight)
	if err != nil {
		return err
	}
	if src.Len() < 1 {
		return fmt.Errorf("frame source %q is empty", *srcFlag)
	}
	// File sources set the field size.
	first, err := src.Frame(0)
	if err != nil {
		return fmt.Errorf("reading frame 0: %w", err)
	}
	cfg.FieldWidth, cfg.FieldHeight = first.Dims()
	if cfg.Frames == 0 || cfg.Frames > src.Len() {
		cfg.Frames = src.Len()
	}
	logger.Printf("source %s: %d frames of %dx%d", *srcFlag, cfg.Frames, cfg.FieldWidth, cfg.FieldHeight)

	state, err := sim.NewState(cfg, nil)
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg)
	if err != nil {
		return err
	}
	rep := &report{}
	r := &display.Runner{
		Source:   src,
		Renderer: renderer,
		State:    state,
		Logger:   logger,
		Observe:  rep.observe,
	}
	if *recordFlag != "" {
		rec, err := display.NewRecorder(*recordFlag, cfg)
		if err != nil {
			return err
		}
		defer rec.Close()
		r.Sink = rec
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	start := time.Now()
	switch *displayFlag {
	case "term":
		scr, err := term.New()
		if err != nil {
			return err
		}
		scr.Status = func() string {
			return fmt.Sprintf("step %.3g  precision %d", state.StepSize, state.Precision)
		}
		r.Input = scr
		r.Sink = tee(scr, r.Sink)
		err = r.Run(ctx)
		scr.Close()
		if err != nil {
			return err
		}
	case "window":
		if err := window.Run(r, "Flow Visualization"); err != nil {
			return err
		}
	case "png", "none":
		sink := display.Discard
		if *displayFlag == "png" {
			dir, err := display.NewPNGDir(*outFlag)
			if err != nil {
				return err
			}
			sink = dir
		}
		keys := *keysFlag
		if keys == "" {
			keys = strings.Repeat(".", cfg.Frames-1)
		}
		r.Input = display.ParseScript(keys)
		r.Sink = tee(sink, r.Sink)
		if err := r.Run(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown display %q", *displayFlag)
	}
	rep.elapsed = time.Since(start)

	if *heatmapFlag != "" && rep.last.Data != nil {
		if err := render.WriteCurlHeatMap(*heatmapFlag, rep.last, renderer.Colormap); err != nil {
			return err
		}
	}
	fmt.Println(rep.String(state))
	return nil
}

// loadConfig builds the run configuration from the flag defaults, the
// configuration file and then the flags set on the command line.
func loadConfig() (sim.Config, error) {
	cfg := sim.Config{
		FieldWidth:    flowvis.FieldWidth,
		FieldHeight:   flowvis.FieldHeight,
		DisplayWidth:  flowvis.DisplayWidth,
		DisplayHeight: flowvis.DisplayHeight,
	}
	applyFlag := func(name string) {
		switch name {
		case "precision":
			cfg.Precision = *precisionFlag
		case "step":
			cfg.StepSize = float32(*stepFlag)
		case "frames":
			cfg.Frames = *framesFlag
		case "tracers":
			cfg.Tracers = *tracersFlag
		case "tick":
			cfg.TickInterval = *tickFlag
		case "seed":
			cfg.Seed = *seedFlag
		case "colormap":
			cfg.Colormap = *colormapFlag
		case "arrows":
			cfg.FieldArrows = *arrowsFlag
		}
	}
	flag.VisitAll(func(f *flag.Flag) { applyFlag(f.Name) })
	if *configFlag != "" {
		if err := sim.LoadConfig(*configFlag, &cfg); err != nil {
			return cfg, err
		}
		flag.Visit(func(f *flag.Flag) { applyFlag(f.Name) })
	}
	return cfg, nil
}

func tee(s display.Sink, other display.Sink) display.Sink {
	if other == nil {
		return s
	}
	return display.Tee(s, other)
}
