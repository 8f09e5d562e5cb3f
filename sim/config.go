package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/soypat/flowvis"
	"gopkg.in/gcfg.v1"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds construction-time parameters of a visualization run.
type Config struct {
	// Precision is the number of RK4 substeps run per displayed frame.
	Precision int
	// StepSize is the RK4 step size (differential) of each substep.
	StepSize float32
	// Frames is the number of frames read from the source before the last
	// one is reused.
	Frames int
	// Tracers is the number of tracer points.
	Tracers int

	FieldWidth, FieldHeight     int
	DisplayWidth, DisplayHeight int
	// TickInterval is how long the driving loop waits for input each tick.
	TickInterval time.Duration
	// Seed seeds tracer placement. Zero picks a time based seed.
	Seed int64

	// Colormap names the false-color map of the rotation image.
	Colormap string
	// FieldArrows draws a field arrow every FieldArrows cells on the flow
	// image. Zero disables them.
	FieldArrows int
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Precision < 1:
		return fmt.Errorf("%w: precision must be at least 1, got %d", ErrInvalidConfig, c.Precision)
	case !(c.StepSize > 0):
		return fmt.Errorf("%w: step size must be positive, got %g", ErrInvalidConfig, c.StepSize)
	case c.Frames < 1:
		return fmt.Errorf("%w: frame count must be at least 1, got %d", ErrInvalidConfig, c.Frames)
	case c.Tracers < 0:
		return fmt.Errorf("%w: negative tracer count %d", ErrInvalidConfig, c.Tracers)
	case c.FieldWidth < 1 || c.FieldHeight < 1:
		return fmt.Errorf("%w: field size %dx%d", ErrInvalidConfig, c.FieldWidth, c.FieldHeight)
	case c.DisplayWidth < 1 || c.DisplayHeight < 1:
		return fmt.Errorf("%w: display size %dx%d", ErrInvalidConfig, c.DisplayWidth, c.DisplayHeight)
	case c.TickInterval < 0:
		return fmt.Errorf("%w: negative tick interval %s", ErrInvalidConfig, c.TickInterval)
	case c.FieldArrows < 0:
		return fmt.Errorf("%w: negative field arrow stride %d", ErrInvalidConfig, c.FieldArrows)
	}
	return nil
}

// Scale returns the field to display scale factor of the configuration.
func (c Config) Scale() flowvis.ScaleFactor {
	return flowvis.NewScaleFactor(c.DisplayWidth, c.DisplayHeight, c.FieldWidth, c.FieldHeight)
}

// fileConfig mirrors the layout of a configuration file:
//
//	[flowvis]
//	precision = 10
//	stepsize = 0.1
//	frames = 200
//	tracers = 100
//	tickms = 30
//
//	[render]
//	colormap = jet
//	fieldarrows = 8
type fileConfig struct {
	Flowvis struct {
		Precision     int
		StepSize      float64
		Frames        int
		Tracers       int
		TickMs        int
		Seed          int64
		FieldWidth    int
		FieldHeight   int
		DisplayWidth  int
		DisplayHeight int
	}
	Render struct {
		Colormap    string
		FieldArrows int
	}
}

// LoadConfig overlays the values set in the gcfg file at path onto cfg.
// Keys absent from the file leave cfg untouched.
func LoadConfig(path string, cfg *Config) error {
	fc := toFile(*cfg)
	if err := gcfg.ReadFileInto(&fc, path); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	fromFile(fc, cfg)
	return nil
}

// ParseConfig is LoadConfig reading the configuration from text.
func ParseConfig(text string, cfg *Config) error {
	fc := toFile(*cfg)
	if err := gcfg.ReadStringInto(&fc, text); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	fromFile(fc, cfg)
	return nil
}

func toFile(c Config) fileConfig {
	var fc fileConfig
	fc.Flowvis.Precision = c.Precision
	fc.Flowvis.StepSize = float64(c.StepSize)
	fc.Flowvis.Frames = c.Frames
	fc.Flowvis.Tracers = c.Tracers
	fc.Flowvis.TickMs = int(c.TickInterval / time.Millisecond)
	fc.Flowvis.Seed = c.Seed
	fc.Flowvis.FieldWidth = c.FieldWidth
	fc.Flowvis.FieldHeight = c.FieldHeight
	fc.Flowvis.DisplayWidth = c.DisplayWidth
	fc.Flowvis.DisplayHeight = c.DisplayHeight
	fc.Render.Colormap = c.Colormap
	fc.Render.FieldArrows = c.FieldArrows
	return fc
}

func fromFile(fc fileConfig, c *Config) {
	c.Precision = fc.Flowvis.Precision
	if float64(c.StepSize) != fc.Flowvis.StepSize {
		c.StepSize = float32(fc.Flowvis.StepSize)
	}
	c.Frames = fc.Flowvis.Frames
	c.Tracers = fc.Flowvis.Tracers
	if int(c.TickInterval/time.Millisecond) != fc.Flowvis.TickMs {
		c.TickInterval = time.Duration(fc.Flowvis.TickMs) * time.Millisecond
	}
	c.Seed = fc.Flowvis.Seed
	c.FieldWidth = fc.Flowvis.FieldWidth
	c.FieldHeight = fc.Flowvis.FieldHeight
	c.DisplayWidth = fc.Flowvis.DisplayWidth
	c.DisplayHeight = fc.Flowvis.DisplayHeight
	c.Colormap = fc.Render.Colormap
	c.FieldArrows = fc.Render.FieldArrows
}
