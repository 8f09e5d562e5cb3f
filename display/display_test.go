package display

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/frame"
	"github.com/soypat/flowvis/render"
	"github.com/soypat/flowvis/sim"
	"github.com/soypat/glgl/math/ms2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() sim.Config {
	return sim.Config{
		Precision:     1,
		StepSize:      0.5,
		Frames:        3,
		Tracers:       4,
		FieldWidth:    8,
		FieldHeight:   8,
		DisplayWidth:  32,
		DisplayHeight: 32,
		TickInterval:  time.Millisecond,
		Colormap:      "gray",
	}
}

// testFrames returns n uniform fields whose x component is the frame index.
func testFrames(n, w, h int) frame.Slice {
	var s frame.Slice
	for i := 0; i < n; i++ {
		f := flowvis.NewVectorField(w, h)
		for j := range f.Data {
			f.Data[j] = ms2.Vec{X: float32(i), Y: 0.5}
		}
		s = append(s, f)
	}
	return s
}

type memSink struct {
	shown  []int
	closed bool
}

func (m *memSink) Show(f render.Frames, frame int) error {
	if f.Flow == nil || f.Rotation == nil || f.Speed == nil {
		return errors.New("missing image")
	}
	m.shown = append(m.shown, frame)
	return nil
}

func (m *memSink) Close() error { m.closed = true; return nil }

type harness struct {
	runner  *Runner
	sink    *memSink
	sources []int
}

func newHarness(t *testing.T, cfg sim.Config, src frame.Source, keys string) *harness {
	t.Helper()
	state, err := sim.NewState(cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	r, err := render.New(cfg)
	require.NoError(t, err)
	h := &harness{sink: &memSink{}}
	h.runner = &Runner{
		Source:   src,
		Renderer: r,
		Sink:     h.sink,
		Input:    ParseScript(keys),
		State:    state,
		Observe: func(out sim.Output) {
			h.sources = append(h.sources, int(out.Field.At(0, 0).X))
		},
	}
	return h
}

func TestScript(t *testing.T) {
	ctx := context.Background()
	s := ParseScript("w. q")
	want := []sim.Action{sim.ActionStepUp, sim.ActionNone, sim.ActionPause, sim.ActionQuit}
	for _, w := range want {
		a, err := s.Next(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, w, a)
	}
	_, err := s.Next(ctx, 0)
	assert.Equal(t, io.EOF, err)

	s.Loop = true
	a, err := s.Next(ctx, 0)
	assert.NoError(t, err)
	assert.Equal(t, sim.ActionNone, a)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Next(cancelled, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIdle(t *testing.T) {
	a, err := Idle{}.Next(context.Background(), time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, sim.ActionNone, a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Idle{}.Next(ctx, time.Hour)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunnerReusesLastFrame(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, testFrames(3, 8, 8), "....")
	require.NoError(t, h.runner.Run(context.Background()))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, h.sink.shown)
	assert.Equal(t, []int{0, 1, 2, 2, 2}, h.sources)
	assert.False(t, h.sink.closed, "Run must not close the sink")
}

func TestRunnerPause(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, testFrames(3, 8, 8), " .w.")
	require.NoError(t, h.runner.Run(context.Background()))
	assert.Equal(t, []int{1, 2}, h.sink.shown)
	assert.Equal(t, []int{0, 1}, h.sources, "paused ticks must not consume frames")
	assert.Equal(t, cfg.StepSize, h.runner.State.StepSize, "resume key is consumed")
	assert.False(t, h.runner.State.Paused)
}

func TestRunnerQuit(t *testing.T) {
	h := newHarness(t, testConfig(), testFrames(3, 8, 8), ".q..")
	require.NoError(t, h.runner.Run(context.Background()))
	assert.Equal(t, []int{1, 2}, h.sink.shown)
}

func TestRunnerReset(t *testing.T) {
	h := newHarness(t, testConfig(), testFrames(3, 8, 8), ".r.")
	require.NoError(t, h.runner.Run(context.Background()))
	assert.Equal(t, []int{1, 2, 3, 4}, h.sink.shown)
	// The reset tick still shows the frame fetched before it; frame 0 follows.
	assert.Equal(t, []int{0, 1, 2, 0}, h.sources)
}

func TestRunnerErrors(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg, testFrames(1, 8, 8), "...")
	err := h.runner.Run(context.Background())
	assert.True(t, errors.Is(err, frame.ErrOutOfRange), "got %v", err)

	h = newHarness(t, cfg, testFrames(3, 4, 4), "")
	err = h.runner.Run(context.Background())
	assert.True(t, errors.Is(err, frame.ErrDimension), "got %v", err)

	h = newHarness(t, cfg, testFrames(3, 8, 8), "")
	h.runner.Input = &Script{Loop: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = h.runner.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPNGDirAndTee(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	pngs, err := NewPNGDir(dir)
	require.NoError(t, err)
	mem := &memSink{}
	sink := Tee(pngs, mem, Discard)
	h := newHarness(t, testConfig(), testFrames(3, 8, 8), ".")
	h.runner.Sink = sink
	require.NoError(t, h.runner.Run(context.Background()))
	require.NoError(t, sink.Close())
	assert.True(t, mem.closed)
	assert.Equal(t, []int{1, 2}, mem.shown)
	for _, name := range []string{"flow_00001.png", "rotation_00001.png", "speed_00002.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRecorder(t *testing.T) {
	cfg := testConfig()
	name := filepath.Join(t.TempDir(), "run.avi")
	rec, err := NewRecorder(name, cfg)
	require.NoError(t, err)
	h := newHarness(t, cfg, testFrames(3, 8, 8), "..")
	h.runner.Sink = rec
	require.NoError(t, h.runner.Run(context.Background()))
	require.NoError(t, rec.Close())
	assert.Equal(t, 3, rec.Frames())
	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestTypedAction(t *testing.T) {
	assert.Equal(t, sim.ActionNone, TypedAction(nil))
	assert.Equal(t, sim.ActionNone, TypedAction([]rune("xyz")))
	assert.Equal(t, sim.ActionReset, TypedAction([]rune("xrw")))
}
