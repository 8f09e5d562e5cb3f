package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/soypat/flowvis"
	"github.com/soypat/flowvis/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// report accumulates per-frame statistics of a run.
type report struct {
	meanSpeed []float64
	peakSpeed float64
	last      flowvis.CurlField
	elapsed   time.Duration
}

func (r *report) observe(out sim.Output) {
	var all []float64
	for _, row := range out.Speeds {
		all = append(all, row...)
	}
	if len(all) > 0 {
		r.meanSpeed = append(r.meanSpeed, stat.Mean(all, nil))
		r.peakSpeed = max(r.peakSpeed, floats.Max(all))
	}
	r.last = out.Curl
}

func (r *report) String(s *sim.State) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Flow visualization"))
	b.WriteByte('\n')
	row := func(label, format string, args ...any) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(fmt.Sprintf(format, args...)))
		b.WriteByte('\n')
	}
	row("frames shown", "%d", s.Displayed())
	if r.elapsed > 0 && s.Displayed() > 0 {
		row("frame rate", "%.1f/s", float64(s.Displayed())/r.elapsed.Seconds())
	}
	row("precision", "%d", s.Precision)
	row("step size", "%.4g", s.StepSize)
	row("tracers", "%d", len(s.Tracers))
	if len(r.meanSpeed) > 0 {
		row("mean speed", "%.1f", stat.Mean(r.meanSpeed, nil))
		row("peak speed", "%.1f", r.peakSpeed)
	}
	if len(r.meanSpeed) > 1 {
		graph := asciigraph.Plot(r.meanSpeed, asciigraph.Height(8), asciigraph.Width(60),
			asciigraph.Caption("mean tracer speed per frame"))
		b.WriteString(graphStyle.Render(graph))
		b.WriteByte('\n')
	}
	return b.String()
}
