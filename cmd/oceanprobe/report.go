package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"OSR/internal/dispatch"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// report is everything the probe prints after a run.
type report struct {
	Backend   string
	Grid      int
	Cascades  int
	Frames    int
	Rebuilds  int
	Elapsed   time.Duration
	StageTime time.Duration
	Energies  []float64
	Height    fieldStats
	Foam      fieldStats
	FoamCover float64
	Probe     []float64
	Profile   []float64
	Stages    []dispatch.Timing
	Verified  bool
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// render formats r for a terminal.
func (r report) render() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Ocean probe"))
	b.WriteString("\n")

	perFrame := time.Duration(0)
	if r.Frames > 0 {
		perFrame = r.Elapsed / time.Duration(r.Frames)
	}
	lines := []string{
		row("backend", r.Backend),
		row("grid", fmt.Sprintf("%d x %d, %d cascades", r.Grid, r.Grid, r.Cascades)),
		row("frames", fmt.Sprintf("%d (%d rebuilds)", r.Frames, r.Rebuilds)),
		row("per frame", perFrame.String()),
		row("last stages", r.StageTime.String()),
		row("height", fmt.Sprintf("mean %.4f  std %.4f  min %.4f  max %.4f", r.Height.Mean, r.Height.StdDev, r.Height.Min, r.Height.Max)),
		row("foam", fmt.Sprintf("mean %.4f  max %.4f  cover %.1f%%", r.Foam.Mean, r.Foam.Max, r.FoamCover*100)),
	}
	if len(r.Energies) > 0 {
		parts := make([]string, len(r.Energies))
		for i, e := range r.Energies {
			parts[i] = fmt.Sprintf("c%d %.3g", i, e)
		}
		lines = append(lines, row("h0 energy", strings.Join(parts, "  ")))
	}
	if r.Verified {
		lines = append(lines, row("fft check", "passed"))
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if len(r.Probe) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(r.Probe,
			asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("centre height over time"))))
		b.WriteString("\n")
	}
	if len(r.Profile) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(r.Profile,
			asciigraph.Height(6), asciigraph.Width(60), asciigraph.Caption("height along centre row"))))
		b.WriteString("\n")
	}
	if len(r.Stages) > 0 {
		b.WriteString(headerStyle.Render("Slowest stages"))
		b.WriteString("\n")
		for _, t := range slowest(r.Stages, 5) {
			b.WriteString(row(t.Name, t.Duration.String()))
			b.WriteString("\n")
		}
	}
	if r.Height.StdDev == 0 {
		b.WriteString(warnStyle.Render("surface is flat: check cutoffs and wind"))
		b.WriteString("\n")
	}
	return b.String()
}

// slowest returns up to n timings ordered by descending duration.
func slowest(timings []dispatch.Timing, n int) []dispatch.Timing {
	sorted := append([]dispatch.Timing(nil), timings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
