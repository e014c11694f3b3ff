// Package report renders the end-of-run summary.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fmusim/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
)

// Summary is the run report, produced once at run end regardless of outcome
// class.
type Summary struct {
	StartTime float64
	StopTime  float64
	StepSize  float64
	Stats     sim.Stats
}

func (s Summary) lines() []struct{ label, value string } {
	return []struct{ label, value string }{
		{"steps", fmt.Sprintf("%d", s.Stats.Steps)},
		{"fixed step size", fmt.Sprintf("%g", s.StepSize)},
		{"time events", fmt.Sprintf("%d", s.Stats.TimeEvents)},
		{"state events", fmt.Sprintf("%d", s.Stats.StateEvents)},
		{"step events", fmt.Sprintf("%d", s.Stats.StepEvents)},
		{"simulation time", fmt.Sprintf("%g seconds", s.Stats.Elapsed.Seconds())},
	}
}

// String renders the summary without styling.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "simulation from %g to %g terminated successful\n", s.StartTime, s.StopTime)
	for _, l := range s.lines() {
		fmt.Fprintf(&b, "  %s %s %s\n", l.label, dots(l.label), l.value)
	}
	return b.String()
}

// Render renders the summary with terminal styling.
func (s Summary) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("simulation from %g to %g terminated successful", s.StartTime, s.StopTime)))
	b.WriteByte('\n')
	for _, l := range s.lines() {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(l.label + " " + dots(l.label)))
		b.WriteByte(' ')
		b.WriteString(valueStyle.Render(l.value))
		b.WriteByte('\n')
	}
	return b.String()
}

func dots(label string) string {
	const width = 17
	n := width - len(label)
	if n < 2 {
		n = 2
	}
	return strings.Repeat(".", n)
}
