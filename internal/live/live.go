// Package live shows a running simulation in the terminal: current time, a
// sparkline of the first output variable and the latest values. It is fed
// through the simulator's row sink.
package live

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const maxSamples = 200

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
)

type rowMsg struct {
	t      float64
	values []float64
}

type doneMsg struct{ summary string }

// Viewer bridges the simulation loop to a bubbletea program. The loop keeps
// running sequentially in its own goroutine; the viewer only observes emitted
// rows.
type Viewer struct {
	prog *tea.Program
}

func New(title string, names []string) *Viewer {
	m := model{title: title, names: names}
	return &Viewer{prog: tea.NewProgram(m)}
}

// WriteHeader satisfies the simulator's row sink; names are known up front.
func (v *Viewer) WriteHeader(names []string) error { return nil }

func (v *Viewer) WriteRow(t float64, values []float64) error {
	v.prog.Send(rowMsg{t: t, values: append([]float64(nil), values...)})
	return nil
}

// Finish ends the view once the run completes, leaving the summary on screen.
func (v *Viewer) Finish(summary string) {
	v.prog.Send(doneMsg{summary: summary})
}

// Run blocks until the view exits (run finished or user quit).
func (v *Viewer) Run() error {
	_, err := v.prog.Run()
	return err
}

type model struct {
	title   string
	names   []string
	t       float64
	latest  []float64
	series  []float64
	rows    int
	summary string
	done    bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowMsg:
		m.t = msg.t
		m.latest = msg.values
		m.rows++
		if len(msg.values) > 0 {
			m.series = append(m.series, msg.values[0])
			if len(m.series) > maxSamples {
				m.series = m.series[1:]
			}
		}
		return m, nil
	case doneMsg:
		m.done = true
		m.summary = msg.summary
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteByte('\n')

	if len(m.series) > 1 {
		caption := "x0"
		if len(m.names) > 0 {
			caption = m.names[0]
		}
		b.WriteString(asciigraph.Plot(m.series,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(caption),
		))
		b.WriteByte('\n')
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf("t=%.4f  rows=%d", m.t, m.rows)))
	b.WriteByte('\n')
	for i, name := range m.names {
		if i >= len(m.latest) || i >= 6 {
			break
		}
		b.WriteString(statusStyle.Render(fmt.Sprintf("  %s = %g", name, m.latest[i])))
		b.WriteByte('\n')
	}

	if m.done {
		b.WriteString(doneStyle.Render("run complete"))
		b.WriteByte('\n')
		b.WriteString(m.summary)
	} else {
		b.WriteString(statusStyle.Render("press q to quit"))
	}
	return b.String()
}
