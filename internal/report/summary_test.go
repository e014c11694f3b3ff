package report

import (
	"strings"
	"testing"
	"time"

	"github.com/san-kum/fmusim/internal/sim"
)

func TestSummaryString(t *testing.T) {
	s := Summary{
		StopTime: 1.0,
		StepSize: 0.25,
		Stats: sim.Stats{
			Steps:       4,
			TimeEvents:  1,
			StateEvents: 2,
			StepEvents:  0,
			Elapsed:     1500 * time.Millisecond,
		},
	}

	out := s.String()
	for _, want := range []string{
		"simulation from 0 to 1 terminated successful",
		"steps ............ 4",
		"fixed step size .. 0.25",
		"time events ...... 1",
		"state events ..... 2",
		"step events ...... 0",
		"1.5 seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryRenderCarriesValues(t *testing.T) {
	s := Summary{StopTime: 2.0, StepSize: 0.1, Stats: sim.Stats{Steps: 20}}
	out := s.Render()
	if !strings.Contains(out, "20") || !strings.Contains(out, "steps") {
		t.Errorf("styled summary missing content:\n%s", out)
	}
}
