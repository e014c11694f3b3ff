package sim

import "time"

// Stats accumulates run statistics, reported once at run end regardless of
// outcome class.
type Stats struct {
	Steps       int
	TimeEvents  int
	StateEvents int
	StepEvents  int
	Elapsed     time.Duration
}

func (s *Stats) record(ev Events) {
	if ev.Time {
		s.TimeEvents++
	}
	if ev.State {
		s.StateEvents++
	}
	if ev.Step {
		s.StepEvents++
	}
}
