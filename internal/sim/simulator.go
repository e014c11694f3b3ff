package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/fmusim/internal/fmi"
)

// Config holds the immutable run parameters.
type Config struct {
	StartTime float64
	EndTime   float64
	StepSize  float64
	Logging   bool
}

func (c Config) Validate() error {
	if c.StepSize <= 0 {
		return fmt.Errorf("sim: step size must be positive, got %g", c.StepSize)
	}
	if c.EndTime < c.StartTime {
		return fmt.Errorf("sim: end time %g before start time %g", c.EndTime, c.StartTime)
	}
	return nil
}

// RowWriter receives the header once, then one row per emitted time point.
type RowWriter interface {
	WriteHeader(names []string) error
	WriteRow(t float64, values []float64) error
}

// MultiRow fans rows out to several writers in order.
func MultiRow(writers ...RowWriter) RowWriter {
	return multiRow(writers)
}

type multiRow []RowWriter

func (m multiRow) WriteHeader(names []string) error {
	for _, w := range m {
		if err := w.WriteHeader(names); err != nil {
			return err
		}
	}
	return nil
}

func (m multiRow) WriteRow(t float64, values []float64) error {
	for _, w := range m {
		if err := w.WriteRow(t, values); err != nil {
			return err
		}
	}
	return nil
}

// Outputs couples an output sink with the variables each row carries. Names
// and Refs are parallel, in model-description order.
type Outputs struct {
	Writer RowWriter
	Names  []string
	Refs   []fmi.ValueReference
}

// Simulator owns the iteration from start time to end time over exactly one
// model instance. It is not safe for concurrent use; every model call runs to
// completion before the next begins.
type Simulator struct {
	model fmi.Model
	nx    int
	nz    int
	out   *Outputs

	euler    *Euler
	detector *Detector
	x        []float64
	xdot     []float64
	vals     []float64
}

// New prepares a simulator for one model instance with the given state and
// event-indicator counts from the model description.
func New(model fmi.Model, nx, nz int) *Simulator {
	return &Simulator{model: model, nx: nx, nz: nz, euler: NewEuler()}
}

// SetOutputs configures the row sink. A nil sink disables output entirely.
func (s *Simulator) SetOutputs(out *Outputs) {
	s.out = out
}

// Run executes the simulation and returns the accumulated statistics. The
// model instance is freed on every exit path, normal or not; the returned
// stats are valid in either case. A model-requested termination is a success,
// not an error.
func (s *Simulator) Run(cfg Config) (*Stats, error) {
	stats := &Stats{}
	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	if s.nx < 0 || s.nz < 0 {
		return stats, fmt.Errorf("sim: invalid model dimensions nx=%d nz=%d", s.nx, s.nz)
	}

	defer s.model.FreeInstance()

	start := time.Now()
	defer func() { stats.Elapsed = time.Since(start) }()

	s.x = make([]float64, s.nx)
	s.xdot = make([]float64, s.nx)
	s.detector = NewDetector(s.nz)
	if s.out != nil {
		s.vals = make([]float64, len(s.out.Refs))
	}

	t := cfg.StartTime
	tEnd := cfg.EndTime

	if st := s.model.SetTime(t); st.Failed() {
		return stats, &fmi.CallError{Call: "setTime", Time: t, Status: st}
	}
	info, st := s.model.Initialize(false, 0)
	if st.Failed() {
		return stats, &fmi.CallError{Call: "initialize", Time: t, Status: st}
	}
	if info.TerminateSimulation {
		logrus.Infof("model requested termination at init")
		tEnd = t
	}

	if err := s.writeHeader(); err != nil {
		return stats, err
	}
	if err := s.writeRow(t); err != nil {
		return stats, err
	}

	for t < tEnd {
		if st := s.model.GetContinuousStates(s.x); st.Failed() {
			return stats, &fmi.CallError{Call: "getContinuousStates", Time: t, Status: st}
		}
		if st := s.model.GetDerivatives(s.xdot); st.Failed() {
			return stats, &fmi.CallError{Call: "getDerivatives", Time: t, Status: st}
		}

		tPre := t
		var timeEvent bool
		t, timeEvent = planStep(t, cfg.StepSize, tEnd, info)
		dt := t - tPre
		if st := s.model.SetTime(t); st.Failed() {
			return stats, &fmi.CallError{Call: "setTime", Time: t, Status: st}
		}

		s.euler.Advance(s.x, s.xdot, dt)
		if st := s.model.SetContinuousStates(s.x); st.Failed() {
			return stats, &fmi.CallError{Call: "setContinuousStates", Time: t, Status: st}
		}
		if cfg.Logging {
			logrus.Debugf("step %d to t=%.16g", stats.Steps, t)
		}

		stepEvent, st := s.model.CompletedIntegratorStep()
		if st.Failed() {
			return stats, &fmi.CallError{Call: "completedIntegratorStep", Time: t, Status: st}
		}

		z := s.detector.Rotate()
		if st := s.model.GetEventIndicators(z); st.Failed() {
			return stats, &fmi.CallError{Call: "getEventIndicators", Time: t, Status: st}
		}

		ev := Classify(timeEvent, stepEvent, s.detector)
		if ev.Any() {
			stats.record(ev)
			if cfg.Logging {
				s.logEvents(ev, t)
			}

			// event iteration in one call, intermediate results discarded
			info, st = s.model.EventUpdate(false)
			if st.Failed() {
				return stats, &fmi.CallError{Call: "eventUpdate", Time: t, Status: st}
			}
			if info.TerminateSimulation {
				logrus.Infof("model requested termination at t=%.16g", t)
				break
			}
			if cfg.Logging {
				if info.StateValuesChanged {
					logrus.Debugf("state values changed at t=%.16g", t)
				}
				if info.StateValueReferencesChanged {
					logrus.Debugf("new state variables selected at t=%.16g", t)
				}
			}
		}

		if err := s.writeRow(t); err != nil {
			return stats, err
		}
		stats.Steps++
	}

	return stats, nil
}

func (s *Simulator) logEvents(ev Events, t float64) {
	if ev.Time {
		logrus.Debugf("time event at t=%.16g", t)
	}
	if ev.State {
		for _, c := range s.detector.Crossings() {
			dir := "rising"
			if c.Falling {
				dir = "falling"
			}
			logrus.Debugf("state event (%s) z[%d] at t=%.16g", dir, c.Index, t)
		}
	}
	if ev.Step {
		logrus.Debugf("step event at t=%.16g", t)
	}
}

func (s *Simulator) writeHeader() error {
	if s.out == nil {
		return nil
	}
	return s.out.Writer.WriteHeader(s.out.Names)
}

func (s *Simulator) writeRow(t float64) error {
	if s.out == nil {
		return nil
	}
	if st := s.model.GetReal(s.out.Refs, s.vals); st.Failed() {
		return &fmi.CallError{Call: "getReal", Time: t, Status: st}
	}
	return s.out.Writer.WriteRow(t, s.vals)
}
