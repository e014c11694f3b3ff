package fmi

// Status is the severity a model call returns. The ladder matches the FMI 1.0
// fmiStatus enumeration; anything above Warning means the model's internal
// state can no longer be trusted.
type Status int32

const (
	StatusOK Status = iota
	StatusWarning
	StatusDiscard
	StatusError
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusDiscard:
		return "discard"
	case StatusError:
		return "error"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Failed reports whether a call returning s must abort the run.
func (s Status) Failed() bool {
	return s > StatusWarning
}

// EventInfo is produced by Initialize and EventUpdate. NextEventTime is
// meaningful only while UpcomingTimeEvent is set.
type EventInfo struct {
	IterationConverged          bool
	StateValueReferencesChanged bool
	StateValuesChanged          bool
	TerminateSimulation         bool
	UpcomingTimeEvent           bool
	NextEventTime               float64
}

// ValueReference identifies a scalar variable of the model.
type ValueReference uint32

// Model is one instantiated model unit. All operations are strictly
// sequential; no two calls ever run concurrently. Buffer arguments carry their
// length implicitly, sized by the caller from the model description.
type Model interface {
	SetTime(t float64) Status
	Initialize(toleranceControlled bool, relativeTolerance float64) (EventInfo, Status)
	GetContinuousStates(x []float64) Status
	SetContinuousStates(x []float64) Status
	GetDerivatives(xdot []float64) Status
	GetEventIndicators(z []float64) Status

	// CompletedIntegratorStep is called after every state write-back; the
	// returned flag signals a step event (e.g. dynamic state selection).
	CompletedIntegratorStep() (bool, Status)

	// EventUpdate resolves the model's discrete state after an event. With
	// intermediateResults false, only the converged result is reported.
	EventUpdate(intermediateResults bool) (EventInfo, Status)

	// GetReal reads the current values of the given variables, for output
	// rows. Both slices must have equal length.
	GetReal(vrs []ValueReference, values []float64) Status

	// FreeInstance tears the instance down. No call is valid afterwards.
	FreeInstance()
}
