//go:build !(linux || darwin || freebsd)

package fmi

// Library is unavailable without a dynamic loader; Open always fails and the
// Instance methods exist only to keep the type usable as a [Model].
type Library struct{}

func Open(path, modelIdentifier string) (*Library, error) {
	return nil, ErrUnsupportedPlatform
}

func (l *Library) Close() error { return nil }

func (l *Library) Instantiate(name, guid string, loggingOn bool) (*Instance, error) {
	return nil, ErrUnsupportedPlatform
}

type Instance struct{}

func (m *Instance) SetTime(t float64) Status                 { return StatusFatal }
func (m *Instance) GetContinuousStates(x []float64) Status   { return StatusFatal }
func (m *Instance) SetContinuousStates(x []float64) Status   { return StatusFatal }
func (m *Instance) GetDerivatives(xdot []float64) Status     { return StatusFatal }
func (m *Instance) GetEventIndicators(z []float64) Status    { return StatusFatal }
func (m *Instance) CompletedIntegratorStep() (bool, Status)  { return false, StatusFatal }
func (m *Instance) FreeInstance()                            {}
func (m *Instance) GetReal(vrs []ValueReference, values []float64) Status {
	return StatusFatal
}
func (m *Instance) Initialize(toleranceControlled bool, relativeTolerance float64) (EventInfo, Status) {
	return EventInfo{}, StatusFatal
}
func (m *Instance) EventUpdate(intermediateResults bool) (EventInfo, Status) {
	return EventInfo{}, StatusFatal
}
