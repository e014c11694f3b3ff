package sim

// Events classifies one instant. The three classes are independent and may
// co-occur; any true value triggers the model's event-update.
type Events struct {
	Time  bool
	State bool
	Step  bool
}

func (e Events) Any() bool {
	return e.Time || e.State || e.Step
}

// Detector holds the two live indicator snapshots needed to detect sign
// changes across a step. The buffers are allocated once and reused.
type Detector struct {
	z    []float64
	prez []float64
}

func NewDetector(nz int) *Detector {
	return &Detector{
		z:    make([]float64, nz),
		prez: make([]float64, nz),
	}
}

// Rotate saves the current snapshot as the previous one and returns the
// buffer new indicator values are read into.
func (d *Detector) Rotate() []float64 {
	copy(d.prez, d.z)
	return d.z
}

// StateEvent reports whether any indicator strictly changed sign between the
// two snapshots (prez[i]*z[i] < 0). A crossing landing exactly on zero is not
// detected; this matches the reference behavior, where events are found only
// at the end of the step containing them.
func (d *Detector) StateEvent() bool {
	for i := range d.z {
		if d.prez[i]*d.z[i] < 0 {
			return true
		}
	}
	return false
}

// Crossing records one sign flip for diagnostics.
type Crossing struct {
	Index   int
	Falling bool
}

// Crossings lists the indicators that flipped sign, in index order.
func (d *Detector) Crossings() []Crossing {
	var out []Crossing
	for i := range d.z {
		if d.prez[i]*d.z[i] < 0 {
			out = append(out, Crossing{Index: i, Falling: d.prez[i] > 0 && d.z[i] < 0})
		}
	}
	return out
}

// Classify combines the step-sizing decision, the model's step-completion
// flag and the detector's sign-change check into the event set for the
// current instant.
func Classify(timeEvent, stepEvent bool, d *Detector) Events {
	return Events{
		Time:  timeEvent,
		State: d.StateEvent(),
		Step:  stepEvent,
	}
}
