package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fmusim/internal/fmi"
)

// Euler is the explicit forward method: x += dt*xdot, first-order accurate,
// no error control.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

// Advance updates x in place over the interval dt. Both slices must have
// equal length.
func (e *Euler) Advance(x, xdot []float64, dt float64) {
	floats.AddScaled(x, dt, xdot)
}

// planStep returns the time the next step lands on and whether it was
// shortened to hit a declared time event. The nominal target is
// min(t+h, tEnd); a declared event time strictly inside that interval wins,
// so time events are hit exactly, never overshot or skipped.
func planStep(t, h, tEnd float64, info fmi.EventInfo) (float64, bool) {
	next := math.Min(t+h, tEnd)
	if info.UpcomingTimeEvent && info.NextEventTime < next {
		return info.NextEventTime, true
	}
	return next, false
}
