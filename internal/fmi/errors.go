package fmi

import (
	"errors"
	"fmt"
)

var (
	// ErrInstantiate indicates the model returned a nil instance.
	ErrInstantiate = errors.New("fmi: could not instantiate model")

	// ErrUnsupportedPlatform indicates native model loading is not built on
	// this platform.
	ErrUnsupportedPlatform = errors.New("fmi: native model loading not supported on this platform")

	// ErrMissingSymbol indicates a standardized entry point could not be
	// resolved in the model binary.
	ErrMissingSymbol = errors.New("fmi: entry point not found in model binary")
)

// CallError reports a model call that returned a status above Warning. The
// run aborts immediately; no retry is attempted because the model's internal
// state is untrustworthy after a failed call.
type CallError struct {
	Call   string
	Time   float64
	Status Status
}

func (e *CallError) Error() string {
	return fmt.Sprintf("fmi: %s failed at t=%.16g (status %s)", e.Call, e.Time, e.Status)
}
