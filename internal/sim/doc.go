// Package sim drives time-domain simulation of one loaded model unit.
//
// The loop advances continuous state with a fixed-step forward Euler method
// and reacts to three classes of discrete events:
//
//   - time events, declared in advance by the model and hit exactly by
//     shortening the step
//   - state events, detected as a strict sign change of an event indicator
//     between two consecutive steps
//   - step events, signaled by the model's step-completion hook
//
// Any detected event triggers the model's event-update; the loop then either
// continues stepping or terminates if the model requests it. There is no
// adaptive step control and no root-finding: state events are located only at
// the end of the step that contains them.
package sim
