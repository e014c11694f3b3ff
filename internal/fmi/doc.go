// Package fmi defines the FMI 1.0 model-exchange capability set consumed by
// the simulation loop:
//
//   - [Model]: the fixed set of operations an instantiated model exposes
//   - [Status]: severity ladder returned by every model call
//   - [EventInfo]: discrete-event information returned by initialize and
//     event-update
//   - [Library]: dlopen-based binding of a model binary's entry points
//
// The loop is written against [Model] only, so it can be exercised with a
// scripted fake; [Library] and [Instance] supply the native implementation on
// platforms with a dynamic loader.
package fmi
