//go:build linux || darwin || freebsd

package fmi

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/sirupsen/logrus"
)

// callbackFunctions mirrors fmiCallbackFunctions. Memory management is handed
// straight to the C allocator, as the reference simulator does; only the
// logger crosses back into Go.
type callbackFunctions struct {
	logger         uintptr
	allocateMemory uintptr
	freeMemory     uintptr
}

// eventInfoC mirrors the fmiEventInfo C layout (five fmiBoolean chars, pad,
// fmiReal).
type eventInfoC struct {
	iterationConverged          uint8
	stateValueReferencesChanged uint8
	stateValuesChanged          uint8
	terminateSimulation         uint8
	upcomingTimeEvent           uint8
	_                           [3]byte
	nextEventTime               float64
}

func (e *eventInfoC) decode() EventInfo {
	return EventInfo{
		IterationConverged:          e.iterationConverged != 0,
		StateValueReferencesChanged: e.stateValueReferencesChanged != 0,
		StateValuesChanged:          e.stateValuesChanged != 0,
		TerminateSimulation:         e.terminateSimulation != 0,
		UpcomingTimeEvent:           e.upcomingTimeEvent != 0,
		NextEventTime:               e.nextEventTime,
	}
}

// Library binds the prefixed fmi* entry points of one loaded model binary.
type Library struct {
	handle uintptr
	prefix string
	cb     callbackFunctions

	instantiateModel        func(name string, guid string, fns callbackFunctions, loggingOn uint8) uintptr
	freeModelInstance       func(c uintptr)
	setTime                 func(c uintptr, t float64) int32
	initialize              func(c uintptr, toleranceControlled uint8, relativeTolerance float64, info unsafe.Pointer) int32
	getContinuousStates     func(c uintptr, x unsafe.Pointer, nx uint64) int32
	setContinuousStates     func(c uintptr, x unsafe.Pointer, nx uint64) int32
	getDerivatives          func(c uintptr, xdot unsafe.Pointer, nx uint64) int32
	getEventIndicators      func(c uintptr, z unsafe.Pointer, nz uint64) int32
	completedIntegratorStep func(c uintptr, callEventUpdate unsafe.Pointer) int32
	eventUpdate             func(c uintptr, intermediateResults uint8, info unsafe.Pointer) int32
	getReal                 func(c uintptr, vr unsafe.Pointer, nvr uint64, value unsafe.Pointer) int32
}

// Open loads the model binary at path and resolves the model-exchange entry
// points, each prefixed with the model identifier.
func Open(path, modelIdentifier string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("fmi: load %s: %w", path, err)
	}

	l := &Library{handle: handle, prefix: modelIdentifier}
	for _, b := range []struct {
		fptr any
		name string
	}{
		{&l.instantiateModel, "fmiInstantiateModel"},
		{&l.freeModelInstance, "fmiFreeModelInstance"},
		{&l.setTime, "fmiSetTime"},
		{&l.initialize, "fmiInitialize"},
		{&l.getContinuousStates, "fmiGetContinuousStates"},
		{&l.setContinuousStates, "fmiSetContinuousStates"},
		{&l.getDerivatives, "fmiGetDerivatives"},
		{&l.getEventIndicators, "fmiGetEventIndicators"},
		{&l.completedIntegratorStep, "fmiCompletedIntegratorStep"},
		{&l.eventUpdate, "fmiEventUpdate"},
		{&l.getReal, "fmiGetReal"},
	} {
		sym := modelIdentifier + "_" + b.name
		addr, err := purego.Dlsym(handle, sym)
		if err != nil || addr == 0 {
			_ = purego.Dlclose(handle)
			return nil, fmt.Errorf("%w: %s", ErrMissingSymbol, sym)
		}
		purego.RegisterFunc(b.fptr, addr)
	}

	calloc, err := purego.Dlsym(purego.RTLD_DEFAULT, "calloc")
	if err != nil {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("fmi: resolve calloc: %w", err)
	}
	free, err := purego.Dlsym(purego.RTLD_DEFAULT, "free")
	if err != nil {
		_ = purego.Dlclose(handle)
		return nil, fmt.Errorf("fmi: resolve free: %w", err)
	}
	l.cb = callbackFunctions{
		logger:         purego.NewCallback(modelLogger),
		allocateMemory: calloc,
		freeMemory:     free,
	}
	return l, nil
}

func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

// Instantiate creates one model instance. The returned Instance implements
// [Model].
func (l *Library) Instantiate(name, guid string, loggingOn bool) (*Instance, error) {
	c := l.instantiateModel(name, guid, l.cb, boolByte(loggingOn))
	if c == 0 {
		return nil, ErrInstantiate
	}
	return &Instance{lib: l, c: c}, nil
}

// Instance is one instantiated native model.
type Instance struct {
	lib *Library
	c   uintptr
}

func (m *Instance) SetTime(t float64) Status {
	return Status(m.lib.setTime(m.c, t))
}

func (m *Instance) Initialize(toleranceControlled bool, relativeTolerance float64) (EventInfo, Status) {
	var info eventInfoC
	s := m.lib.initialize(m.c, boolByte(toleranceControlled), relativeTolerance, unsafe.Pointer(&info))
	return info.decode(), Status(s)
}

func (m *Instance) GetContinuousStates(x []float64) Status {
	return Status(m.lib.getContinuousStates(m.c, realPtr(x), uint64(len(x))))
}

func (m *Instance) SetContinuousStates(x []float64) Status {
	return Status(m.lib.setContinuousStates(m.c, realPtr(x), uint64(len(x))))
}

func (m *Instance) GetDerivatives(xdot []float64) Status {
	return Status(m.lib.getDerivatives(m.c, realPtr(xdot), uint64(len(xdot))))
}

func (m *Instance) GetEventIndicators(z []float64) Status {
	return Status(m.lib.getEventIndicators(m.c, realPtr(z), uint64(len(z))))
}

func (m *Instance) CompletedIntegratorStep() (bool, Status) {
	var flag uint8
	s := m.lib.completedIntegratorStep(m.c, unsafe.Pointer(&flag))
	return flag != 0, Status(s)
}

func (m *Instance) EventUpdate(intermediateResults bool) (EventInfo, Status) {
	var info eventInfoC
	s := m.lib.eventUpdate(m.c, boolByte(intermediateResults), unsafe.Pointer(&info))
	return info.decode(), Status(s)
}

func (m *Instance) GetReal(vrs []ValueReference, values []float64) Status {
	var vp, rp unsafe.Pointer
	if len(vrs) > 0 {
		vp = unsafe.Pointer(&vrs[0])
		rp = unsafe.Pointer(&values[0])
	}
	return Status(m.lib.getReal(m.c, vp, uint64(len(vrs)), rp))
}

func (m *Instance) FreeInstance() {
	if m.c != 0 {
		m.lib.freeModelInstance(m.c)
		m.c = 0
	}
}

// modelLogger bridges the model's log callback to logrus. Printf-style
// arguments past the message are not expanded.
func modelLogger(c uintptr, instanceName uintptr, status int32, category uintptr, message uintptr) uintptr {
	entry := logrus.WithFields(logrus.Fields{
		"instance": goString(instanceName),
		"category": goString(category),
	})
	msg := goString(message)
	switch {
	case Status(status) == StatusOK:
		entry.Info(msg)
	case Status(status) == StatusWarning:
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
	return 0
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func realPtr(s []float64) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	var b []byte
	for i := uintptr(0); ; i++ {
		c := *(*byte)(unsafe.Pointer(p + i))
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return string(b)
}
