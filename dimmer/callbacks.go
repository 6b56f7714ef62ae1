package dimmer

import "starlight/core"

// registry holds the two callback slots. Each slot is a function and its
// token; both are written and read inside the critical section so a reader
// never sees half of a registration. Invocation happens outside it.
type registry struct {
	onSwitch    SwitchFunc
	switchToken any
	onDim       DimFunc
	dimToken    any
}

func (r *registry) setSwitch(fn SwitchFunc, token any) {
	state := core.DisableInterrupts()
	r.onSwitch = fn
	r.switchToken = token
	core.RestoreInterrupts(state)
}

func (r *registry) setDim(fn DimFunc, token any) {
	state := core.DisableInterrupts()
	r.onDim = fn
	r.dimToken = token
	core.RestoreInterrupts(state)
}

func (r *registry) switchPair() (SwitchFunc, any) {
	state := core.DisableInterrupts()
	fn, token := r.onSwitch, r.switchToken
	core.RestoreInterrupts(state)
	return fn, token
}

func (r *registry) dimPair() (DimFunc, any) {
	state := core.DisableInterrupts()
	fn, token := r.onDim, r.dimToken
	core.RestoreInterrupts(state)
	return fn, token
}

// RegisterSwitchCallback implements DimmerSwitch.
func (s *Switch) RegisterSwitchCallback(fn SwitchFunc, token any) {
	s.callbacks.setSwitch(fn, token)
}

// RegisterDimCallback implements DimmerSwitch.
func (s *Switch) RegisterDimCallback(fn DimFunc, token any) {
	s.callbacks.setDim(fn, token)
}

func (s *Switch) notifySwitch(now uint32) {
	s.emit(Event{Kind: EventSwitch, At: now, Value: boolValue(s.isOn)})
	core.RecordTrace(core.TraceSwitch, now, boolValue(s.isOn), 0)

	fn, token := s.callbacks.switchPair()
	if fn != nil {
		fn(s, s.isOn, token)
	}
}

func (s *Switch) notifyDim(now uint32, brightness uint8) {
	s.emit(Event{Kind: EventDim, At: now, Value: uint32(brightness)})

	fn, token := s.callbacks.dimPair()
	if fn != nil {
		fn(s, brightness, token)
	}
}

func boolValue(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
