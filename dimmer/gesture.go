package dimmer

import (
	"starlight/core"
	"starlight/vl6180x"
)

// interpret classifies one ranging sample and fires callbacks.
func (s *Switch) interpret(now uint32) Gesture {
	if s.dev.RangeInterruptPending() {
		s.absorb("clear interrupt", s.dev.ClearInterrupt())
		return s.report(now, s.handleNear(now), 0)
	}

	status := s.dev.RangeStatus()
	if code := status.ErrorCode(); code != vl6180x.RangeErrNone {
		s.rangeError(now, code)
		return s.report(now, s.handleNotNear(now), 0)
	}
	s.lastErr = vl6180x.RangeErrNone

	mm := s.dev.RangeMM()
	if mm > s.cfg.NearThresholdMM {
		return s.report(now, s.handleNotNear(now), mm)
	}
	return s.report(now, s.handleStillNear(now, mm), mm)
}

func (s *Switch) handleNear(now uint32) Gesture {
	if s.state != Ranging {
		return NoChange
	}
	s.enter(Near, now)
	s.nearAt = now
	s.setIndicator(true)
	return EnteredNear
}

// handleStillNear turns the output on once the hover passes HoldTimeout and
// reports the brightness for every sample. A sample below the threshold in
// Ranging without the interrupt has no near-start to measure from and is
// ignored until the interrupt arrives.
func (s *Switch) handleStillNear(now uint32, mm uint8) Gesture {
	if s.state != Near {
		return NoChange
	}
	if core.Elapsed(now, s.nearAt) >= s.cfg.HoldTimeout && !s.isOn {
		s.isOn = true
		s.notifySwitch(now)
	}
	s.notifyDim(now, Brightness(mm, s.cfg.MinDistanceMM, s.cfg.NearThresholdMM))
	return StillNear
}

func (s *Switch) handleNotNear(now uint32) Gesture {
	if s.state != Near {
		return NoChange
	}
	s.setIndicator(false)
	s.enter(Ranging, now)
	if core.Elapsed(now, s.nearAt) < s.cfg.HoldTimeout {
		s.isOn = !s.isOn
		s.notifySwitch(now)
		return LeftNearClick
	}
	return LeftNearHold
}

// rangeError reports a failed sample once per distinct code.
func (s *Switch) rangeError(now uint32, code vl6180x.RangeError) {
	if code == s.lastErr {
		return
	}
	s.lastErr = code
	core.RecordTrace(core.TraceRangeError, now, uint32(code), 0)
	core.DebugPrintln("dimmer: range error " + core.Itoa(int(code)) + " " + code.String())
	s.emit(Event{Kind: EventRangeError, At: now, State: s.state, Value: uint32(code)})
}

// report records edge gestures. StillNear repeats every sample and is
// covered by the dim event.
func (s *Switch) report(now uint32, g Gesture, mm uint8) Gesture {
	if g == NoChange || g == StillNear {
		return g
	}
	core.RecordTrace(core.TraceGesture, now, uint32(g), uint32(mm))
	s.emit(Event{Kind: EventGesture, At: now, State: s.state, Gesture: g, Value: uint32(mm)})
	return g
}
