package telemetry

import (
	"starlight/core"
	"starlight/dimmer"
	"starlight/vl6180x"
)

// Describe renders an event as one line of text.
func Describe(ev dimmer.Event) string {
	line := pad(core.Utoa(ev.At), 8) + " ms  " + ev.Kind.String()

	switch ev.Kind {
	case dimmer.EventState:
		line += " " + ev.State.String()
	case dimmer.EventHotPlug:
		line += " detected in " + ev.State.String()
	case dimmer.EventGesture:
		line += " " + ev.Gesture.String()
		if ev.Value != 0 {
			line += " at " + core.Utoa(ev.Value) + " mm"
		}
	case dimmer.EventSwitch:
		if ev.Value != 0 {
			line += " on"
		} else {
			line += " off"
		}
	case dimmer.EventDim:
		line += " " + core.Utoa(ev.Value)
	case dimmer.EventRangeError:
		line += " " + core.Utoa(ev.Value) + " (" + vl6180x.RangeError(ev.Value).String() + ")"
	case dimmer.EventIdentity:
		id := ev.Identity
		line += " model " + core.Hex(uint32(id.ModelID), 2) +
			" rev " + core.Itoa(int(id.ModelRevMajor)) + "." + core.Itoa(int(id.ModelRevMinor)) +
			" module " + core.Itoa(int(id.ModuleRevMajor)) + "." + core.Itoa(int(id.ModuleRevMinor))
	}
	return line
}

func pad(s string, width int) string {
	for len(s) < width {
		s = " " + s
	}
	return s
}
