// Package dimmer turns a VL6180X proximity sensor into a touchless light
// switch. A quick pass over the sensor toggles the output, a sustained hover
// turns it on and dims it by distance.
//
// The switch is driven entirely by Poll, which the main loop calls as often
// as it likes. Callbacks may be replaced from another context at any time.
package dimmer

import (
	"starlight/core"
	"starlight/vl6180x"
)

// DimmerSwitch is the device-facing surface the render loop talks to.
type DimmerSwitch interface {
	// Poll advances bring-up or samples the sensor. It never blocks beyond
	// a bounded bus transaction.
	Poll()

	// RegisterSwitchCallback replaces the on/off callback. A nil fn
	// disables it.
	RegisterSwitchCallback(fn SwitchFunc, token any)

	// RegisterDimCallback replaces the brightness callback. A nil fn
	// disables it.
	RegisterDimCallback(fn DimFunc, token any)

	// ConfigureIndicator sets the pin that mirrors the Near state and
	// drives it inactive. A second call replaces the pin.
	ConfigureIndicator(pin core.GPIOPin, activeHigh bool)
}

// SwitchFunc is called when the output turns on or off.
type SwitchFunc func(sw DimmerSwitch, isOn bool, token any)

// DimFunc is called with a new brightness on every hover sample.
type DimFunc func(sw DimmerSwitch, brightness uint8, token any)

// State is the bring-up and ranging state of a Switch.
type State uint8

const (
	Uninitialized State = iota
	AwaitingReset
	Powered
	FreshOutOfReset
	CalibrationProgrammed
	Configured
	Initialized
	Ranging
	Near
)

var stateNames = [...]string{
	Uninitialized:         "uninitialized",
	AwaitingReset:         "awaiting-reset",
	Powered:               "powered",
	FreshOutOfReset:       "fresh-out-of-reset",
	CalibrationProgrammed: "calibration-programmed",
	Configured:            "configured",
	Initialized:           "initialized",
	Ranging:               "ranging",
	Near:                  "near",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "state(" + core.Itoa(int(s)) + ")"
}

// Gesture is the classification of one ranging poll.
type Gesture uint8

const (
	NoChange Gesture = iota
	EnteredNear
	LeftNearClick // quick pass, output toggled
	LeftNearHold  // left after a hover, output unchanged
	StillNear
)

var gestureNames = [...]string{
	NoChange:      "no-change",
	EnteredNear:   "entered-near",
	LeftNearClick: "click",
	LeftNearHold:  "left-after-hold",
	StillNear:     "still-near",
}

func (g Gesture) String() string {
	if int(g) < len(gestureNames) {
		return gestureNames[g]
	}
	return "gesture(" + core.Itoa(int(g)) + ")"
}

// EventKind identifies what an Event reports.
type EventKind uint8

const (
	EventState EventKind = iota + 1
	EventGesture
	EventSwitch
	EventDim
	EventRangeError
	EventHotPlug
	EventIdentity
)

var eventNames = [...]string{
	EventState:      "state",
	EventGesture:    "gesture",
	EventSwitch:     "switch",
	EventDim:        "dim",
	EventRangeError: "range-error",
	EventHotPlug:    "hot-plug",
	EventIdentity:   "identity",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) && eventNames[k] != "" {
		return eventNames[k]
	}
	return "event(" + core.Itoa(int(k)) + ")"
}

// Event is a diagnostic record emitted to an Observer.
//
// Value carries the switch level (0/1), the brightness, the distance of a
// gesture or the range error code, depending on Kind.
type Event struct {
	Kind     EventKind
	At       uint32 // clock ms
	State    State
	Gesture  Gesture
	Value    uint32
	Identity vl6180x.Identification
}

// Observer receives events from the poll context. It must not block.
type Observer func(Event)
