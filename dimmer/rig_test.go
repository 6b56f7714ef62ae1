package dimmer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"starlight/core"
	"starlight/sim"
	"starlight/vl6180x"
)

const indicatorPin core.GPIOPin = 25

// rig wires a Switch to a simulated sensor whose power follows the
// shutdown pin.
type rig struct {
	sensor *sim.Sensor
	gpio   *sim.GPIO
	clock  *sim.Clock
	sw     *Switch
	cfg    Config

	events   []Event
	switches []bool
	dims     []uint8
}

func newRig(t *testing.T, mutate ...func(*Config)) *rig {
	t.Helper()
	r := &rig{
		sensor: sim.NewSensor(),
		gpio:   sim.NewGPIO(),
		clock:  sim.NewClock(0),
	}
	cfg := DefaultConfig()
	cfg.Observer = func(ev Event) { r.events = append(r.events, ev) }
	for _, m := range mutate {
		m(&cfg)
	}
	r.cfg = cfg
	r.gpio.OnSet = func(pin core.GPIOPin, v bool) {
		if pin == cfg.ShutdownPin {
			r.sensor.SetPower(v)
		}
	}

	sw, err := New(cfg, r.sensor, r.gpio, r.clock)
	require.NoError(t, err)
	r.sw = sw
	sw.RegisterSwitchCallback(func(_ DimmerSwitch, on bool, _ any) {
		r.switches = append(r.switches, on)
	}, nil)
	sw.RegisterDimCallback(func(_ DimmerSwitch, b uint8, _ any) {
		r.dims = append(r.dims, b)
	}, nil)
	return r
}

func (r *rig) pollAt(ms uint32) {
	r.clock.Set(ms)
	r.sw.Poll()
}

// bringUp runs the switch to Ranging with nothing in front of the sensor.
func (r *rig) bringUp(t *testing.T) {
	t.Helper()
	r.pollAt(0)
	r.pollAt(r.cfg.ResetSettle + 1)
	for i := 0; i < 5; i++ {
		r.sw.Poll()
	}
	require.Equal(t, Ranging, r.sw.State())
	r.sensor.Leave(vl6180x.RangeErrMaxSignalToNoise)
	r.events = nil
}

// enterNear raises the interrupt at ms and keeps the hand at mm afterwards.
func (r *rig) enterNear(t *testing.T, ms uint32, mm uint8) {
	t.Helper()
	r.sensor.Near(mm)
	r.pollAt(ms)
	require.Equal(t, Near, r.sw.State())
	r.sensor.Hover(mm)
}

func (r *rig) gestures() []Gesture {
	var out []Gesture
	for _, ev := range r.events {
		if ev.Kind == EventGesture {
			out = append(out, ev.Gesture)
		}
	}
	return out
}

func (r *rig) eventsOf(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
