package scenario

import (
	"starlight/core"
	"starlight/dimmer"
	"starlight/light"
	"starlight/sim"
)

// IndicatorPin is the pin the runner configures as the near indicator.
const IndicatorPin core.GPIOPin = 25

// Result is the outcome of a run.
type Result struct {
	Events     []dimmer.Event
	Polls      int
	State      dimmer.State
	IsOn       bool
	Brightness uint8
	Color      light.Color
}

// Switches returns the switch events of the run, in order.
func (r *Result) Switches() []bool {
	var out []bool
	for _, ev := range r.Events {
		if ev.Kind == dimmer.EventSwitch {
			out = append(out, ev.Value != 0)
		}
	}
	return out
}

// Run plays the scenario from power-on. Every event is passed to observe
// as it happens when observe is non-nil.
func Run(s *Scenario, observe dimmer.Observer) (*Result, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}

	res := &Result{}
	cfg.Observer = func(ev dimmer.Event) {
		res.Events = append(res.Events, ev)
		if observe != nil {
			observe(ev)
		}
	}

	sensor := sim.NewSensor()
	gpio := sim.NewGPIO()
	gpio.OnSet = func(pin core.GPIOPin, v bool) {
		if pin == cfg.ShutdownPin {
			sensor.SetPower(v)
		}
	}
	clock := sim.NewClock(0)

	sw, err := dimmer.New(cfg, sensor, gpio, clock)
	if err != nil {
		return nil, err
	}
	sw.ConfigureIndicator(IndicatorPin, true)
	out := light.NewOutput()
	out.Attach(sw)

	next := 0
	for now := uint32(0); now <= s.DurationMs; now += s.PollIntervalMs {
		clock.Set(now)
		for next < len(s.Steps) && s.Steps[next].AtMs <= now {
			apply(sensor, s.Steps[next])
			next++
		}
		sw.Poll()
		res.Polls++
	}

	res.State = sw.State()
	res.IsOn = sw.IsOn()
	res.Brightness = out.Brightness()
	res.Color = out.Color()
	return res, nil
}

func apply(sensor *sim.Sensor, st Step) {
	switch {
	case st.Near != nil:
		sensor.Near(*st.Near)
	case st.DistanceMM != nil:
		sensor.Hover(*st.DistanceMM)
	case st.Leave != nil:
		sensor.Leave(st.Leave.Code())
	case st.Reboot:
		sensor.Reboot()
	case st.Unplug:
		sensor.Detach()
	case st.Replug:
		sensor.Attach()
	}
}
