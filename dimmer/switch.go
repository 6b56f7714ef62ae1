package dimmer

import (
	"starlight/core"
	"starlight/vl6180x"

	"tinygo.org/x/drivers"
)

// Switch is a DimmerSwitch backed by a VL6180X.
//
// Poll, ConfigureIndicator and the accessors belong to the poll context.
// Only the callback registrations may be changed from elsewhere.
type Switch struct {
	cfg   Config
	dev   *vl6180x.Device
	gpio  core.GPIODriver
	clock core.Clock

	state      State
	rangeCount uint32
	poweredAt  uint32
	nearAt     uint32
	isOn       bool
	lastErr    vl6180x.RangeError

	indicator indicator
	callbacks registry
}

type indicator struct {
	pin        core.GPIOPin
	activeHigh bool
	configured bool
}

// New creates a switch on bus. The sensor is held in shutdown until the
// first Poll.
func New(cfg Config, bus drivers.I2C, gpio core.GPIODriver, clock core.Clock) (*Switch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dev := vl6180x.New(bus)
	dev.Address = cfg.Address
	dev.ReadAttempts = cfg.ReadAttempts

	s := &Switch{
		cfg:   cfg,
		dev:   dev,
		gpio:  gpio,
		clock: clock,
	}

	if err := gpio.ConfigureOutput(cfg.ShutdownPin); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureInputPullUp(cfg.InterruptPin); err != nil {
		return nil, err
	}
	s.setShutdown(false)
	return s, nil
}

// State returns the current bring-up state.
func (s *Switch) State() State {
	return s.state
}

// IsOn reports the output level.
func (s *Switch) IsOn() bool {
	return s.isOn
}

// Device returns the register layer the switch drives.
func (s *Switch) Device() *vl6180x.Device {
	return s.dev
}

// Poll implements DimmerSwitch.
func (s *Switch) Poll() {
	now := s.clock.Millis()

	switch s.state {
	case Uninitialized:
		s.setShutdown(true)
		s.poweredAt = now
		s.enter(AwaitingReset, now)

	case AwaitingReset:
		if core.Elapsed(now, s.poweredAt) > s.cfg.ResetSettle {
			s.enter(Powered, now)
		}

	case Powered:
		if s.dev.FreshOutOfReset() {
			s.enter(FreshOutOfReset, now)
		}

	case FreshOutOfReset:
		s.absorb("private settings", s.dev.LoadPrivateSettings())
		s.enter(CalibrationProgrammed, now)

	case CalibrationProgrammed:
		ok, err := s.dev.ConfigureRange(s.cfg.Range)
		s.absorb("range config", err)
		if ok {
			s.enter(Configured, now)
		}

	case Configured:
		s.absorb("clear reset flag", s.dev.ClearFreshOutOfReset())
		s.enter(Initialized, now)

	case Initialized:
		s.absorb("start ranging", s.dev.StartContinuous())
		s.rangeCount = 0
		s.lastErr = vl6180x.RangeErrNone
		s.enter(Ranging, now)
		s.identify(now)

	case Ranging, Near:
		if s.resetDetected() {
			s.handleHotPlug(now)
			return
		}
		s.interpret(now)
	}
}

// ConfigureIndicator implements DimmerSwitch.
func (s *Switch) ConfigureIndicator(pin core.GPIOPin, activeHigh bool) {
	s.indicator = indicator{pin: pin, activeHigh: activeHigh, configured: true}
	if err := s.gpio.ConfigureOutput(pin); err != nil {
		core.DebugPrintln("dimmer: indicator pin " + core.Itoa(int(pin)) + ": " + err.Error())
	}
	s.setIndicator(false)
}

func (s *Switch) enter(st State, now uint32) {
	s.state = st
	core.RecordTrace(core.TraceState, now, uint32(st), 0)
	core.DebugPrintln("dimmer: " + st.String())
	s.emit(Event{Kind: EventState, At: now, State: st})
}

// resetDetected counts ranging polls and reports whether the sensor has
// rebooted behind our back. The flag is read on every poll except each
// HotPlugCheckEvery-th one, so a reboot is caught within two polls.
func (s *Switch) resetDetected() bool {
	s.rangeCount++
	if s.rangeCount%s.cfg.HotPlugCheckEvery == 0 {
		return false
	}
	return s.dev.FreshOutOfReset()
}

func (s *Switch) handleHotPlug(now uint32) {
	core.RecordTrace(core.TraceHotPlug, now, uint32(s.state), s.rangeCount)
	core.DebugPrintln("dimmer: sensor reset detected, restarting")
	s.setShutdown(false)
	s.setIndicator(false)
	s.emit(Event{Kind: EventHotPlug, At: now, State: s.state})
	s.enter(Uninitialized, now)
}

func (s *Switch) identify(now uint32) {
	id, err := s.dev.Identify()
	if err != nil {
		core.DebugPrintln("dimmer: identify: " + err.Error())
		return
	}
	if !id.Valid() {
		core.DebugPrintln("dimmer: unexpected model id " + core.Hex(uint32(id.ModelID), 2))
	}
	s.emit(Event{Kind: EventIdentity, At: now, State: s.state, Value: uint32(id.ModelID), Identity: id})
}

func (s *Switch) setShutdown(powered bool) {
	if err := s.gpio.SetPin(s.cfg.ShutdownPin, powered); err != nil {
		core.DebugPrintln("dimmer: shutdown pin: " + err.Error())
	}
}

func (s *Switch) setIndicator(active bool) {
	if !s.indicator.configured {
		return
	}
	if err := s.gpio.SetPin(s.indicator.pin, active == s.indicator.activeHigh); err != nil {
		core.DebugPrintln("dimmer: indicator pin: " + err.Error())
	}
}

// absorb logs a bring-up write failure. The state machine keys off status
// registers, so a lost write shows up as a retry or a hot-plug later.
func (s *Switch) absorb(step string, err error) {
	if err != nil {
		core.DebugPrintln("dimmer: " + step + ": " + err.Error())
	}
}

func (s *Switch) emit(ev Event) {
	if s.cfg.Observer != nil {
		s.cfg.Observer(ev)
	}
}
