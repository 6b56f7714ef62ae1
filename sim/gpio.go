package sim

import (
	"sync"

	"starlight/core"

	"tinygo.org/x/drivers"
)

// PinMode records how a pin was configured.
type PinMode uint8

const (
	PinUnconfigured PinMode = iota
	PinOutput
	PinInputPullUp
)

// PinChange is one recorded SetPin call.
type PinChange struct {
	Pin   core.GPIOPin
	Value bool
}

// GPIO is a recording core.GPIODriver.
type GPIO struct {
	mu      sync.Mutex
	modes   map[core.GPIOPin]PinMode
	levels  map[core.GPIOPin]bool
	history []PinChange

	// OnSet, when non-nil, is called after every SetPin.
	OnSet func(pin core.GPIOPin, value bool)
}

// NewGPIO creates a GPIO driver with every pin unconfigured and low.
func NewGPIO() *GPIO {
	return &GPIO{
		modes:  make(map[core.GPIOPin]PinMode),
		levels: make(map[core.GPIOPin]bool),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes[pin] = PinOutput
	return nil
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes[pin] = PinInputPullUp
	g.levels[pin] = true
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	g.levels[pin] = value
	g.history = append(g.history, PinChange{Pin: pin, Value: value})
	hook := g.OnSet
	g.mu.Unlock()

	if hook != nil {
		hook(pin, value)
	}
	return nil
}

func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin], nil
}

// Level returns the current level of pin.
func (g *GPIO) Level(pin core.GPIOPin) bool {
	v, _ := g.GetPin(pin)
	return v
}

// Mode returns how pin was configured.
func (g *GPIO) Mode(pin core.GPIOPin) PinMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modes[pin]
}

// History returns the SetPin calls for pin, oldest first.
func (g *GPIO) History(pin core.GPIOPin) []bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []bool
	for _, c := range g.history {
		if c.Pin == pin {
			out = append(out, c.Value)
		}
	}
	return out
}

// Bus is a core.I2CDriver serving one simulated sensor on every bus id.
type Bus struct {
	Sensor *Sensor
}

func (b Bus) ConfigureBus(bus core.I2CBusID, frequencyHz uint32) error {
	return nil
}

func (b Bus) Bus(bus core.I2CBusID) (drivers.I2C, error) {
	return b.Sensor, nil
}
