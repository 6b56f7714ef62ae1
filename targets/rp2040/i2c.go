//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"
	"sync"

	"starlight/core"

	"tinygo.org/x/drivers"
)

var (
	errI2CUnsupportedBus = errors.New("unsupported I2C bus ID")
	errI2CNotConfigured  = errors.New("I2C bus not configured")
)

// RPI2CDriver implements core.I2CDriver using TinyGo's machine.I2C for RP2040/RP2350.
type RPI2CDriver struct {
	mu sync.Mutex

	// RP2040/RP2350 have I2C0 and I2C1
	buses map[core.I2CBusID]*machine.I2C
}

// NewRPI2CDriver constructs the driver
func NewRPI2CDriver() *RPI2CDriver {
	return &RPI2CDriver{
		buses: make(map[core.I2CBusID]*machine.I2C),
	}
}

// ConfigureBus initializes a specific I2C bus with the given frequency.
// Reconfiguring a bus only updates its baud rate.
func (d *RPI2CDriver) ConfigureBus(bus core.I2CBusID, frequencyHz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i2c, ok := d.buses[bus]; ok {
		return i2c.SetBaudRate(frequencyHz)
	}

	var (
		i2c      *machine.I2C
		sda, scl machine.Pin
	)
	switch bus {
	case 0:
		i2c, sda, scl = machine.I2C0, machine.GPIO4, machine.GPIO5
	case 1:
		i2c, sda, scl = machine.I2C1, machine.GPIO6, machine.GPIO7
	default:
		return errI2CUnsupportedBus
	}

	err := i2c.Configure(machine.I2CConfig{
		Frequency: frequencyHz,
		SDA:       sda,
		SCL:       scl,
	})
	if err != nil {
		return err
	}

	d.buses[bus] = i2c
	return nil
}

// Bus returns a configured bus. *machine.I2C satisfies drivers.I2C
// directly, so the sensor driver talks to the peripheral without a shim.
func (d *RPI2CDriver) Bus(bus core.I2CBusID) (drivers.I2C, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i2c, ok := d.buses[bus]
	if !ok {
		return nil, errI2CNotConfigured
	}
	return i2c, nil
}
