package core

import "tinygo.org/x/drivers"

// I2CBusID identifies a specific I2C bus (e.g., I2C0, I2C1).
type I2CBusID uint8

// I2CDriver hands out configured buses to device code.
// Buses are exposed as drivers.I2C so TinyGo's machine.I2C and the
// simulated sensor bus are interchangeable.
type I2CDriver interface {
	// ConfigureBus initializes a specific I2C bus with the given frequency.
	// Returns error if bus ID is invalid or configuration fails.
	ConfigureBus(bus I2CBusID, frequencyHz uint32) error

	// Bus returns a configured bus. Returns an error if the bus was never
	// configured.
	Bus(bus I2CBusID) (drivers.I2C, error)
}

var i2cDriver I2CDriver

// SetI2CDriver is called by target-specific code to register its driver.
func SetI2CDriver(d I2CDriver) {
	i2cDriver = d
}

// MustI2C returns the configured driver or panics if missing.
func MustI2C() I2CDriver {
	if i2cDriver == nil {
		panic("I2C driver not configured")
	}
	return i2cDriver
}
