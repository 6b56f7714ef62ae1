package dimmer

import (
	"errors"

	"starlight/core"
	"starlight/vl6180x"
)

// Config holds the wiring and timing of a Switch.
type Config struct {
	Bus          core.I2CBusID
	Address      uint16
	ShutdownPin  core.GPIOPin // sensor GPIO0/CE, high powers the sensor
	InterruptPin core.GPIOPin // sensor GPIO1, open drain

	// NearThresholdMM is the range above which a sample counts as gone.
	NearThresholdMM uint8
	// MinDistanceMM is the closest distance distinguished by Brightness.
	MinDistanceMM uint8

	HoldTimeout       uint32 // ms of hover before a pass becomes a hold
	ResetSettle       uint32 // ms between power-on and the first register access
	HotPlugCheckEvery uint32 // every Nth ranging poll skips the reset check
	ReadAttempts      int

	Range vl6180x.RangeConfig

	// Observer, when non-nil, receives diagnostic events.
	Observer Observer
}

// DefaultConfig returns the settings for a sensor on bus 0 with its shutdown
// line on GPIO6 and its interrupt on GPIO7.
func DefaultConfig() Config {
	return Config{
		Bus:               0,
		Address:           vl6180x.Address,
		ShutdownPin:       6,
		InterruptPin:      7,
		NearThresholdMM:   255,
		MinDistanceMM:     10,
		HoldTimeout:       500,
		ResetSettle:       1200,
		HotPlugCheckEvery: 1000,
		ReadAttempts:      vl6180x.DefaultReadAttempts,
		Range:             vl6180x.DefaultRangeConfig(),
	}
}

var (
	ErrDistanceRange   = errors.New("dimmer: min distance must be below near threshold")
	ErrHoldTimeout     = errors.New("dimmer: hold timeout must be positive")
	ErrHotPlugInterval = errors.New("dimmer: hot-plug check interval must be at least 2")
	ErrReadAttempts    = errors.New("dimmer: read attempts must be positive")
	ErrAddress         = errors.New("dimmer: address must be a 7-bit I2C address")
)

// Validate checks the configuration for values the switch cannot run with.
func (c Config) Validate() error {
	if c.MinDistanceMM >= c.NearThresholdMM {
		return ErrDistanceRange
	}
	if c.HoldTimeout == 0 {
		return ErrHoldTimeout
	}
	if c.HotPlugCheckEvery < 2 {
		return ErrHotPlugInterval
	}
	if c.ReadAttempts <= 0 {
		return ErrReadAttempts
	}
	if c.Address == 0 || c.Address > 0x7F {
		return ErrAddress
	}
	return nil
}
