// Package vl6180x drives the ST VL6180X time-of-flight proximity sensor over
// a 16-bit register addressed I2C interface.
//
// Every register access is a bus round trip; nothing is cached locally.
package vl6180x

import (
	"errors"

	"starlight/core"

	"tinygo.org/x/drivers"
)

// DefaultReadAttempts bounds ReadRegisterRange.
const DefaultReadAttempts = 3

// ErrBusTimeout is returned when a multi-byte read does not complete within
// the configured number of attempts.
var ErrBusTimeout = errors.New("vl6180x: bus timeout")

// HoldingBus is implemented by buses that can finish a write without a stop
// condition, keeping the bus claimed for a chained transaction.
type HoldingBus interface {
	WriteHold(addr uint16, w []byte) error
}

// Device is a VL6180X on an I2C bus.
type Device struct {
	bus     drivers.I2C
	Address uint16

	// ReadAttempts is the number of bus transactions ReadRegisterRange
	// tries before giving up with ErrBusTimeout.
	ReadAttempts int

	buf [4]byte
}

// New creates a device handle at the default address. The bus must already
// be configured.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:          bus,
		Address:      Address,
		ReadAttempts: DefaultReadAttempts,
	}
}

// ReadRegister8 reads one byte. A failed transaction reads as 0; callers
// must gate on status bits rather than trust a zero.
func (d *Device) ReadRegister8(reg uint16) uint8 {
	d.buf[0] = byte(reg >> 8)
	d.buf[1] = byte(reg)
	if err := d.bus.Tx(d.Address, d.buf[:2], d.buf[2:3]); err != nil {
		busError(reg, err)
		return 0
	}
	return d.buf[2]
}

// ReadRegisterRange reads len(buf) consecutive registers starting at reg.
func (d *Device) ReadRegisterRange(reg uint16, buf []byte) error {
	addr := [2]byte{byte(reg >> 8), byte(reg)}
	attempts := d.ReadAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		err := d.bus.Tx(d.Address, addr[:], buf)
		if err == nil {
			return nil
		}
		busError(reg, err)
	}
	return ErrBusTimeout
}

// WriteRegister8 writes one byte. With release false the bus is held for a
// following transaction when the bus supports it.
func (d *Device) WriteRegister8(reg uint16, value uint8, release bool) error {
	w := [3]byte{byte(reg >> 8), byte(reg), value}
	return d.write(reg, w[:], release)
}

// WriteRegister16 writes a big-endian 16-bit value.
func (d *Device) WriteRegister16(reg uint16, value uint16, release bool) error {
	w := [4]byte{byte(reg >> 8), byte(reg), byte(value >> 8), byte(value)}
	return d.write(reg, w[:], release)
}

func (d *Device) write(reg uint16, w []byte, release bool) error {
	var err error
	if hb, ok := d.bus.(HoldingBus); ok && !release {
		err = hb.WriteHold(d.Address, w)
	} else {
		err = d.bus.Tx(d.Address, w, nil)
	}
	if err != nil {
		busError(reg, err)
	}
	return err
}

func busError(reg uint16, err error) {
	core.RecordTrace(core.TraceBusError, core.GetTime(), uint32(reg), 0)
	core.DebugPrintln("vl6180x: bus error at " + core.Hex(uint32(reg), 3) + ": " + err.Error())
}
