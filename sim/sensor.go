// Package sim provides host-side stand-ins for the dimmer hardware: a
// VL6180X register file on a drivers.I2C bus, a manual millisecond clock and
// a recording GPIO driver.
package sim

import (
	"errors"
	"sync"

	"starlight/vl6180x"
)

var (
	// ErrNoDevice is returned for transactions while the sensor is unpowered
	// or addressed at the wrong address.
	ErrNoDevice = errors.New("sim: no device acknowledged")

	// ErrInjected is returned by transactions failed through FailNext.
	ErrInjected = errors.New("sim: injected bus failure")
)

// Write is one recorded register write.
type Write struct {
	Reg  uint16
	Data []byte
	Hold bool // bus kept claimed after the write
}

// Sensor emulates the parts of the VL6180X register file the dimmer uses.
// It is safe for concurrent use.
type Sensor struct {
	mu       sync.Mutex
	address  uint16
	regs     map[uint16]byte
	writes   []Write
	powered  bool
	detached bool
	ranging  bool
	failNext int
	txCount  int
}

// NewSensor returns a powered sensor that has just finished booting.
func NewSensor() *Sensor {
	s := &Sensor{address: vl6180x.Address}
	s.boot()
	return s
}

// Identity is the identification block a simulated sensor reports.
var Identity = [vl6180x.IdentificationLength]byte{
	vl6180x.ExpectedModelID, 0x01, 0x03, 0x01, 0x02, 0x00, 0x59, 0x69, 0x1C, 0x20,
}

func (s *Sensor) boot() {
	s.regs = make(map[uint16]byte)
	for i, b := range Identity {
		s.regs[vl6180x.IDENTIFICATION_MODEL_ID+uint16(i)] = b
	}
	s.regs[vl6180x.SYSTEM_FRESH_OUT_OF_RESET] = 0x01
	s.regs[vl6180x.RESULT_RANGE_STATUS] = vl6180x.RangeStatusDeviceReady
	s.regs[vl6180x.FIRMWARE_BOOTUP] = 0x01
	s.powered = true
	s.ranging = false
}

// Tx implements drivers.I2C.
func (s *Sensor) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx(addr, w, r, false)
}

// WriteHold implements vl6180x.HoldingBus.
func (s *Sensor) WriteHold(addr uint16, w []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx(addr, w, nil, true)
}

// ReadRegister implements the 8-bit register helper some drivers.I2C
// revisions carry. The VL6180X itself only uses 16-bit addressing.
func (s *Sensor) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return s.Tx(uint16(addr), []byte{0, r}, buf)
}

// WriteRegister is the write counterpart of ReadRegister.
func (s *Sensor) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return s.Tx(uint16(addr), append([]byte{0, r}, buf...), nil)
}

func (s *Sensor) tx(addr uint16, w, r []byte, hold bool) error {
	s.txCount++
	if s.failNext > 0 {
		s.failNext--
		return ErrInjected
	}
	if !s.powered || s.detached || addr != s.address {
		return ErrNoDevice
	}
	if len(w) < 2 {
		return errors.New("sim: missing register address")
	}
	reg := uint16(w[0])<<8 | uint16(w[1])

	if len(w) > 2 {
		data := append([]byte(nil), w[2:]...)
		s.writes = append(s.writes, Write{Reg: reg, Data: data, Hold: hold})
		for i, b := range data {
			s.store(reg+uint16(i), b)
		}
	}
	for i := range r {
		r[i] = s.regs[reg+uint16(i)]
	}
	return nil
}

func (s *Sensor) store(reg uint16, b byte) {
	switch reg {
	case vl6180x.SYSTEM_INTERRUPT_CLEAR:
		if b&vl6180x.InterruptClearRange != 0 {
			s.regs[vl6180x.RESULT_INTERRUPT_STATUS_GPIO] &^= 0x07
		}
	case vl6180x.SYSRANGE_START:
		s.ranging = b&0x01 != 0
	}
	s.regs[reg] = b
}

// SetPower models the shutdown line. Raising it boots the sensor with a
// fresh register file.
func (s *Sensor) SetPower(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on && !s.powered {
		s.boot()
	}
	if !on {
		s.powered = false
		s.ranging = false
	}
}

// Powered reports the state of the shutdown line as seen by the sensor.
func (s *Sensor) Powered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powered
}

// Ranging reports whether continuous ranging was started.
func (s *Sensor) Ranging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranging
}

// Detach unplugs the sensor. Transactions fail until Attach.
func (s *Sensor) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detached = true
	s.ranging = false
}

// Attach plugs the sensor back in. It boots as if freshly powered.
func (s *Sensor) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		s.detached = false
		powered := s.powered
		s.boot()
		s.powered = powered
	}
}

// Reboot models a silent reset (brown-out, replug) without the host
// touching the shutdown line.
func (s *Sensor) Reboot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boot()
}

// Near raises the near-threshold interrupt with a valid sample.
func (s *Sensor) Near(mm uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[vl6180x.RESULT_INTERRUPT_STATUS_GPIO] |= vl6180x.InterruptRangePending
	s.regs[vl6180x.RESULT_RANGE_STATUS] = vl6180x.RangeStatusDeviceReady
	s.regs[vl6180x.RESULT_RANGE_VAL] = mm
}

// Hover updates the sample without raising the interrupt.
func (s *Sensor) Hover(mm uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[vl6180x.RESULT_RANGE_STATUS] = vl6180x.RangeStatusDeviceReady
	s.regs[vl6180x.RESULT_RANGE_VAL] = mm
}

// Leave reports a failed sample, which is what the sensor produces once the
// target is gone.
func (s *Sensor) Leave(code vl6180x.RangeError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[vl6180x.RESULT_RANGE_STATUS] = byte(code)<<4 | vl6180x.RangeStatusDeviceReady
}

// SetRegister overrides a register value.
func (s *Sensor) SetRegister(reg uint16, v byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg] = v
}

// Register returns a register value.
func (s *Sensor) Register(reg uint16) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

// FailNext makes the next n transactions fail with ErrInjected.
func (s *Sensor) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

// Writes returns the recorded writes.
func (s *Sensor) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// ResetWrites clears the write log.
func (s *Sensor) ResetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
}

// Transactions returns the number of bus transactions issued so far.
func (s *Sensor) Transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}
