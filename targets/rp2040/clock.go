//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"starlight/core"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// InitClock seeds the core millisecond clock from the hardware timer.
// The RP2 timer is a free-running 64-bit microsecond counter.
func InitClock() {
	UpdateSystemTime()
}

// GetHardwareUptime reads the full 64-bit microsecond timer
func GetHardwareUptime() uint64 {
	// Must read high first, then low, then high again to detect rollover
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()

		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime publishes the uptime in milliseconds to core.
// The 32-bit millisecond count wraps after ~49.7 days; core.Elapsed
// handles the wrap.
func UpdateSystemTime() {
	core.SetTime(uint32(GetHardwareUptime() / 1000))
}
