//go:build !tinygo

package core

import "sync/atomic"

// Host tools run the poll loop and the frame reader on separate goroutines.
var systemTicks atomic.Uint32

// getSystemTicks returns the current system ticks (regular Go implementation)
func getSystemTicks() uint32 {
	return systemTicks.Load()
}

// setSystemTicks sets the system ticks (regular Go implementation)
func setSystemTicks(ticks uint32) {
	systemTicks.Store(ticks)
}
