//go:build tinygo

package core

import "runtime/interrupt"

// DisableInterrupts disables interrupts and returns the previous state
func DisableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// RestoreInterrupts restores the interrupt state
func RestoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
