//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// Host builds have real goroutines instead of interrupt handlers, so the
// critical section is a process-wide mutex. It is not reentrant.
var criticalMu sync.Mutex

// DisableInterrupts enters the critical section
func DisableInterrupts() State {
	criticalMu.Lock()
	return 0
}

// RestoreInterrupts leaves the critical section
func RestoreInterrupts(state State) {
	criticalMu.Unlock()
}
