package core

// TimerFreq is the rate of the system clock: one tick per millisecond.
const TimerFreq = 1000

// Clock is a monotonic millisecond clock. Values wrap at 2^32 ms and must
// only be compared by subtraction.
type Clock interface {
	Millis() uint32
}

// SystemClock reads the global tick counter maintained by the target.
type SystemClock struct{}

// Millis returns the current system time in milliseconds
func (SystemClock) Millis() uint32 {
	return GetTime()
}

// GetTime returns the current system time in milliseconds
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// Elapsed returns the milliseconds from since to now, correct across one
// counter wrap.
func Elapsed(now, since uint32) uint32 {
	return now - since
}
