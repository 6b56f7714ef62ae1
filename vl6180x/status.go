package vl6180x

// RangeStatus is the raw RESULT_RANGE_STATUS register.
// Bit 0 is device-ready, bits 7:4 carry a RangeError.
type RangeStatus uint8

// Ready reports whether the device accepts a new command.
func (s RangeStatus) Ready() bool {
	return s&RangeStatusDeviceReady != 0
}

// ErrorCode returns the error code of the last measurement.
func (s RangeStatus) ErrorCode() RangeError {
	return RangeError(s >> 4)
}

// RangeError is the 4-bit reason a range sample is not trustworthy.
type RangeError uint8

const (
	RangeErrNone RangeError = iota
	RangeErrVCSELContinuity
	RangeErrVCSELWatchdogTest
	RangeErrVCSELWatchdog
	RangeErrPLL1Lock
	RangeErrPLL2Lock
	RangeErrEarlyConvergence
	RangeErrMaxConvergence
	RangeErrNoTargetIgnore
	rangeErrReserved9
	rangeErrReserved10
	RangeErrMaxSignalToNoise
	RangeErrRawUnderflow
	RangeErrRawOverflow
	RangeErrUnderflow
	RangeErrOverflow
)

var rangeErrorLabels = [...]string{
	RangeErrNone:              "No error",
	RangeErrVCSELContinuity:   "VCSEL Continuity Test",
	RangeErrVCSELWatchdogTest: "VCSEL Watchdog Test",
	RangeErrVCSELWatchdog:     "VCSEL Watchdog",
	RangeErrPLL1Lock:          "PLL1 Lock",
	RangeErrPLL2Lock:          "PLL2 Lock",
	RangeErrEarlyConvergence:  "Early Convergence Estimate",
	RangeErrMaxConvergence:    "Max Convergence",
	RangeErrNoTargetIgnore:    "No Target Ignore",
	rangeErrReserved9:         "Not used",
	rangeErrReserved10:        "Not used",
	RangeErrMaxSignalToNoise:  "Max Signal To Noise Ratio",
	RangeErrRawUnderflow:      "Raw Ranging Algo Underflow",
	RangeErrRawOverflow:       "Raw Ranging Algo Overflow",
	RangeErrUnderflow:         "Ranging Algo Underflow",
	RangeErrOverflow:          "Ranging Algo Overflow",
}

// String returns the datasheet label of the error.
func (e RangeError) String() string {
	if int(e) < len(rangeErrorLabels) {
		return rangeErrorLabels[e]
	}
	return "(unknown)"
}
