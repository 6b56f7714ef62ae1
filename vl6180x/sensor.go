package vl6180x

// RangeConfig holds the range-mode parameters written by ConfigureRange.
type RangeConfig struct {
	ThresholdLowMM           uint8  // SYSRANGE_THRESH_LOW, near threshold
	MaxConvergenceMs         uint8  // SYSRANGE_MAX_CONVERGENCE_TIME
	InterMeasurementPeriod   uint8  // SYSRANGE_INTERMEASUREMENT_PERIOD, 10 ms units
	EarlyConvergenceEstimate uint16 // SYSRANGE_EARLY_CONVERGENCE_ESTIMATE
}

// DefaultRangeConfig returns the settings used by the dimmer.
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		ThresholdLowMM:           255,
		MaxConvergenceMs:         30,
		InterMeasurementPeriod:   10,
		EarlyConvergenceEstimate: 204,
	}
}

// RegisterWrite is one entry of a fixed register recipe.
type RegisterWrite struct {
	Reg   uint16
	Value uint8
}

// PrivateSettings is the mandatory private register recipe from ST
// application note AN4545 (SR03). It must be loaded once per power cycle.
var PrivateSettings = [...]RegisterWrite{
	{0x0207, 0x01},
	{0x0208, 0x01},
	{0x0096, 0x00},
	{0x0097, 0xfd},
	{0x00e3, 0x00},
	{0x00e4, 0x04},
	{0x00e5, 0x02},
	{0x00e6, 0x01},
	{0x00e7, 0x03},
	{0x00f5, 0x02},
	{0x00d9, 0x05},
	{0x00db, 0xce},
	{0x00dc, 0x03},
	{0x00dd, 0xf8},
	{0x009f, 0x00},
	{0x00a3, 0x3c},
	{0x00b7, 0x00},
	{0x00bb, 0x3c},
	{0x00b2, 0x09},
	{0x00ca, 0x09},
	{0x0198, 0x01},
	{0x01b0, 0x17},
	{0x01ad, 0x00},
	{0x00ff, 0x05},
	{0x0100, 0x05},
	{0x0199, 0x05},
	{0x01a6, 0x1b},
	{0x01ac, 0x3e},
	{0x01a7, 0x1f},
	{0x0030, 0x00},
}

// FreshOutOfReset reports whether the sensor has booted since the flag was
// last cleared.
func (d *Device) FreshOutOfReset() bool {
	return d.ReadRegister8(SYSTEM_FRESH_OUT_OF_RESET) != 0
}

// ClearFreshOutOfReset acknowledges the boot.
func (d *Device) ClearFreshOutOfReset() error {
	return d.WriteRegister8(SYSTEM_FRESH_OUT_OF_RESET, 0x00, true)
}

// LoadPrivateSettings writes the private register recipe, holding the bus
// between writes and releasing it after the last one. All writes are
// attempted; the first error is returned.
func (d *Device) LoadPrivateSettings() error {
	var first error
	last := len(PrivateSettings) - 1
	for i, w := range PrivateSettings {
		if err := d.WriteRegister8(w.Reg, w.Value, i == last); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ConfigureRange stages the range-mode registers under a grouped parameter
// hold and frees the bus with the closing write. It reports false without writing anything when the device is not
// ready for a new command; the caller retries later.
func (d *Device) ConfigureRange(cfg RangeConfig) (bool, error) {
	if !d.RangeStatus().Ready() {
		return false, nil
	}

	writes := []struct {
		reg   uint16
		value uint8
	}{
		{SYSTEM_GROUPED_PARAMETER_HOLD, 0x01},
		{SYSTEM_MODE_GPIO1, GPIO1InterruptOutput},
		{SYSTEM_INTERRUPT_CONFIG_GPIO, InterruptLevelLow},
		{SYSRANGE_THRESH_LOW, cfg.ThresholdLowMM},
		{SYSRANGE_MAX_CONVERGENCE_TIME, cfg.MaxConvergenceMs},
		{SYSRANGE_INTERMEASUREMENT_PERIOD, cfg.InterMeasurementPeriod},
	}

	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for _, w := range writes {
		keep(d.WriteRegister8(w.reg, w.value, false))
	}
	keep(d.WriteRegister16(SYSRANGE_EARLY_CONVERGENCE_ESTIMATE, cfg.EarlyConvergenceEstimate, false))
	keep(d.WriteRegister8(SYSTEM_GROUPED_PARAMETER_HOLD, 0x00, true))
	return true, first
}

// StartContinuous starts continuous ranging.
func (d *Device) StartContinuous() error {
	return d.WriteRegister8(SYSRANGE_START, RangeStartContinuous, true)
}

// RangeInterruptPending reports whether a new sample crossed the near
// threshold.
func (d *Device) RangeInterruptPending() bool {
	return d.ReadRegister8(RESULT_INTERRUPT_STATUS_GPIO)&InterruptRangePending != 0
}

// ClearInterrupt acknowledges the range interrupt.
func (d *Device) ClearInterrupt() error {
	return d.WriteRegister8(SYSTEM_INTERRUPT_CLEAR, InterruptClearRange, true)
}

// RangeStatus reads RESULT_RANGE_STATUS.
func (d *Device) RangeStatus() RangeStatus {
	return RangeStatus(d.ReadRegister8(RESULT_RANGE_STATUS))
}

// RangeMM reads the last range result in millimetres.
func (d *Device) RangeMM() uint8 {
	return d.ReadRegister8(RESULT_RANGE_VAL)
}
