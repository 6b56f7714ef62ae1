package vl6180x

// Address is the default 7-bit I2C address of the sensor.
const Address = 0x29

// ExpectedModelID is the value of IDENTIFICATION__MODEL_ID on a VL6180X.
const ExpectedModelID = 0xB4

// Registers. Addresses are 16 bits wide and sent big-endian.
const (
	IDENTIFICATION_MODEL_ID uint16 = 0x000

	SYSTEM_MODE_GPIO1             uint16 = 0x011
	SYSTEM_INTERRUPT_CONFIG_GPIO  uint16 = 0x014
	SYSTEM_INTERRUPT_CLEAR        uint16 = 0x015
	SYSTEM_FRESH_OUT_OF_RESET     uint16 = 0x016
	SYSTEM_GROUPED_PARAMETER_HOLD uint16 = 0x017

	SYSRANGE_START                      uint16 = 0x018
	SYSRANGE_THRESH_LOW                 uint16 = 0x01A
	SYSRANGE_INTERMEASUREMENT_PERIOD    uint16 = 0x01B
	SYSRANGE_MAX_CONVERGENCE_TIME       uint16 = 0x01C
	SYSRANGE_EARLY_CONVERGENCE_ESTIMATE uint16 = 0x022

	RESULT_RANGE_STATUS          uint16 = 0x04D
	RESULT_INTERRUPT_STATUS_GPIO uint16 = 0x04F
	RESULT_RANGE_VAL             uint16 = 0x062

	FIRMWARE_BOOTUP uint16 = 0x119
)

// Register values.
const (
	// SYSRANGE_START: continuous ranging, start bit set.
	RangeStartContinuous = 0x03

	// SYSTEM_MODE_GPIO1: GPIO1 is the interrupt output, active low.
	GPIO1InterruptOutput = 0x10

	// SYSTEM_INTERRUPT_CONFIG_GPIO: range interrupt on level low
	// (distance below SYSRANGE_THRESH_LOW).
	InterruptLevelLow = 0x01

	// SYSTEM_INTERRUPT_CLEAR: acknowledge the range interrupt.
	InterruptClearRange = 0x01

	// RESULT_INTERRUPT_STATUS_GPIO bit 0: range interrupt pending.
	InterruptRangePending = 0x01

	// RESULT_RANGE_STATUS bit 0: device ready for a new command.
	RangeStatusDeviceReady = 0x01
)

// IdentificationLength is the number of bytes read from
// IDENTIFICATION_MODEL_ID to decode an Identification.
const IdentificationLength = 10
