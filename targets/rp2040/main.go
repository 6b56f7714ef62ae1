//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"starlight/core"
	"starlight/dimmer"
	"starlight/light"
	"starlight/protocol"
	"starlight/targets/pio"
	"starlight/telemetry"
)

const (
	sensorBus    core.I2CBusID = 0
	i2cFrequency               = 400000

	stripPin    = machine.GPIO11
	stripLength = 5

	pollInterval = 10 * time.Millisecond
)

var (
	// Telemetry frames waiting for the USB port
	outputBuffer *protocol.FifoBuffer
	encoder      *telemetry.Encoder

	// Debug counters
	msgerrors                uint32
	consecutiveWriteFailures uint32
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitClock()
	InitDebugUART()

	i2cDriver := NewRPI2CDriver()
	if err := i2cDriver.ConfigureBus(sensorBus, i2cFrequency); err != nil {
		halt("i2c: " + err.Error())
	}
	core.SetI2CDriver(i2cDriver)
	core.SetGPIODriver(NewRPGPIODriver())

	outputBuffer = protocol.NewFifoBuffer(512)
	encoder = telemetry.NewEncoder(outputBuffer)

	cfg := dimmer.DefaultConfig()
	cfg.Bus = sensorBus
	cfg.Observer = encoder.Observe
	if err := dimmer.Setup(cfg); err != nil {
		halt("dimmer: " + err.Error())
	}

	sw := dimmer.Instance()
	sw.ConfigureIndicator(core.GPIOPin(machine.LED), true)

	out := light.NewOutput()
	out.Attach(sw)

	strip, err := pio.NewStrip(0, stripPin, stripLength)
	if err != nil {
		// The switch and telemetry keep working without LEDs
		core.DebugPrintln("strip: " + err.Error())
	} else {
		strip.Clear()
	}

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					outputBuffer.Reset()
				}
			}()

			UpdateSystemTime()
			sw.Poll()

			if strip != nil {
				if err := strip.Show(out); err != nil {
					msgerrors++
				}
			}

			writeUSB()
		}()

		time.Sleep(pollInterval)
	}
}

// halt parks the firmware after a fatal setup error, leaving the message
// on the debug UART and blinking the LED.
func halt(msg string) {
	core.DebugPrintln(msg)
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(150 * time.Millisecond)
		led.Low()
		time.Sleep(850 * time.Millisecond)
	}
}

// writeUSB drains queued telemetry frames to USB
func writeUSB() {
	data := outputBuffer.Data()
	if len(data) == 0 {
		return
	}

	n, err := USBWriteBytes(data)
	if n > 0 {
		outputBuffer.Pop(n)
	}
	if err != nil || n == 0 {
		// No host reading; drop stale frames after repeated failures
		consecutiveWriteFailures++
		if consecutiveWriteFailures > 10 {
			consecutiveWriteFailures = 0
			outputBuffer.Reset()
		}
		return
	}
	consecutiveWriteFailures = 0
}
