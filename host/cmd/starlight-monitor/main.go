// Command starlight-monitor prints the telemetry stream of a dimmer
// connected over USB.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"starlight/dimmer"
	"starlight/host/monitor"
	"starlight/host/serial"
	"starlight/protocol"
	"starlight/telemetry"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", serial.DefaultBaud, "Baud rate (ignored for USB CDC)")
	raw    = flag.Bool("raw", false, "Also print each frame as hex")
)

func main() {
	flag.Parse()

	fmt.Printf("Connecting to dimmer on %s...\n", *device)
	mon, err := monitor.Connect(*device, *baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer mon.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = mon.Run(ctx, func(ev dimmer.Event, msg *protocol.Message) {
		fmt.Println(telemetry.Describe(ev))
		if *raw {
			fmt.Printf("          seq %02x  %s\n", msg.Sequence, hex.EncodeToString(msg.Payload))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	s := mon.Stats()
	fmt.Println()
	fmt.Printf("frames %d (undecodable %d, lost %d, resyncs %d)\n", s.Frames, s.Undecodable, s.Lost, s.Resyncs)
	fmt.Printf("state %s, on %v, brightness %d, hot-plugs %d\n", s.State, s.IsOn, s.Brightness, s.HotPlugs)
}
