// Command starlight-sim replays a gesture scenario against the dimmer core
// and a simulated sensor.
package main

import (
	"flag"
	"fmt"
	"os"

	"starlight/core"
	"starlight/dimmer"
	"starlight/sim/scenario"
	"starlight/telemetry"
)

var (
	scenarioPath = flag.String("scenario", "", "Scenario YAML file")
	trace        = flag.Bool("trace", false, "Print debug output and dump the trace ring at exit")
)

func main() {
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scenario is required")
		flag.Usage()
		os.Exit(2)
	}

	s, err := scenario.Load(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *trace {
		core.SetDebugWriter(func(msg string) { fmt.Println("  # " + msg) })
		core.SetDebugEnabled(true)
	}

	fmt.Printf("Running %s (%d ms, poll every %d ms)\n", s.Name, s.DurationMs, s.PollIntervalMs)
	res, err := scenario.Run(s, func(ev dimmer.Event) {
		fmt.Println(telemetry.Describe(ev))
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("polls %d, state %s, on %v, brightness %d, colour #%02x%02x%02x\n",
		res.Polls, res.State, res.IsOn, res.Brightness, res.Color.R, res.Color.G, res.Color.B)

	if *trace {
		core.DumpTraceRing()
	}
}
