// Package scenario replays scripted hand movements against a simulated
// sensor and a real dimmer.Switch.
//
// A scenario file looks like:
//
//	name: quick pass then hold
//	poll_interval_ms: 10
//	duration_ms: 5000
//	steps:
//	  - at_ms: 2000
//	    near: 120
//	  - at_ms: 2100
//	    leave: {}
//	  - at_ms: 3000
//	    near: 80
//	  - at_ms: 3010
//	    distance_mm: 80
//	  - at_ms: 4000
//	    leave: {error: 6}
package scenario

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"starlight/dimmer"
	"starlight/vl6180x"
)

// DefaultLeaveError is the range error reported by a leave step without an
// explicit code. It is what the sensor reports with nothing in view.
const DefaultLeaveError = vl6180x.RangeErrMaxSignalToNoise

// MaxDurationMs bounds a run to one simulated day.
const MaxDurationMs = 24 * 60 * 60 * 1000

// Scenario is a scripted run.
type Scenario struct {
	Name           string         `yaml:"name"`
	PollIntervalMs uint32         `yaml:"poll_interval_ms"`
	DurationMs     uint32         `yaml:"duration_ms"`
	Switch         SwitchSettings `yaml:"switch"`
	Steps          []Step         `yaml:"steps"`
}

// SwitchSettings overrides dimmer.DefaultConfig. Zero values keep the
// default.
type SwitchSettings struct {
	HoldTimeoutMs     uint32 `yaml:"hold_timeout_ms"`
	ResetSettleMs     uint32 `yaml:"reset_settle_ms"`
	HotPlugCheckEvery uint32 `yaml:"hot_plug_check_every"`
	NearThresholdMM   uint8  `yaml:"near_threshold_mm"`
	MinDistanceMM     uint8  `yaml:"min_distance_mm"`
}

// Step is one sensor-side event. Exactly one action must be set.
type Step struct {
	AtMs uint32 `yaml:"at_ms"`

	// Near raises the threshold interrupt with a sample at this distance.
	Near *uint8 `yaml:"near"`
	// DistanceMM updates the sample without an interrupt.
	DistanceMM *uint8 `yaml:"distance_mm"`
	// Leave makes every following sample fail.
	Leave *Leave `yaml:"leave"`
	// Reboot resets the sensor without touching its shutdown line.
	Reboot bool `yaml:"reboot"`
	// Unplug disconnects the sensor; Replug reconnects it.
	Unplug bool `yaml:"unplug"`
	Replug bool `yaml:"replug"`
}

// Leave carries the range error reported once the hand is gone.
type Leave struct {
	Error uint8 `yaml:"error"`
}

// Code returns the error code, applying DefaultLeaveError.
func (l Leave) Code() vl6180x.RangeError {
	if l.Error == 0 {
		return DefaultLeaveError
	}
	return vl6180x.RangeError(l.Error)
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Near != nil, s.DistanceMM != nil, s.Leave != nil, s.Reboot, s.Unplug, s.Replug} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{PollIntervalMs: 10}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.DurationMs == 0 && len(s.Steps) > 0 {
		s.DurationMs = s.Steps[len(s.Steps)-1].AtMs + 1000
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return s, nil
}

// Validate checks the scenario for errors.
func (s *Scenario) Validate() error {
	var errs []string

	if s.PollIntervalMs == 0 {
		errs = append(errs, "poll_interval_ms must be positive")
	}
	if s.DurationMs == 0 {
		errs = append(errs, "duration_ms must be positive")
	}
	if s.DurationMs > MaxDurationMs {
		errs = append(errs, fmt.Sprintf("duration_ms %d exceeds %d", s.DurationMs, MaxDurationMs))
	}
	if !sort.SliceIsSorted(s.Steps, func(i, j int) bool { return s.Steps[i].AtMs < s.Steps[j].AtMs }) {
		errs = append(errs, "steps must be ordered by at_ms")
	}
	for i, st := range s.Steps {
		switch n := st.actions(); {
		case n == 0:
			errs = append(errs, fmt.Sprintf("steps[%d]: no action", i))
		case n > 1:
			errs = append(errs, fmt.Sprintf("steps[%d]: %d actions, want one", i, n))
		}
		if st.Leave != nil && st.Leave.Error > 15 {
			errs = append(errs, fmt.Sprintf("steps[%d]: leave.error %d is not a range error code", i, st.Leave.Error))
		}
		if st.AtMs > s.DurationMs {
			errs = append(errs, fmt.Sprintf("steps[%d]: at_ms %d is after duration_ms", i, st.AtMs))
		}
	}
	if _, err := s.Config(); err != nil {
		errs = append(errs, "switch: "+err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("scenario errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Config returns the switch configuration for the scenario.
func (s *Scenario) Config() (dimmer.Config, error) {
	cfg := dimmer.DefaultConfig()
	o := s.Switch
	if o.HoldTimeoutMs != 0 {
		cfg.HoldTimeout = o.HoldTimeoutMs
	}
	if o.ResetSettleMs != 0 {
		cfg.ResetSettle = o.ResetSettleMs
	}
	if o.HotPlugCheckEvery != 0 {
		cfg.HotPlugCheckEvery = o.HotPlugCheckEvery
	}
	if o.NearThresholdMM != 0 {
		cfg.NearThresholdMM = o.NearThresholdMM
	}
	if o.MinDistanceMM != 0 {
		cfg.MinDistanceMM = o.MinDistanceMM
	}
	return cfg, cfg.Validate()
}
