package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starlight/dimmer"
	"starlight/vl6180x"
)

func count(events []dimmer.Event, kind dimmer.EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - at_ms: 2000
    near: 50
  - at_ms: 2500
    leave: {}
`))
	require.NoError(t, err)
	assert.Equal(t, uint32(10), s.PollIntervalMs)
	assert.Equal(t, uint32(3500), s.DurationMs)
	require.NotNil(t, s.Steps[0].Near)
	assert.Equal(t, uint8(50), *s.Steps[0].Near)
	assert.Equal(t, DefaultLeaveError, s.Steps[1].Leave.Code())
}

func TestParseSwitchOverrides(t *testing.T) {
	s, err := Parse([]byte(`
duration_ms: 100
switch:
  hold_timeout_ms: 800
  near_threshold_mm: 200
`))
	require.NoError(t, err)
	cfg, err := s.Config()
	require.NoError(t, err)
	assert.Equal(t, uint32(800), cfg.HoldTimeout)
	assert.Equal(t, uint8(200), cfg.NearThresholdMM)
	assert.Equal(t, uint32(1200), cfg.ResetSettle)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no action", "duration_ms: 100\nsteps:\n  - at_ms: 5\n", "no action"},
		{"two actions", "duration_ms: 100\nsteps:\n  - at_ms: 5\n    near: 10\n    reboot: true\n", "2 actions"},
		{"unordered", "duration_ms: 100\nsteps:\n  - at_ms: 50\n    reboot: true\n  - at_ms: 5\n    reboot: true\n", "ordered"},
		{"bad code", "duration_ms: 100\nsteps:\n  - at_ms: 5\n    leave: {error: 16}\n", "not a range error"},
		{"late step", "duration_ms: 100\nsteps:\n  - at_ms: 500\n    reboot: true\n", "after duration_ms"},
		{"bad switch", "duration_ms: 100\nswitch:\n  min_distance_mm: 255\n", "switch:"},
		{"long run", "duration_ms: 4294967290\n", "exceeds"},
		{"zero poll", "duration_ms: 100\npoll_interval_ms: 0\n", "poll_interval_ms"},
		{"not yaml", "steps: [", "parsing scenario"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunQuickPass(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "quick_pass.yaml"))
	require.NoError(t, err)

	res, err := Run(s, nil)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, res.Switches())
	assert.False(t, res.IsOn)
	assert.Equal(t, dimmer.Ranging, res.State)
	assert.Equal(t, 501, res.Polls)

	var codes []uint32
	for _, ev := range res.Events {
		if ev.Kind == dimmer.EventRangeError {
			codes = append(codes, ev.Value)
		}
	}
	assert.Equal(t, []uint32{uint32(vl6180x.RangeErrMaxSignalToNoise), uint32(vl6180x.RangeErrEarlyConvergence)}, codes)
}

func TestRunHoverDims(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "hover.yaml"))
	require.NoError(t, err)

	var observed int
	res, err := Run(s, func(dimmer.Event) { observed++ })
	require.NoError(t, err)

	assert.Equal(t, len(res.Events), observed)
	assert.Equal(t, []bool{true}, res.Switches(), "hold after a click leaves the output on")
	assert.True(t, res.IsOn)
	assert.Less(t, res.Brightness, uint8(dimmer.Brightness(120, 10, 255)))
	assert.Greater(t, res.Brightness, uint8(dimmer.Brightness(40, 10, 255)))
	assert.NotZero(t, res.Color.R)
}

func TestRunHotPlugRecovers(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "hot_plug.yaml"))
	require.NoError(t, err)

	res, err := Run(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count(res.Events, dimmer.EventHotPlug))
	assert.Equal(t, 3, count(res.Events, dimmer.EventIdentity))
	assert.Equal(t, dimmer.Ranging, res.State)
	assert.Equal(t, []bool{true}, res.Switches(), "gestures work after recovery")
}
