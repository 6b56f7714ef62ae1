package dimmer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starlight/sim"
	"starlight/vl6180x"
)

func TestNewHoldsSensorInShutdown(t *testing.T) {
	r := newRig(t)

	assert.Equal(t, Uninitialized, r.sw.State())
	assert.Equal(t, sim.PinOutput, r.gpio.Mode(r.cfg.ShutdownPin))
	assert.Equal(t, sim.PinInputPullUp, r.gpio.Mode(r.cfg.InterruptPin))
	assert.Equal(t, []bool{false}, r.gpio.History(r.cfg.ShutdownPin))
	assert.False(t, r.sensor.Powered())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HoldTimeout = 0
	_, err := New(cfg, sim.NewSensor(), sim.NewGPIO(), sim.NewClock(0))
	assert.ErrorIs(t, err, ErrHoldTimeout)
}

func TestBringUpSequence(t *testing.T) {
	r := newRig(t)

	r.pollAt(0)
	require.Equal(t, AwaitingReset, r.sw.State())
	require.True(t, r.sensor.Powered())
	r.sensor.ResetWrites()

	r.pollAt(1201)
	for i := 0; i < 5; i++ {
		r.sw.Poll()
	}

	var states []State
	for _, ev := range r.eventsOf(EventState) {
		states = append(states, ev.State)
	}
	wantStates := []State{
		AwaitingReset, Powered, FreshOutOfReset, CalibrationProgrammed,
		Configured, Initialized, Ranging,
	}
	if diff := cmp.Diff(wantStates, states); diff != "" {
		t.Errorf("state sequence mismatch (-want +got):\n%s", diff)
	}

	var want []sim.Write
	last := len(vl6180x.PrivateSettings) - 1
	for i, w := range vl6180x.PrivateSettings {
		want = append(want, sim.Write{Reg: w.Reg, Data: []byte{w.Value}, Hold: i != last})
	}
	want = append(want,
		sim.Write{Reg: vl6180x.SYSTEM_GROUPED_PARAMETER_HOLD, Data: []byte{0x01}, Hold: true},
		sim.Write{Reg: vl6180x.SYSTEM_MODE_GPIO1, Data: []byte{0x10}, Hold: true},
		sim.Write{Reg: vl6180x.SYSTEM_INTERRUPT_CONFIG_GPIO, Data: []byte{0x01}, Hold: true},
		sim.Write{Reg: vl6180x.SYSRANGE_THRESH_LOW, Data: []byte{255}, Hold: true},
		sim.Write{Reg: vl6180x.SYSRANGE_MAX_CONVERGENCE_TIME, Data: []byte{30}, Hold: true},
		sim.Write{Reg: vl6180x.SYSRANGE_INTERMEASUREMENT_PERIOD, Data: []byte{10}, Hold: true},
		sim.Write{Reg: vl6180x.SYSRANGE_EARLY_CONVERGENCE_ESTIMATE, Data: []byte{0x00, 0xCC}, Hold: true},
		sim.Write{Reg: vl6180x.SYSTEM_GROUPED_PARAMETER_HOLD, Data: []byte{0x00}, Hold: false},
		sim.Write{Reg: vl6180x.SYSTEM_FRESH_OUT_OF_RESET, Data: []byte{0x00}, Hold: false},
		sim.Write{Reg: vl6180x.SYSRANGE_START, Data: []byte{0x03}, Hold: false},
	)
	if diff := cmp.Diff(want, r.sensor.Writes()); diff != "" {
		t.Errorf("register writes mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, r.sensor.Ranging())
	assert.Zero(t, r.sensor.Register(vl6180x.SYSTEM_FRESH_OUT_OF_RESET))
}

func TestResetSettleIsStrict(t *testing.T) {
	r := newRig(t)
	r.pollAt(100)

	r.pollAt(1300)
	assert.Equal(t, AwaitingReset, r.sw.State(), "exactly ResetSettle must not advance")

	r.pollAt(1301)
	assert.Equal(t, Powered, r.sw.State())
}

func TestResetSettleAcrossClockWrap(t *testing.T) {
	r := newRig(t)
	start := uint32(0xFFFFFF00)
	r.pollAt(start)

	r.pollAt(start + 1000)
	assert.Equal(t, AwaitingReset, r.sw.State())

	r.pollAt(start + 1201)
	assert.Equal(t, Powered, r.sw.State())
}

func TestPoweredWaitsForFreshFlag(t *testing.T) {
	r := newRig(t)
	r.pollAt(0)
	r.sensor.SetRegister(vl6180x.SYSTEM_FRESH_OUT_OF_RESET, 0)
	r.pollAt(1201)
	require.Equal(t, Powered, r.sw.State())

	for i := 0; i < 3; i++ {
		r.sw.Poll()
		assert.Equal(t, Powered, r.sw.State())
	}

	r.sensor.SetRegister(vl6180x.SYSTEM_FRESH_OUT_OF_RESET, 1)
	r.sw.Poll()
	assert.Equal(t, FreshOutOfReset, r.sw.State())
}

func TestRangeSetupWaitsForDeviceReady(t *testing.T) {
	r := newRig(t)
	r.pollAt(0)
	r.pollAt(1201)
	r.sw.Poll() // Powered -> FreshOutOfReset
	r.sw.Poll() // -> CalibrationProgrammed
	require.Equal(t, CalibrationProgrammed, r.sw.State())

	r.sensor.SetRegister(vl6180x.RESULT_RANGE_STATUS, 0x00)
	r.sensor.ResetWrites()
	r.sw.Poll()
	r.sw.Poll()
	assert.Equal(t, CalibrationProgrammed, r.sw.State())
	assert.Empty(t, r.sensor.Writes(), "no range config before the device is ready")

	r.sensor.SetRegister(vl6180x.RESULT_RANGE_STATUS, vl6180x.RangeStatusDeviceReady)
	r.sw.Poll()
	assert.Equal(t, Configured, r.sw.State())
	assert.Len(t, r.sensor.Writes(), 8)
}

func TestBusFailuresDuringBringUpAreAbsorbed(t *testing.T) {
	r := newRig(t)
	r.pollAt(0)
	r.pollAt(1201)
	r.sw.Poll()
	require.Equal(t, FreshOutOfReset, r.sw.State())

	r.sensor.FailNext(2)
	r.sw.Poll()
	assert.Equal(t, CalibrationProgrammed, r.sw.State())
	assert.Len(t, r.sensor.Writes(), len(vl6180x.PrivateSettings)-2)
}

func TestIdentityReportedOnRanging(t *testing.T) {
	r := newRig(t)
	r.pollAt(0)
	r.pollAt(1201)
	for i := 0; i < 5; i++ {
		r.sw.Poll()
	}

	ids := r.eventsOf(EventIdentity)
	require.Len(t, ids, 1)
	assert.True(t, ids[0].Identity.Valid())
	assert.Equal(t, uint8(vl6180x.ExpectedModelID), ids[0].Identity.ModelID)
	assert.Equal(t, Ranging, ids[0].State)
}

func TestHotPlugRecovery(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)
	r.sw.ConfigureIndicator(indicatorPin, true)
	r.enterNear(t, 2000, 80)

	r.sensor.Reboot()
	before := r.sensor.Transactions()
	r.pollAt(2010)
	assert.Equal(t, Uninitialized, r.sw.State(), "reboot is caught on the next poll")
	assert.Equal(t, 1, r.sensor.Transactions()-before, "hot-plug poll reads only the reset flag")
	assert.False(t, r.gpio.Level(r.cfg.ShutdownPin))
	assert.False(t, r.gpio.Level(indicatorPin))
	assert.Len(t, r.eventsOf(EventHotPlug), 1)
	assert.Empty(t, r.eventsOf(EventSwitch), "rebooted registers never read as a hold")
	assert.Empty(t, r.eventsOf(EventDim))

	r.pollAt(5000)
	assert.Equal(t, AwaitingReset, r.sw.State())
	assert.True(t, r.gpio.Level(r.cfg.ShutdownPin))
}

func TestRebootHeldNearIsNotReadAsHold(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)
	r.enterNear(t, 2000, 200)

	r.sensor.Reboot()
	for now := uint32(2010); now <= 2600; now += 10 {
		r.pollAt(now)
	}

	assert.False(t, r.sw.IsOn())
	assert.Empty(t, r.eventsOf(EventSwitch))
	assert.Len(t, r.eventsOf(EventHotPlug), 1)
}

func TestResetCheckSkipsEveryNthPoll(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)

	// Bring-up entered Ranging on a poll that did not count.
	for i := uint32(1); i < r.cfg.HotPlugCheckEvery-1; i++ {
		r.sw.Poll()
	}
	r.sw.Poll() // poll N-1 reads the flag
	r.sensor.Reboot()
	r.sw.Poll() // poll N skips it
	assert.Equal(t, Ranging, r.sw.State())

	r.sw.Poll()
	assert.Equal(t, Uninitialized, r.sw.State())
	assert.Len(t, r.eventsOf(EventHotPlug), 1)
}

func TestPeriodicCheckWithoutReset(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)

	for i := 0; i < 3*int(r.cfg.HotPlugCheckEvery); i++ {
		r.sw.Poll()
	}
	assert.Equal(t, Ranging, r.sw.State())
	assert.Empty(t, r.eventsOf(EventHotPlug))
}

func TestIndicatorFollowsNear(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)
	r.sw.ConfigureIndicator(indicatorPin, false)
	assert.Equal(t, sim.PinOutput, r.gpio.Mode(indicatorPin))
	assert.True(t, r.gpio.Level(indicatorPin), "active-low indicator starts high")

	r.enterNear(t, 2000, 50)
	assert.False(t, r.gpio.Level(indicatorPin))

	r.sensor.Leave(vl6180x.RangeErrMaxSignalToNoise)
	r.pollAt(2100)
	assert.True(t, r.gpio.Level(indicatorPin))
	assert.Equal(t, []bool{true, false, true}, r.gpio.History(indicatorPin))
}

func TestIndicatorReplaced(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)
	r.sw.ConfigureIndicator(indicatorPin, true)
	r.sw.ConfigureIndicator(indicatorPin+1, true)

	r.enterNear(t, 2000, 50)
	assert.True(t, r.gpio.Level(indicatorPin+1))
	assert.Equal(t, []bool{false}, r.gpio.History(indicatorPin))
}

func TestNoIndicatorConfigured(t *testing.T) {
	r := newRig(t)
	r.bringUp(t)
	r.enterNear(t, 2000, 50)
	r.sensor.Leave(vl6180x.RangeErrMaxSignalToNoise)
	r.pollAt(2100)

	assert.Nil(t, r.gpio.History(indicatorPin))
}
