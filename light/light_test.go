package light

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"starlight/dimmer"
	"starlight/sim"
)

func TestSwitchColor(t *testing.T) {
	o := NewOutput()
	assert.Equal(t, Black, o.Color())

	o.OnSwitch(nil, true, nil)
	assert.Equal(t, White, o.Color())

	o.OnSwitch(nil, false, nil)
	assert.Equal(t, Black, o.Color())
}

func TestDimMovingAverage(t *testing.T) {
	o := NewOutput()
	o.OnDim(nil, 0, nil)
	assert.Equal(t, uint8(251), o.Brightness()) // (255*63 + 0) / 64

	for i := 0; i < 1000; i++ {
		o.OnDim(nil, 0, nil)
	}
	assert.Equal(t, uint8(0), o.Brightness())

	o.OnDim(nil, 255, nil)
	assert.Equal(t, uint8(3), o.Brightness())
}

func TestScale(t *testing.T) {
	assert.Equal(t, White, White.Scale(255))
	assert.Equal(t, Color{127, 127, 127}, White.Scale(127))
	assert.Equal(t, Black, White.Scale(0))
}

func TestChanged(t *testing.T) {
	o := NewOutput()
	assert.True(t, o.Changed())
	assert.False(t, o.Changed())

	o.OnSwitch(nil, true, nil)
	assert.True(t, o.Changed())
	assert.False(t, o.Changed())

	o.OnDim(nil, 0, nil)
	assert.True(t, o.Changed())
}

func TestFill(t *testing.T) {
	o := NewOutput()
	o.OnColor = Color{R: 255}
	o.OnSwitch(nil, true, nil)

	leds := make([]Color, 5)
	o.Fill(leds)
	for _, c := range leds {
		assert.Equal(t, Color{R: 255}, c)
	}
}

func TestAttachFollowsSwitch(t *testing.T) {
	sensor := sim.NewSensor()
	clock := sim.NewClock(0)
	sw, err := dimmer.New(dimmer.DefaultConfig(), sensor, sim.NewGPIO(), clock)
	assert.NoError(t, err)

	o := NewOutput()
	o.Attach(sw)

	for _, ms := range []uint32{0, 1201, 1202, 1203, 1204, 1205, 1206} {
		clock.Set(ms)
		sw.Poll()
	}
	sensor.Near(50)
	clock.Set(2000)
	sw.Poll()
	sensor.Hover(50)
	for ms := uint32(2010); ms <= 2600; ms += 10 {
		clock.Set(ms)
		sw.Poll()
	}

	assert.True(t, sw.IsOn())
	assert.NotEqual(t, Black, o.Color())
	assert.Less(t, o.Brightness(), uint8(255))
}
