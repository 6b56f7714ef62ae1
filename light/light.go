// Package light renders the dimmer state onto an LED strip.
package light

import "starlight/dimmer"

// AverageSize is the length of the brightness moving average.
const AverageSize = 64

// Color is an 8-bit RGB colour.
type Color struct {
	R, G, B uint8
}

var (
	White = Color{255, 255, 255}
	Black = Color{}
)

// Scale dims c by brightness (255 keeps it unchanged).
func (c Color) Scale(brightness uint8) Color {
	s := func(v uint8) uint8 {
		return uint8((uint16(v) * (uint16(brightness) + 1)) >> 8)
	}
	return Color{s(c.R), s(c.G), s(c.B)}
}

// Output follows switch and dim callbacks. Its methods match
// dimmer.SwitchFunc and dimmer.DimFunc so they can be registered directly.
// Output starts dark at full target brightness.
type Output struct {
	OnColor Color

	color      Color
	brightness uint32
	last       Color
	rendered   bool
}

// NewOutput creates an output that lights white when on.
func NewOutput() *Output {
	return &Output{
		OnColor:    White,
		color:      Black,
		brightness: 255,
	}
}

// OnSwitch implements dimmer.SwitchFunc.
func (o *Output) OnSwitch(_ dimmer.DimmerSwitch, isOn bool, _ any) {
	if isOn {
		o.color = o.OnColor
	} else {
		o.color = Black
	}
}

// OnDim implements dimmer.DimFunc. Each sample moves the brightness 1/64
// of the way to the new value, smoothing out sensor jitter.
func (o *Output) OnDim(_ dimmer.DimmerSwitch, brightness uint8, _ any) {
	o.brightness = (o.brightness*AverageSize - o.brightness + uint32(brightness)) / AverageSize
}

// Attach registers the output on sw.
func (o *Output) Attach(sw dimmer.DimmerSwitch) {
	sw.RegisterSwitchCallback(o.OnSwitch, nil)
	sw.RegisterDimCallback(o.OnDim, nil)
}

// Brightness returns the smoothed brightness.
func (o *Output) Brightness() uint8 {
	return uint8(o.brightness)
}

// Color returns the colour to show, scaled by the smoothed brightness.
func (o *Output) Color() Color {
	return o.color.Scale(o.Brightness())
}

// Changed reports whether Color differs from the value seen by the previous
// call. The first call always reports true.
func (o *Output) Changed() bool {
	c := o.Color()
	if o.rendered && c == o.last {
		return false
	}
	o.last = c
	o.rendered = true
	return true
}

// Fill sets every LED to the current colour.
func (o *Output) Fill(leds []Color) {
	c := o.Color()
	for i := range leds {
		leds[i] = c
	}
}
