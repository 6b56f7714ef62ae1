//go:build rp2040 || rp2350

// Package pio drives the dimmer's LED strip from an RP2 PIO state machine.
package pio

import (
	"machine"

	"starlight/light"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

// Strip is a chain of WS2812 LEDs fed from one PIO state machine.
type Strip struct {
	ws   *piolib.WS2812B
	leds []light.Color
	raw  []uint32
}

// NewStrip claims a state machine on PIO block pioNum (0 or 1) and loads the
// WS2812 program driving count LEDs on pin.
func NewStrip(pioNum uint8, pin machine.Pin, count int) (*Strip, error) {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}

	sm, err := pioHW.ClaimStateMachine()
	if err != nil {
		return nil, err
	}

	ws, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		sm.Unclaim()
		return nil, err
	}

	return &Strip{
		ws:   ws,
		leds: make([]light.Color, count),
		raw:  make([]uint32, count),
	}, nil
}

// Len returns the number of LEDs in the chain.
func (s *Strip) Len() int {
	return len(s.leds)
}

// Show renders the output's current colour onto every LED. Nothing is sent
// when the output has not changed since the last call.
func (s *Strip) Show(out *light.Output) error {
	if !out.Changed() {
		return nil
	}
	out.Fill(s.leds)
	for i, c := range s.leds {
		s.raw[i] = grb(c)
	}
	return s.ws.WriteRaw(s.raw)
}

// Clear switches every LED off.
func (s *Strip) Clear() error {
	for i := range s.raw {
		s.leds[i] = light.Black
		s.raw[i] = 0
	}
	return s.ws.WriteRaw(s.raw)
}

// grb packs a colour into the left-justified word the PIO program shifts out.
func grb(c light.Color) uint32 {
	return uint32(c.G)<<24 | uint32(c.R)<<16 | uint32(c.B)<<8
}
