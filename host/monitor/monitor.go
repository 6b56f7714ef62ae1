// Package monitor follows the telemetry stream of a running dimmer.
package monitor

import (
	"context"
	"fmt"
	"sync"

	"starlight/dimmer"
	"starlight/host/serial"
	"starlight/protocol"
	"starlight/telemetry"
)

// Stats summarises a monitoring session.
type Stats struct {
	Frames      int
	Undecodable int
	Lost        uint32 // frames missing from the sequence
	Resyncs     uint32
	State       dimmer.State
	IsOn        bool
	Brightness  uint8
	HotPlugs    int
}

// Monitor represents a connection to a dimmer's telemetry port
type Monitor struct {
	port   serial.Port
	reader *protocol.FrameReader

	mu    sync.Mutex
	stats Stats
}

// Connect opens device and starts decoding frames.
func Connect(device string, baud int) (*Monitor, error) {
	cfg := serial.DefaultConfig(device)
	if baud > 0 {
		cfg.Baud = baud
	}
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return NewMonitor(port), nil
}

// NewMonitor decodes frames from an already open port.
func NewMonitor(port serial.Port) *Monitor {
	return &Monitor{
		port:   port,
		reader: protocol.NewFrameReader(port),
	}
}

// Handler receives each decoded event together with its raw frame.
type Handler func(ev dimmer.Event, msg *protocol.Message)

// Run delivers events to handle until ctx is done or the stream ends.
// Frames that do not decode are counted and skipped.
func (m *Monitor) Run(ctx context.Context, handle Handler) error {
	msgs := m.reader.Messages()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if err := m.reader.Err(); err != nil {
					return fmt.Errorf("reading telemetry: %w", err)
				}
				return nil
			}
			ev, err := telemetry.Decode(msg.Payload)
			m.record(ev, err)
			if err != nil {
				continue
			}
			if handle != nil {
				handle(ev, msg)
			}
		}
	}
}

func (m *Monitor) record(ev dimmer.Event, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Frames++
	if err != nil {
		m.stats.Undecodable++
		return
	}
	switch ev.Kind {
	case dimmer.EventState:
		m.stats.State = ev.State
	case dimmer.EventSwitch:
		m.stats.IsOn = ev.Value != 0
	case dimmer.EventDim:
		m.stats.Brightness = uint8(ev.Value)
	case dimmer.EventHotPlug:
		m.stats.HotPlugs++
	}
}

// Stats returns a snapshot of the session counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	s := m.stats
	m.mu.Unlock()
	s.Lost = m.reader.Lost()
	s.Resyncs = m.reader.Resyncs()
	return s
}

// Close stops decoding and closes the port.
func (m *Monitor) Close() error {
	return m.reader.Close()
}
