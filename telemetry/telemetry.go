// Package telemetry streams dimmer events as protocol frames.
//
// Every frame carries one message: a VLQ message id, the clock in
// milliseconds, then the message arguments.
package telemetry

import (
	"errors"

	"starlight/dimmer"
	"starlight/protocol"
)

// Message ids.
const (
	MsgState      = 1 // state
	MsgGesture    = 2 // gesture, distance
	MsgSwitch     = 3 // on
	MsgDim        = 4 // brightness
	MsgRangeError = 5 // code
	MsgHotPlug    = 6 // state at detection
	MsgIdentity   = 7 // model, model major, model minor, module major, module minor
)

var (
	ErrUnknownMessage = errors.New("telemetry: unknown message id")
	ErrShortMessage   = errors.New("telemetry: truncated message")
)

// Encoder writes one frame per observed event into a byte FIFO that the
// firmware drains to its serial port.
type Encoder struct {
	frames  *protocol.FrameEncoder
	out     *protocol.FifoBuffer
	scratch protocol.ScratchOutput
	dropped uint32
}

// NewEncoder creates an encoder writing to out.
func NewEncoder(out *protocol.FifoBuffer) *Encoder {
	return &Encoder{
		frames: protocol.NewFrameEncoder(),
		out:    out,
	}
}

// Observe implements dimmer.Observer. Frames that do not fit the FIFO are
// dropped whole and counted.
func (e *Encoder) Observe(ev dimmer.Event) {
	id, ok := messageID(ev.Kind)
	if !ok {
		return
	}

	e.scratch.Reset()
	err := e.frames.Send(&e.scratch, id, func(o protocol.OutputBuffer) {
		protocol.EncodeVLQUint(o, ev.At)
		encodeArgs(o, ev)
	})
	if err != nil {
		e.dropped++
		return
	}

	frame := e.scratch.Result()
	if e.out.Free() < len(frame) {
		e.dropped++
		return
	}
	e.out.Write(frame)
}

// Dropped returns the number of events that did not make it into the FIFO.
func (e *Encoder) Dropped() uint32 {
	return e.dropped
}

func messageID(k dimmer.EventKind) (uint32, bool) {
	switch k {
	case dimmer.EventState:
		return MsgState, true
	case dimmer.EventGesture:
		return MsgGesture, true
	case dimmer.EventSwitch:
		return MsgSwitch, true
	case dimmer.EventDim:
		return MsgDim, true
	case dimmer.EventRangeError:
		return MsgRangeError, true
	case dimmer.EventHotPlug:
		return MsgHotPlug, true
	case dimmer.EventIdentity:
		return MsgIdentity, true
	}
	return 0, false
}

func encodeArgs(o protocol.OutputBuffer, ev dimmer.Event) {
	switch ev.Kind {
	case dimmer.EventState, dimmer.EventHotPlug:
		protocol.EncodeVLQUint(o, uint32(ev.State))
	case dimmer.EventGesture:
		protocol.EncodeVLQUint(o, uint32(ev.Gesture))
		protocol.EncodeVLQUint(o, ev.Value)
	case dimmer.EventSwitch, dimmer.EventDim, dimmer.EventRangeError:
		protocol.EncodeVLQUint(o, ev.Value)
	case dimmer.EventIdentity:
		id := ev.Identity
		for _, v := range []uint8{id.ModelID, id.ModelRevMajor, id.ModelRevMinor, id.ModuleRevMajor, id.ModuleRevMinor} {
			protocol.EncodeVLQUint(o, uint32(v))
		}
	}
}

var argCount = [...]int{
	MsgState:      1,
	MsgGesture:    2,
	MsgSwitch:     1,
	MsgDim:        1,
	MsgRangeError: 1,
	MsgHotPlug:    1,
	MsgIdentity:   5,
}

// Decode reverses Observe for one frame payload.
func Decode(payload []byte) (dimmer.Event, error) {
	data := payload
	next := func() (uint32, error) {
		v, err := protocol.DecodeVLQUint(&data)
		if err != nil {
			return 0, ErrShortMessage
		}
		return v, nil
	}

	id, err := next()
	if err != nil {
		return dimmer.Event{}, err
	}
	at, err := next()
	if err != nil {
		return dimmer.Event{}, err
	}

	if id == 0 || id >= uint32(len(argCount)) {
		return dimmer.Event{}, ErrUnknownMessage
	}
	var args [5]uint32
	for i := 0; i < argCount[id]; i++ {
		if args[i], err = next(); err != nil {
			return dimmer.Event{}, err
		}
	}

	ev := dimmer.Event{At: at}
	switch id {
	case MsgState:
		ev.Kind, ev.State = dimmer.EventState, dimmer.State(args[0])
	case MsgHotPlug:
		ev.Kind, ev.State = dimmer.EventHotPlug, dimmer.State(args[0])
	case MsgGesture:
		ev.Kind, ev.Gesture, ev.Value = dimmer.EventGesture, dimmer.Gesture(args[0]), args[1]
	case MsgSwitch:
		ev.Kind, ev.Value = dimmer.EventSwitch, args[0]
	case MsgDim:
		ev.Kind, ev.Value = dimmer.EventDim, args[0]
	case MsgRangeError:
		ev.Kind, ev.Value = dimmer.EventRangeError, args[0]
	case MsgIdentity:
		ev.Kind, ev.Value = dimmer.EventIdentity, args[0]
		ev.Identity.ModelID = uint8(args[0])
		ev.Identity.ModelRevMajor = uint8(args[1])
		ev.Identity.ModelRevMinor = uint8(args[2])
		ev.Identity.ModuleRevMajor = uint8(args[3])
		ev.Identity.ModuleRevMinor = uint8(args[4])
	}
	return ev, nil
}
