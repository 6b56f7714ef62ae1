package protocol

import (
	"errors"
	"sync/atomic"
)

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
)

// ErrFrameTooLong is returned when a payload does not fit MessageLengthMax.
var ErrFrameTooLong = errors.New("protocol: frame too long")

// FrameEncoder frames payloads with a rolling sequence number.
type FrameEncoder struct {
	nextSequence uint32 // atomic uint8 stored as uint32
}

// NewFrameEncoder creates an encoder starting at sequence 0x10.
func NewFrameEncoder() *FrameEncoder {
	return &FrameEncoder{nextSequence: MessageDest}
}

// EncodeFrame writes one frame whose payload is produced by frameData.
// On ErrFrameTooLong the output holds a partial frame and the sequence
// number is not consumed; callers using a ScratchOutput reset it.
func (e *FrameEncoder) EncodeFrame(output OutputBuffer, frameData func(output OutputBuffer)) error {
	cursor := output.CurPosition()

	seq := uint8(atomic.LoadUint32(&e.nextSequence))
	output.Output([]byte{0, seq})

	frameData(output)

	msgLen := len(output.DataSince(cursor)) + MessageTrailerSize
	if msgLen > MessageLengthMax {
		return ErrFrameTooLong
	}
	output.Update(cursor, uint8(msgLen))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	atomic.StoreUint32(&e.nextSequence, uint32(nextSequence(seq)))
	return nil
}

// Send frames a message id followed by its arguments.
func (e *FrameEncoder) Send(output OutputBuffer, msgID uint32, args func(output OutputBuffer)) error {
	return e.EncodeFrame(output, func(output OutputBuffer) {
		EncodeVLQUint(output, msgID)
		if args != nil {
			args(output)
		}
	})
}

// Reset restarts the sequence at 0x10.
func (e *FrameEncoder) Reset() {
	atomic.StoreUint32(&e.nextSequence, MessageDest)
}

func nextSequence(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}

// MessageHandler receives every valid frame.
type MessageHandler func(msg *Message)

// FrameDecoder splits a byte stream into frames. Corrupt data drops the
// decoder out of sync until the next sync byte.
type FrameDecoder struct {
	isSynchronized uint32 // atomic bool (0 = false, 1 = true)
	expected       uint32 // atomic, next sequence; 0 before the first frame
	lost           uint32 // atomic, frames missing from the sequence
	resyncs        uint32 // atomic
	handler        MessageHandler
}

// NewFrameDecoder creates a decoder delivering frames to handler.
func NewFrameDecoder(handler MessageHandler) *FrameDecoder {
	return &FrameDecoder{
		isSynchronized: 1, // Start synchronized
		handler:        handler,
	}
}

// Receive consumes complete frames from input. Bytes of a trailing partial
// frame stay in input for the next call.
func (d *FrameDecoder) Receive(input InputBuffer) {
	data := input.Data()

	for len(data) > 0 {
		if !d.getSynchronized() {
			// Look for sync byte to resynchronize
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}

			if syncPos >= 0 {
				data = data[syncPos+1:]
				d.setSynchronized(true)
			} else {
				data = nil
			}
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageHeaderSize-MessageTrailerSize)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		msg := &Message{
			Length:   uint8(msgLen),
			Sequence: seq,
			Payload:  payload,
			CRC:      frameCRC,
		}
		data = data[msgLen:]

		d.track(seq)
		if d.handler != nil {
			d.handler(msg)
		}
	}

	// Remove consumed bytes from input
	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

// track counts frames skipped in the sequence. A gap of more than 15
// frames is indistinguishable from a shorter one.
func (d *FrameDecoder) track(seq uint8) {
	expected := uint8(atomic.LoadUint32(&d.expected))
	if expected != 0 && seq != expected {
		atomic.AddUint32(&d.lost, uint32((seq-expected)&MessageSeqMask))
	}
	atomic.StoreUint32(&d.expected, uint32(nextSequence(seq)))
}

func (d *FrameDecoder) desync() {
	atomic.AddUint32(&d.resyncs, 1)
	d.setSynchronized(false)
}

// Lost returns the number of frames missing from the sequence so far.
func (d *FrameDecoder) Lost() uint32 {
	return atomic.LoadUint32(&d.lost)
}

// Resyncs returns how often corrupt data forced a resynchronisation.
func (d *FrameDecoder) Resyncs() uint32 {
	return atomic.LoadUint32(&d.resyncs)
}

// Helper methods for atomic operations
func (d *FrameDecoder) getSynchronized() bool {
	return atomic.LoadUint32(&d.isSynchronized) != 0
}

func (d *FrameDecoder) setSynchronized(val bool) {
	if val {
		atomic.StoreUint32(&d.isSynchronized, 1)
	} else {
		atomic.StoreUint32(&d.isSynchronized, 0)
	}
}
