package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeFrames(t *testing.T, enc *FrameEncoder, payloads ...[]uint32) []byte {
	t.Helper()
	var out bytes.Buffer
	for _, p := range payloads {
		scratch := NewScratchOutput()
		err := enc.EncodeFrame(scratch, func(o OutputBuffer) {
			for _, v := range p {
				EncodeVLQUint(o, v)
			}
		})
		require.NoError(t, err)
		out.Write(scratch.Result())
	}
	return out.Bytes()
}

func collect(d **FrameDecoder) *[]*Message {
	var msgs []*Message
	*d = NewFrameDecoder(func(m *Message) { msgs = append(msgs, m) })
	return &msgs
}

func TestEncodeFrameLayout(t *testing.T) {
	enc := NewFrameEncoder()
	scratch := NewScratchOutput()
	require.NoError(t, enc.Send(scratch, 3, func(o OutputBuffer) { EncodeVLQUint(o, 1) }))

	frame := scratch.Result()
	require.Len(t, frame, 7)
	assert.Equal(t, byte(7), frame[MessagePositionLen])
	assert.Equal(t, byte(MessageDest), frame[MessagePositionSeq])
	assert.Equal(t, []byte{3, 1}, frame[2:4])
	crc := CRC16(frame[:4])
	assert.Equal(t, []byte{byte(crc >> 8), byte(crc), MessageValueSync}, frame[4:])
}

func TestEncodeFrameSequenceWraps(t *testing.T) {
	enc := NewFrameEncoder()
	var seqs []byte
	for i := 0; i < 18; i++ {
		scratch := NewScratchOutput()
		require.NoError(t, enc.EncodeFrame(scratch, func(OutputBuffer) {}))
		seqs = append(seqs, scratch.Result()[MessagePositionSeq])
	}
	assert.Equal(t, byte(0x10), seqs[0])
	assert.Equal(t, byte(0x1F), seqs[15])
	assert.Equal(t, byte(0x10), seqs[16])
}

func TestEncodeFrameTooLong(t *testing.T) {
	enc := NewFrameEncoder()
	scratch := NewScratchOutput()
	err := enc.EncodeFrame(scratch, func(o OutputBuffer) {
		o.Output(make([]byte, MessageLengthMax))
	})
	assert.ErrorIs(t, err, ErrFrameTooLong)

	scratch.Reset()
	require.NoError(t, enc.EncodeFrame(scratch, func(OutputBuffer) {}))
	assert.Equal(t, byte(MessageDest), scratch.Result()[MessagePositionSeq], "failed frame keeps its sequence")
}

func TestDecodeRoundTrip(t *testing.T) {
	stream := encodeFrames(t, NewFrameEncoder(), []uint32{1, 2000, 7}, []uint32{4, 2010, 200})

	var dec *FrameDecoder
	msgs := collect(&dec)
	dec.Receive(NewSliceInputBuffer(stream))

	require.Len(t, *msgs, 2)
	payload := (*msgs)[1].Payload
	for _, want := range []uint32{4, 2010, 200} {
		got, err := DecodeVLQUint(&payload)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Zero(t, dec.Lost())
	assert.Zero(t, dec.Resyncs())
}

func TestDecodePartialFrameWaits(t *testing.T) {
	stream := encodeFrames(t, NewFrameEncoder(), []uint32{1, 2, 3})

	var dec *FrameDecoder
	msgs := collect(&dec)
	fifo := NewFifoBuffer(128)

	fifo.Write(stream[:4])
	dec.Receive(fifo)
	assert.Empty(t, *msgs)
	assert.Equal(t, 4, fifo.Available(), "partial frame stays buffered")

	fifo.Write(stream[4:])
	dec.Receive(fifo)
	assert.Len(t, *msgs, 1)
	assert.True(t, fifo.IsEmpty())
}

func TestDecodeResyncsAfterGarbage(t *testing.T) {
	enc := NewFrameEncoder()
	first := encodeFrames(t, enc, []uint32{1, 1})
	second := encodeFrames(t, enc, []uint32{2, 2})

	corrupt := append([]byte{}, first...)
	corrupt[2] ^= 0xFF // breaks the CRC

	stream := append([]byte{0x42, 0x99}, corrupt...)
	stream = append(stream, second...)

	var dec *FrameDecoder
	msgs := collect(&dec)
	dec.Receive(NewSliceInputBuffer(stream))

	require.Len(t, *msgs, 1)
	assert.Equal(t, byte(MessageDest+1), (*msgs)[0].Sequence)
	assert.Positive(t, dec.Resyncs())
}

func TestDecodeCountsSequenceGaps(t *testing.T) {
	enc := NewFrameEncoder()
	a := encodeFrames(t, enc, []uint32{1})
	encodeFrames(t, enc, []uint32{2}, []uint32{3}) // never delivered
	b := encodeFrames(t, enc, []uint32{4})

	var dec *FrameDecoder
	msgs := collect(&dec)
	dec.Receive(NewSliceInputBuffer(append(a, b...)))

	assert.Len(t, *msgs, 2)
	assert.Equal(t, uint32(2), dec.Lost())
}
